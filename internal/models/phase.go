package models

// Phase is one state of the host's game state machine
type Phase string

const (
	// PhaseLobby is the state before the host starts the game
	PhaseLobby Phase = "lobby"

	// PhaseRoleQuestion collects answers to role questions
	PhaseRoleQuestion Phase = "role_question"

	// PhaseAdjectiveQuestion collects answers to adjective questions
	PhaseAdjectiveQuestion Phase = "adjective_question"

	// PhaseFreeQuestion collects free-text answers used for fragments
	PhaseFreeQuestion Phase = "free_question"

	// PhaseBotCreation waits for every player to write a bot persona
	PhaseBotCreation Phase = "bot_creation"

	// PhaseActivityIntro waits for conversation generation to settle
	PhaseActivityIntro Phase = "activity_intro"

	// PhaseTurnBasedConversation plays back one conversation per player in turn
	PhaseTurnBasedConversation Phase = "turn_based_conversation"

	// PhaseVoting waits for every player to vote
	PhaseVoting Phase = "voting"

	// PhaseScoring shows placements and decides between next round and end game
	PhaseScoring Phase = "scoring"

	// PhaseEnded is terminal
	PhaseEnded Phase = "ended"
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

var phaseTransitions = map[Phase][]Phase{
	PhaseLobby:                 {PhaseRoleQuestion},
	PhaseRoleQuestion:          {PhaseAdjectiveQuestion},
	PhaseAdjectiveQuestion:     {PhaseFreeQuestion},
	PhaseFreeQuestion:          {PhaseBotCreation},
	PhaseBotCreation:           {PhaseActivityIntro},
	PhaseActivityIntro:         {PhaseTurnBasedConversation},
	PhaseTurnBasedConversation: {PhaseVoting},
	PhaseVoting:                {PhaseScoring},
	PhaseScoring:               {PhaseRoleQuestion},
}

// CanTransitionTo reports whether target directly follows p. Any non-terminal
// phase may move to PhaseEnded.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseEnded {
		return p != PhaseEnded
	}
	for _, next := range phaseTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

// IsQuestion reports whether the phase is one of the timed question rounds
func (p Phase) IsQuestion() bool {
	return p == PhaseRoleQuestion || p == PhaseAdjectiveQuestion || p == PhaseFreeQuestion
}
