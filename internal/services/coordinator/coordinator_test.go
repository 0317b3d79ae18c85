package coordinator

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	clockMocks "github.com/BraydenJenkins/chatbot-showdown/internal/common/clock/mocks"
	uuidMocks "github.com/BraydenJenkins/chatbot-showdown/internal/common/uuid/mocks"
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history"
	historyMocks "github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history/mocks"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/content"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/dialogue"
	dialogueMocks "github.com/BraydenJenkins/chatbot-showdown/internal/services/dialogue/mocks"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/fragments"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/turnorder"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CoordinatorTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockDialogue *dialogueMocks.MockService
	mockHistory  *historyMocks.MockRepository
	mockClock    *clockMocks.MockClock
	mockUUID     *uuidMocks.MockUUID

	registry    *replication.Registry
	batches     [][]replication.Change
	phases      []models.Phase
	content     *content.Service
	coordinator *Coordinator

	// Test data
	testTime      time.Time
	testSessionID string
	testRoundID   string
	conversation  *models.Conversation
}

func (s *CoordinatorTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockDialogue = dialogueMocks.NewMockService(s.mockCtrl)
	s.mockHistory = historyMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testSessionID = "test-session-id"
	s.testRoundID = "test-round-id"
	s.conversation = &models.Conversation{Messages: []models.Message{
		{Role: "agent", Content: "Welcome to the interview.", Animation: "smile"},
		{Role: "bot", Content: "I was born for this chair.", Animation: "wink"},
	}}

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().Return(s.testRoundID).AnyTimes()
	s.mockDialogue.EXPECT().
		GetConversation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *dialogue.GetConversationInput) (*dialogue.GetConversationOutput, error) {
			return &dialogue.GetConversationOutput{Conversation: s.conversation.Clone(), Attempts: 1}, nil
		}).
		AnyTimes()

	s.batches = nil
	s.phases = nil
	s.registry = replication.NewRegistry(&replication.Config{
		Sink: replication.SinkFunc(func(changes []replication.Change) {
			s.batches = append(s.batches, changes)
		}),
	})
	for _, id := range []uint64{1, 2, 3} {
		player, err := s.registry.Connect(id)
		s.Require().NoError(err)
		s.Require().NoError(player.DisplayName.Set(replication.Client(id), fmt.Sprintf("player-%d", id)))
	}

	s.coordinator = s.newCoordinator(nil)
}

func (s *CoordinatorTestSuite) TearDownTest() {
	s.coordinator.Close()
	s.mockCtrl.Finish()
}

func TestCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorTestSuite))
}

func (s *CoordinatorTestSuite) newCoordinator(tweak func(*Config)) *Coordinator {
	rnd := random.New(&random.Config{Seed: 11})

	svc, err := content.New(nil, rnd)
	s.Require().NoError(err)
	s.content = svc

	mixer, err := fragments.New(&fragments.Config{
		RequiredFragments: svc.RequiredFragments(),
		ExampleAnswers:    svc.ExampleAnswers(models.QuestionKindFree),
		Random:            rnd,
	})
	s.Require().NoError(err)

	cfg := &Config{
		Session:   s.registry,
		Content:   svc,
		Mixer:     mixer,
		Dialogue:  s.mockDialogue,
		History:   s.mockHistory,
		Random:    rnd,
		Clock:     s.mockClock,
		UUID:      s.mockUUID,
		SessionID: s.testSessionID,
		OnPhaseChange: func(_, to models.Phase) {
			s.phases = append(s.phases, to)
		},
	}
	if tweak != nil {
		tweak(cfg)
	}

	c, err := New(cfg)
	s.Require().NoError(err)
	return c
}

func (s *CoordinatorTestSuite) player(id uint64) *replication.PlayerState {
	player, ok := s.registry.Player(id)
	s.Require().True(ok)
	return player
}

func (s *CoordinatorTestSuite) expectHistory() {
	s.mockHistory.EXPECT().SaveRound(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *CoordinatorTestSuite) answerAll(prefix string) {
	for _, id := range s.registry.ConnectedPlayers() {
		s.Require().NoError(s.coordinator.SubmitAnswer(id, fmt.Sprintf("%s answer from %d", prefix, id)))
	}
}

func (s *CoordinatorTestSuite) toBotCreation() {
	s.Require().NoError(s.coordinator.StartGame())
	for _, prefix := range []string{"role", "adjective", "free"} {
		s.answerAll(prefix)
		s.coordinator.Update(DefaultQuestionDuration)
	}
	s.Require().Equal(models.PhaseBotCreation, s.coordinator.Phase())
}

func (s *CoordinatorTestSuite) waitForPhase(phase models.Phase) {
	s.Require().Eventually(func() bool {
		s.coordinator.Update(0)
		return s.coordinator.Phase() == phase
	}, 2*time.Second, 5*time.Millisecond)
}

func (s *CoordinatorTestSuite) toTurnBased() {
	s.toBotCreation()
	for _, id := range s.registry.ConnectedPlayers() {
		s.Require().NoError(s.coordinator.SubmitBotPersona(id, fmt.Sprintf("bot persona %d", id)))
	}
	s.waitForPhase(models.PhaseTurnBasedConversation)
}

func (s *CoordinatorTestSuite) playAllTurns() {
	for s.coordinator.Phase() == models.PhaseTurnBasedConversation {
		current, ok := s.coordinator.CurrentTurn()
		s.Require().True(ok)
		s.Require().NoError(s.coordinator.AdvanceConversation(current))
	}
}

func (s *CoordinatorTestSuite) toVoting() {
	s.toTurnBased()
	s.playAllTurns()
	s.Require().Equal(models.PhaseVoting, s.coordinator.Phase())
}

func (s *CoordinatorTestSuite) countPhase(phase models.Phase) int {
	n := 0
	for _, p := range s.phases {
		if p == phase {
			n++
		}
	}
	return n
}

func (s *CoordinatorTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilSession)

	_, err = New(&Config{Session: s.registry})
	s.ErrorIs(err, ErrNilContent)

	_, err = New(&Config{Session: s.registry, Content: s.content})
	s.ErrorIs(err, ErrNilMixer)
}

func (s *CoordinatorTestSuite) TestStartGameNeedsTwoPlayers() {
	s.Require().NoError(s.registry.Disconnect(2))
	s.Require().NoError(s.registry.Disconnect(3))

	s.ErrorIs(s.coordinator.StartGame(), ErrNotEnoughPlayers)
	s.Equal(models.PhaseLobby, s.coordinator.Phase())
}

func (s *CoordinatorTestSuite) TestStartGameOpensRoleQuestion() {
	s.Require().NoError(s.coordinator.StartGame())

	s.Equal(models.PhaseRoleQuestion, s.coordinator.Phase())
	s.Equal(1, s.coordinator.Round())
	session := s.registry.Session()
	s.Equal(models.PhaseRoleQuestion, session.Phase.Get())
	s.Equal(1, session.Round.Get())
	s.Equal(s.testTime.Unix(), session.TimerStart.Get())
	for _, id := range s.registry.ConnectedPlayers() {
		s.NotEmpty(s.player(id).RoleQuestion.Get())
	}

	s.ErrorIs(s.coordinator.StartGame(), ErrWrongPhase)
}

func (s *CoordinatorTestSuite) TestQuestionPhasesAdvanceOnDeadline() {
	s.Require().NoError(s.coordinator.StartGame())
	s.Require().NoError(s.coordinator.SubmitAnswer(1, "pirate accountant"))

	s.coordinator.Update(DefaultQuestionDuration - time.Second)
	s.Equal(models.PhaseRoleQuestion, s.coordinator.Phase())

	s.coordinator.Update(time.Second)
	s.Equal(models.PhaseAdjectiveQuestion, s.coordinator.Phase())
	s.NotEmpty(s.player(2).AdjectiveQuestion.Get())

	s.coordinator.Update(DefaultQuestionDuration)
	s.Equal(models.PhaseFreeQuestion, s.coordinator.Phase())

	s.coordinator.Update(DefaultQuestionDuration)
	s.Equal(models.PhaseBotCreation, s.coordinator.Phase())

	responses := s.coordinator.Responses()
	s.Equal([]string{"pirate accountant"}, responses[1].Role)
	s.NotContains(responses, uint64(2))
}

func (s *CoordinatorTestSuite) TestSubmitAnswerOutsideQuestionPhase() {
	s.ErrorIs(s.coordinator.SubmitAnswer(1, "hello"), ErrWrongPhase)
}

func (s *CoordinatorTestSuite) TestSubmitAnswerValidation() {
	s.Require().NoError(s.coordinator.StartGame())
	s.ErrorIs(s.coordinator.SubmitAnswer(1, "  "), ErrEmptySubmission)
	s.ErrorIs(s.coordinator.SubmitAnswer(42, "hi"), ErrPlayerNotFound)
	s.Error(s.coordinator.SubmitAnswer(1, strings.Repeat("x", replication.TextBytes+1)))
	s.Equal("", s.player(1).Answer.Get())
}

func (s *CoordinatorTestSuite) TestSubmitAnswerMirrorsGenericFields() {
	s.Require().NoError(s.coordinator.StartGame())
	s.Equal(s.player(1).RoleQuestion.Get(), s.player(1).Question.Get())

	s.Require().NoError(s.coordinator.SubmitAnswer(1, "astronaut"))
	s.Equal("astronaut", s.player(1).RoleAnswer.Get())
	s.Equal("astronaut", s.player(1).Answer.Get())
}

func (s *CoordinatorTestSuite) TestLateAnswerDoesNotLeakIntoNextPhase() {
	s.Require().NoError(s.coordinator.StartGame())
	s.coordinator.Update(DefaultQuestionDuration)
	s.Require().Equal(models.PhaseAdjectiveQuestion, s.coordinator.Phase())

	s.Require().NoError(s.player(1).RoleAnswer.Set(replication.Client(1), "too late"))
	s.Require().NoError(s.coordinator.SubmitAnswer(1, "sleepy"))
	s.coordinator.Update(DefaultQuestionDuration)

	responses := s.coordinator.Responses()
	s.Empty(responses[1].Role)
	s.Equal([]string{"sleepy"}, responses[1].Adjective)
}

func (s *CoordinatorTestSuite) TestBotCreationHandsOutOptionsWithoutDuplicates() {
	s.toBotCreation()

	type pair struct {
		response string
		author   uint64
	}
	seen := map[pair]bool{}
	for _, a := range s.coordinator.Allocations() {
		p := pair{a.Response, a.Author}
		s.False(seen[p], "allocated twice: %v", p)
		seen[p] = true
		s.NotEqual(a.Author, a.Recipient)
	}
	s.Len(seen, 9)

	defaults := strings.Join(s.content.DefaultOptions(), OptionSeparator)
	for _, id := range s.registry.ConnectedPlayers() {
		player := s.player(id)
		roleOptions := player.RoleOptions.Get()
		s.True(strings.HasSuffix(roleOptions, defaults), roleOptions)
		s.Len(strings.Split(player.AdjectiveOptions.Get(), OptionSeparator), OptionsPerPlayer)
		s.NotEmpty(player.Fragments.Get())
		s.Equal(s.coordinator.ActivityIndex(), player.ActivityIndex.Get())
		s.NotContains(roleOptions, fmt.Sprintf("from %d", id))
	}
}

func (s *CoordinatorTestSuite) TestBotCreationWaitsForEveryPersona() {
	s.toBotCreation()

	s.Require().NoError(s.coordinator.SubmitBotPersona(1, "a grumpy wizard"))
	s.Require().NoError(s.coordinator.SubmitBotPersona(2, "a nervous robot"))
	s.coordinator.Update(time.Hour)
	s.Equal(models.PhaseBotCreation, s.coordinator.Phase())

	s.Require().NoError(s.coordinator.SubmitBotPersona(3, "a cheerful pirate"))
	s.Equal(models.PhaseActivityIntro, s.coordinator.Phase())
	s.waitForPhase(models.PhaseTurnBasedConversation)
}

func (s *CoordinatorTestSuite) TestBotCreationProceedsWhenMissingPlayerLeaves() {
	s.toBotCreation()
	s.Require().NoError(s.coordinator.SubmitBotPersona(1, "a grumpy wizard"))
	s.Require().NoError(s.coordinator.SubmitBotPersona(2, "a nervous robot"))

	s.Require().NoError(s.registry.Disconnect(3))
	s.coordinator.PlayerDisconnected(3)

	s.Equal(models.PhaseActivityIntro, s.coordinator.Phase())
}

func (s *CoordinatorTestSuite) TestBotCreationTimeoutUsesFallbackPersona() {
	s.coordinator.Close()
	s.coordinator = s.newCoordinator(func(cfg *Config) {
		cfg.BotCreationTimeout = 10 * time.Second
	})
	s.toBotCreation()
	s.Require().NoError(s.coordinator.SubmitBotPersona(1, "a grumpy wizard"))

	s.coordinator.Update(10 * time.Second)

	s.Equal(models.PhaseActivityIntro, s.coordinator.Phase())
	s.Equal("a grumpy wizard", s.player(1).BotPersona.Get())
	s.Equal(s.content.FallbackPersona(), s.player(2).BotPersona.Get())
	s.Equal(s.content.FallbackPersona(), s.player(3).BotPersona.Get())
}

func (s *CoordinatorTestSuite) TestTurnBasedBroadcastsCurrentConversation() {
	s.toTurnBased()

	current, ok := s.coordinator.CurrentTurn()
	s.Require().True(ok)
	s.Len(s.coordinator.TurnOrder(), 2)

	for _, id := range s.registry.ConnectedPlayers() {
		player := s.player(id)
		s.Equal(id == current, player.IsMyTurn.Get())
		s.Equal(fmt.Sprintf("bot persona %d", current), player.CurrentBotPrompt.Get())
		s.Equal(0, player.CurrentConversationIndex.Get())

		conv, err := dialogue.DecodeReplicated(player.CurrentConversation.Get())
		s.Require().NoError(err)
		s.Equal(s.conversation, conv)
	}
	s.Equal(s.coordinator.TurnOrder(), turnorder.Deserialize(s.registry.Session().PlayerTurnOrder.Get()))
}

func (s *CoordinatorTestSuite) TestUnauthorizedAdvanceChangesNothing() {
	s.toTurnBased()
	current, _ := s.coordinator.CurrentTurn()
	other := s.coordinator.TurnOrder()[0]

	published := len(s.batches)
	s.ErrorIs(s.coordinator.AdvanceConversation(other), ErrNotYourTurn)
	s.ErrorIs(s.coordinator.AdvanceConversation(99), ErrNotYourTurn)

	s.Equal(published, len(s.batches))
	s.Equal(0, s.coordinator.ConversationIndex())
	s.Equal(0, s.player(current).CurrentConversationIndex.Get())
}

func (s *CoordinatorTestSuite) TestAdvancePlaysConversationThenPassesTurn() {
	s.toTurnBased()
	first, _ := s.coordinator.CurrentTurn()
	next := s.coordinator.TurnOrder()[0]

	for i := 1; i <= s.conversation.MessageCount(); i++ {
		s.Require().NoError(s.coordinator.AdvanceConversation(first))
		s.Equal(i, s.coordinator.ConversationIndex())
		s.Equal(i, s.player(next).CurrentConversationIndex.Get())
	}

	s.Require().NoError(s.coordinator.AdvanceConversation(first))
	current, ok := s.coordinator.CurrentTurn()
	s.True(ok)
	s.Equal(next, current)
	s.Equal(0, s.coordinator.ConversationIndex())
	s.False(s.player(first).IsMyTurn.Get())
	s.True(s.player(next).IsMyTurn.Get())
	s.Len(s.coordinator.TurnOrder(), 1)
}

func (s *CoordinatorTestSuite) TestExhaustedTurnOrderOpensVotingOnce() {
	s.toTurnBased()
	s.playAllTurns()

	s.Equal(models.PhaseVoting, s.coordinator.Phase())
	s.Equal(1, s.countPhase(models.PhaseVoting))
	s.Equal(models.VotingStateOpen, s.registry.Session().VotingState.Get())
	s.Empty(s.registry.Session().PlayerTurnOrder.Get())

	s.ErrorIs(s.coordinator.AdvanceConversation(1), ErrWrongPhase)
	s.Equal(1, s.countPhase(models.PhaseVoting))
}

func (s *CoordinatorTestSuite) TestDisconnectedTurnIsSkipped() {
	s.toTurnBased()
	current, _ := s.coordinator.CurrentTurn()
	next := s.coordinator.TurnOrder()[0]

	s.Require().NoError(s.registry.Disconnect(current))
	s.coordinator.PlayerDisconnected(current)

	now, ok := s.coordinator.CurrentTurn()
	s.True(ok)
	s.Equal(next, now)
	s.True(s.player(next).IsMyTurn.Get())
}

func (s *CoordinatorTestSuite) TestVoteTally() {
	s.expectHistory()
	s.toVoting()

	s.ErrorIs(s.coordinator.SubmitVote(1, 1), ErrSelfVote)
	s.ErrorIs(s.coordinator.SubmitVote(1, 42), ErrUnknownTarget)

	s.Require().NoError(s.coordinator.SubmitVote(1, 2))
	s.ErrorIs(s.coordinator.SubmitVote(1, 3), ErrAlreadyVoted)
	s.Require().NoError(s.coordinator.SubmitVote(2, 3))
	s.Equal(models.PhaseVoting, s.coordinator.Phase())
	s.Require().NoError(s.coordinator.SubmitVote(3, 2))

	s.Equal(models.PhaseScoring, s.coordinator.Phase())
	s.Equal(models.VotingStateResults, s.registry.Session().VotingState.Get())
	s.Equal(0, s.player(1).Votes.Get())
	s.Equal(2, s.player(2).Votes.Get())
	s.Equal(1, s.player(3).Votes.Get())
	s.Equal(0, s.player(1).Score.Get())
	s.Equal(2, s.player(2).Score.Get())
	s.Equal(1, s.player(3).Score.Get())

	standings := s.coordinator.Standings()
	s.Require().Len(standings, 3)
	s.Equal(uint64(2), standings[0].PlayerID)
	s.Equal("player-2", standings[0].DisplayName)
	s.Equal(uint64(3), standings[1].PlayerID)
	s.Equal(uint64(1), standings[2].PlayerID)
	s.Equal(models.NextActionNextRound, s.coordinator.NextAction())
}

func (s *CoordinatorTestSuite) TestVotingTimeoutCountsMissingAsAbstain() {
	s.expectHistory()
	s.coordinator.Close()
	s.coordinator = s.newCoordinator(func(cfg *Config) {
		cfg.VotingTimeout = 20 * time.Second
	})
	s.toVoting()

	s.Require().NoError(s.coordinator.SubmitVote(1, 3))
	s.coordinator.Update(20 * time.Second)

	s.Equal(models.PhaseScoring, s.coordinator.Phase())
	s.Equal(1, s.player(3).Votes.Get())
	s.Equal(0, s.player(2).Votes.Get())
}

func (s *CoordinatorTestSuite) TestExplicitAbstention() {
	s.expectHistory()
	s.toVoting()

	s.Require().NoError(s.coordinator.SubmitVote(2, models.NoVote))
	s.ErrorIs(s.coordinator.SubmitVote(2, 3), ErrAlreadyVoted)
	s.ErrorIs(s.coordinator.SubmitVote(2, models.NoVote), ErrAlreadyVoted)

	s.Require().NoError(s.coordinator.SubmitVote(1, 3))
	s.Equal(models.PhaseVoting, s.coordinator.Phase())
	s.Require().NoError(s.coordinator.SubmitVote(3, 1))

	s.Equal(models.PhaseScoring, s.coordinator.Phase())
	s.Equal(1, s.player(1).Votes.Get())
	s.Equal(0, s.player(2).Votes.Get())
	s.Equal(1, s.player(3).Votes.Get())
}

func (s *CoordinatorTestSuite) TestLoneVoterAbstainsAfterPeersLeave() {
	s.expectHistory()
	s.Require().NoError(s.registry.Disconnect(3))
	s.toVoting()

	s.Require().NoError(s.registry.Disconnect(2))
	s.coordinator.PlayerDisconnected(2)

	s.Equal(models.PhaseScoring, s.coordinator.Phase())
	s.Equal(1, s.countPhase(models.PhaseScoring))
	s.Equal(0, s.player(1).Votes.Get())
	s.Equal(0, s.player(1).Score.Get())
}

func (s *CoordinatorTestSuite) TestLoneVoterAbstainsAfterEveryPeerLeaves() {
	s.expectHistory()
	s.toVoting()

	s.Require().NoError(s.registry.Disconnect(2))
	s.coordinator.PlayerDisconnected(2)
	s.Equal(models.PhaseVoting, s.coordinator.Phase())

	s.Require().NoError(s.registry.Disconnect(3))
	s.coordinator.PlayerDisconnected(3)

	s.Equal(models.PhaseScoring, s.coordinator.Phase())
	s.Require().Len(s.coordinator.Standings(), 1)
	s.Equal(uint64(1), s.coordinator.Standings()[0].PlayerID)
}

func (s *CoordinatorTestSuite) TestScoreThresholdEndsGame() {
	s.expectHistory()
	s.toVoting()
	s.Require().NoError(s.player(2).Score.Set(replication.Host, 9))

	s.Require().NoError(s.coordinator.SubmitVote(1, 2))
	s.Require().NoError(s.coordinator.SubmitVote(2, 3))
	s.Require().NoError(s.coordinator.SubmitVote(3, 1))

	s.Equal(10, s.player(2).Score.Get())
	s.Equal(models.NextActionEndGame, s.coordinator.NextAction())

	s.Require().NoError(s.coordinator.RequestStartNextRound(1))
	s.Equal(models.PhaseEnded, s.coordinator.Phase())
	s.True(s.registry.Session().GameOver.Get())
}

func (s *CoordinatorTestSuite) TestNextRoundKeepsScore() {
	s.expectHistory()
	s.toVoting()
	s.Require().NoError(s.coordinator.SubmitVote(1, 2))
	s.Require().NoError(s.coordinator.SubmitVote(2, 1))
	s.Require().NoError(s.coordinator.SubmitVote(3, 2))

	s.Require().NoError(s.coordinator.RequestStartNextRound(3))

	s.Equal(models.PhaseRoleQuestion, s.coordinator.Phase())
	s.Equal(2, s.coordinator.Round())
	s.Equal(2, s.registry.Session().Round.Get())
	s.Equal(models.VotingStateClosed, s.registry.Session().VotingState.Get())
	s.Empty(s.coordinator.Responses())
	s.Equal(2, s.player(2).Score.Get())
	s.Equal(1, s.player(1).Score.Get())
	s.Empty(s.player(2).BotPersona.Get())
	s.Equal(-1, s.player(2).ActivityIndex.Get())
	s.Equal(models.NoVote, s.player(1).VotedPlayer.Get())
}

func (s *CoordinatorTestSuite) TestScoringSavesRoundHistory() {
	saved := make(chan *models.RoundResult, 1)
	s.mockHistory.EXPECT().
		SaveRound(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *history.SaveRoundInput) error {
			saved <- input.Result
			return nil
		})

	s.toVoting()
	s.Require().NoError(s.coordinator.SubmitVote(1, 2))
	s.Require().NoError(s.coordinator.SubmitVote(2, 1))
	s.Require().NoError(s.coordinator.SubmitVote(3, 1))
	s.coordinator.Close()

	result := <-saved
	s.Equal(s.testRoundID, result.ID)
	s.Equal(s.testSessionID, result.SessionID)
	s.Equal(1, result.Round)
	s.Equal(s.testTime, result.CreatedAt)
	s.Equal(s.coordinator.ActivityIndex(), result.ActivityIndex)
	s.Equal(s.coordinator.Standings(), result.Standings)
}

func (s *CoordinatorTestSuite) TestRequestEndGame() {
	s.Require().NoError(s.coordinator.StartGame())

	s.ErrorIs(s.coordinator.RequestEndGame(42), ErrPlayerNotFound)
	s.Require().NoError(s.coordinator.RequestEndGame(2))
	s.Equal(models.PhaseEnded, s.coordinator.Phase())
	s.True(s.registry.Session().GameOver.Get())

	s.ErrorIs(s.coordinator.RequestEndGame(1), ErrGameOver)
	s.ErrorIs(s.coordinator.SubmitAnswer(1, "hello"), ErrWrongPhase)

	// the closed question round no longer listens
	for _, id := range s.registry.ConnectedPlayers() {
		s.Equal(0, s.player(id).RoleAnswer.Subscribers())
	}
}

func (s *CoordinatorTestSuite) TestDisconnectDuringIntroDropsPlayerFromTurns() {
	s.toBotCreation()
	for _, id := range s.registry.ConnectedPlayers() {
		s.Require().NoError(s.coordinator.SubmitBotPersona(id, "a persona"))
	}
	s.Require().Equal(models.PhaseActivityIntro, s.coordinator.Phase())

	s.Require().NoError(s.registry.Disconnect(3))
	s.coordinator.PlayerDisconnected(3)
	s.waitForPhase(models.PhaseTurnBasedConversation)

	current, ok := s.coordinator.CurrentTurn()
	s.Require().True(ok)
	s.NotEqual(uint64(3), current)
	s.NotContains(s.coordinator.TurnOrder(), uint64(3))
	s.Len(s.coordinator.TurnOrder(), 1)
}

func (s *CoordinatorTestSuite) TestStaleConversationsAreDiscarded() {
	s.toBotCreation()
	for _, id := range s.registry.ConnectedPlayers() {
		s.Require().NoError(s.coordinator.SubmitBotPersona(id, "a persona"))
	}
	s.Require().Equal(models.PhaseActivityIntro, s.coordinator.Phase())

	s.Require().NoError(s.coordinator.RequestEndGame(1))
	s.coordinator.Close()
	s.coordinator.Update(0)

	s.Equal(models.PhaseEnded, s.coordinator.Phase())
	_, ok := s.coordinator.CurrentTurn()
	s.False(ok)
}
