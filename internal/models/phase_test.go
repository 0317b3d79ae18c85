package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseTransitions(t *testing.T) {
	order := []Phase{
		PhaseLobby,
		PhaseRoleQuestion,
		PhaseAdjectiveQuestion,
		PhaseFreeQuestion,
		PhaseBotCreation,
		PhaseActivityIntro,
		PhaseTurnBasedConversation,
		PhaseVoting,
		PhaseScoring,
		PhaseRoleQuestion,
	}
	for i := 0; i < len(order)-1; i++ {
		assert.True(t, order[i].CanTransitionTo(order[i+1]), "%s -> %s", order[i], order[i+1])
	}

	assert.False(t, PhaseVoting.CanTransitionTo(PhaseRoleQuestion))
	assert.False(t, PhaseRoleQuestion.CanTransitionTo(PhaseFreeQuestion))
	assert.True(t, PhaseVoting.CanTransitionTo(PhaseEnded))
	assert.False(t, PhaseEnded.CanTransitionTo(PhaseEnded))
	assert.False(t, PhaseEnded.CanTransitionTo(PhaseRoleQuestion))
}

func TestQuestionKindForPhase(t *testing.T) {
	kind, ok := QuestionKindForPhase(PhaseAdjectiveQuestion)
	assert.True(t, ok)
	assert.Equal(t, QuestionKindAdjective, kind)

	_, ok = QuestionKindForPhase(PhaseVoting)
	assert.False(t, ok)
}
