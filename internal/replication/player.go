package replication

import (
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
)

// Byte budgets of the replicated string fields
const (
	NameBytes         = 64
	TextBytes         = 512
	ConversationBytes = 4096
)

// PlayerState is the replicated record of one connected player. The host owns
// creation, destruction and every question/options/activity/turn/tally/score
// field; the owning client writes its answers, persona and vote.
type PlayerState struct {
	id uint64

	DisplayName *Var[string]
	AvatarIndex *Var[int]
	LobbyState  *Var[models.LobbyState]

	Question  *Var[string]
	Answer    *Var[string]
	Fragments *Var[string]

	RoleQuestion      *Var[string]
	RoleAnswer        *Var[string]
	AdjectiveQuestion *Var[string]
	AdjectiveAnswer   *Var[string]
	FreeQuestion      *Var[string]
	FreeAnswer        *Var[string]

	RoleOptions      *Var[string]
	AdjectiveOptions *Var[string]
	FreeOptions      *Var[string]
	BotPersona       *Var[string]

	ActivityIndex            *Var[int]
	IsMyTurn                 *Var[bool]
	CurrentConversation      *Var[string]
	CurrentBotPrompt         *Var[string]
	CurrentConversationIndex *Var[int]

	VotedPlayer *Var[uint64]
	Votes       *Var[int]
	Score       *Var[int]

	disposers []func()
	snapshots []func(map[Field]any)
}

func newPlayerState(bus *Bus, id uint64) *PlayerState {
	sc := scope{bus: bus, playerID: id}
	p := &PlayerState{id: id}

	text := func(field Field, perm Permission) *Var[string] {
		v := newVar(sc, field, perm, "", withMaxBytes[string](TextBytes))
		track(p, v)
		return v
	}
	nonNegative := func(_, next int) error {
		if next < 0 {
			return ErrInvalidValue
		}
		return nil
	}

	p.DisplayName = newVar(sc, FieldDisplayName, PermissionOwner, "", withMaxBytes[string](NameBytes))
	track(p, p.DisplayName)
	p.AvatarIndex = newVar(sc, FieldAvatarIndex, PermissionOwner, 0)
	track(p, p.AvatarIndex)
	p.LobbyState = newVar(sc, FieldLobbyState, PermissionOwner, models.LobbyStateJoined)
	track(p, p.LobbyState)

	p.Question = text(FieldQuestion, PermissionHost)
	p.Answer = text(FieldAnswer, PermissionOwner)
	p.Fragments = text(FieldFragments, PermissionHost)

	p.RoleQuestion = text(FieldRoleQuestion, PermissionHost)
	p.RoleAnswer = text(FieldRoleAnswer, PermissionOwner)
	p.AdjectiveQuestion = text(FieldAdjectiveQuestion, PermissionHost)
	p.AdjectiveAnswer = text(FieldAdjectiveAnswer, PermissionOwner)
	p.FreeQuestion = text(FieldFreeQuestion, PermissionHost)
	p.FreeAnswer = text(FieldFreeAnswer, PermissionOwner)

	p.RoleOptions = text(FieldRoleOptions, PermissionHost)
	p.AdjectiveOptions = text(FieldAdjectiveOptions, PermissionHost)
	p.FreeOptions = text(FieldFreeOptions, PermissionHost)
	p.BotPersona = text(FieldBotPersona, PermissionOwner)

	p.ActivityIndex = newVar(sc, FieldActivityIndex, PermissionHost, -1)
	track(p, p.ActivityIndex)
	p.IsMyTurn = newVar(sc, FieldIsMyTurn, PermissionHost, false)
	track(p, p.IsMyTurn)
	p.CurrentConversation = newVar(sc, FieldCurrentConversation, PermissionHost, "", withMaxBytes[string](ConversationBytes))
	track(p, p.CurrentConversation)
	p.CurrentBotPrompt = text(FieldCurrentBotPrompt, PermissionHost)
	p.CurrentConversationIndex = newVar(sc, FieldCurrentConversationIndex, PermissionHost, 0, withValidator(nonNegative))
	track(p, p.CurrentConversationIndex)

	p.VotedPlayer = newVar(sc, FieldVotedPlayer, PermissionOwner, models.NoVote)
	track(p, p.VotedPlayer)
	p.Votes = newVar(sc, FieldVotes, PermissionHost, 0, withValidator(nonNegative))
	track(p, p.Votes)
	p.Score = newVar(sc, FieldScore, PermissionHost, 0, withValidator(func(prev, next int) error {
		if next < prev {
			return ErrInvalidValue
		}
		return nil
	}))
	track(p, p.Score)

	return p
}

func track[T comparable](p *PlayerState, v *Var[T]) {
	p.disposers = append(p.disposers, v.dispose)
	p.snapshots = append(p.snapshots, func(out map[Field]any) {
		out[v.field] = v.value
	})
}

// ID returns the connection id
func (p *PlayerState) ID() uint64 {
	return p.id
}

// QuestionFields returns the question and answer fields for a question kind
func (p *PlayerState) QuestionFields(kind models.QuestionKind) (question, answer *Var[string]) {
	switch kind {
	case models.QuestionKindRole:
		return p.RoleQuestion, p.RoleAnswer
	case models.QuestionKindAdjective:
		return p.AdjectiveQuestion, p.AdjectiveAnswer
	case models.QuestionKindFree:
		return p.FreeQuestion, p.FreeAnswer
	}
	return p.Question, p.Answer
}

// OptionsField returns the host-written options field for a question kind
func (p *PlayerState) OptionsField(kind models.QuestionKind) *Var[string] {
	switch kind {
	case models.QuestionKindRole:
		return p.RoleOptions
	case models.QuestionKindAdjective:
		return p.AdjectiveOptions
	}
	return p.FreeOptions
}

// ResetRound clears every per-round field as the host. Score, name, avatar
// and lobby state survive.
func (p *PlayerState) ResetRound() {
	for _, v := range []*Var[string]{
		p.Question, p.Answer, p.Fragments,
		p.RoleQuestion, p.RoleAnswer,
		p.AdjectiveQuestion, p.AdjectiveAnswer,
		p.FreeQuestion, p.FreeAnswer,
		p.RoleOptions, p.AdjectiveOptions, p.FreeOptions,
		p.BotPersona, p.CurrentConversation, p.CurrentBotPrompt,
	} {
		_ = v.Reset()
	}
	_ = p.ActivityIndex.Reset()
	_ = p.IsMyTurn.Reset()
	_ = p.CurrentConversationIndex.Reset()
	_ = p.VotedPlayer.Reset()
	_ = p.Votes.Reset()
}

// Snapshot returns every field's current value keyed by field name
func (p *PlayerState) Snapshot() map[Field]any {
	out := make(map[Field]any, len(p.snapshots))
	for _, fn := range p.snapshots {
		fn(out)
	}
	return out
}

func (p *PlayerState) dispose() {
	for _, fn := range p.disposers {
		fn()
	}
}
