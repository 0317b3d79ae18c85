package replication

import (
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
)

// SessionState holds the session-level replicated fields. All are host
// written and readable by everyone.
type SessionState struct {
	Phase              *Var[models.Phase]
	Round              *Var[int]
	TimerStart         *Var[int64]
	VotingState        *Var[models.VotingState]
	PlayerTurnOrder    *Var[string]
	ConnectedPlayerIDs *List[uint64]
	GameOver           *Var[bool]
}

func newSessionState(bus *Bus) *SessionState {
	sc := scope{bus: bus, session: true}
	return &SessionState{
		Phase:              newVar(sc, FieldPhase, PermissionHost, models.PhaseLobby),
		Round:              newVar(sc, FieldRound, PermissionHost, 0),
		TimerStart:         newVar(sc, FieldTimerStart, PermissionHost, int64(0)),
		VotingState:        newVar(sc, FieldVotingState, PermissionHost, models.VotingStateClosed),
		PlayerTurnOrder:    newVar(sc, FieldPlayerTurnOrder, PermissionHost, "", withMaxBytes[string](TextBytes)),
		ConnectedPlayerIDs: newList[uint64](sc, FieldConnectedPlayerIDs, PermissionHost),
		GameOver:           newVar(sc, FieldGameOver, PermissionHost, false),
	}
}

// Snapshot returns every session field keyed by field name
func (s *SessionState) Snapshot() map[Field]any {
	return map[Field]any{
		FieldPhase:              s.Phase.Get(),
		FieldRound:              s.Round.Get(),
		FieldTimerStart:         s.TimerStart.Get(),
		FieldVotingState:        s.VotingState.Get(),
		FieldPlayerTurnOrder:    s.PlayerTurnOrder.Get(),
		FieldConnectedPlayerIDs: s.ConnectedPlayerIDs.Get(),
		FieldGameOver:           s.GameOver.Get(),
	}
}
