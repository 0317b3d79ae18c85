package models

import "math"

// LobbyState is the owner-written readiness of a player in the lobby
type LobbyState int

const (
	LobbyStateOpen LobbyState = iota
	LobbyStateJoined
	LobbyStateReady
)

// VotingState is broadcast to all clients while voting runs
type VotingState int

const (
	// VotingStateClosed means no vote is in progress
	VotingStateClosed VotingState = 0

	// VotingStateOpen tells clients to show the ballot
	VotingStateOpen VotingState = 1

	// VotingStateResults tells clients the tallies are final
	VotingStateResults VotingState = 2
)

// NoVote is the votedPlayer sentinel. It is distinguishable from every
// connection id.
const NoVote uint64 = math.MaxUint64

// MaxPlayers is the number of player slots in a session
const MaxPlayers = 8

// MinPlayers is the number of players needed to start
const MinPlayers = 2
