package coordinator

import (
	"context"
	"slices"
	"sort"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history"
)

// SubmitVote records a player's ballot. Each player votes once per round and
// never for themselves. A NoVote target abstains.
func (c *Coordinator) SubmitVote(playerID, target uint64) error {
	if c.phase != models.PhaseVoting {
		return c.reject(ErrWrongPhase, playerID, "submit vote")
	}
	player, err := c.player(playerID, "submit vote")
	if err != nil {
		return err
	}
	if _, voted := c.ballots[playerID]; voted || player.VotedPlayer.Get() != models.NoVote {
		return c.reject(ErrAlreadyVoted, playerID, "submit vote")
	}
	if target == models.NoVote {
		c.ballots[playerID] = models.NoVote
		c.log.Debug().Uint64("player_id", playerID).Msg("player abstained")
		c.checkVotes()
		return nil
	}
	if target == playerID {
		return c.reject(ErrSelfVote, playerID, "submit vote")
	}
	if !c.connected(target) {
		return c.reject(ErrUnknownTarget, playerID, "submit vote")
	}
	if err := player.VotedPlayer.Set(replication.Client(playerID), target); err != nil {
		return c.reject(err, playerID, "submit vote")
	}
	return nil
}

// RequestStartNextRound carries out the action scoring decided: a fresh
// round, or the end of the game once someone reached the threshold
func (c *Coordinator) RequestStartNextRound(playerID uint64) error {
	if c.phase != models.PhaseScoring {
		return c.reject(ErrWrongPhase, playerID, "start next round")
	}
	if _, err := c.player(playerID, "start next round"); err != nil {
		return err
	}

	if c.nextAction == models.NextActionEndGame {
		c.endGame()
		return nil
	}
	c.round++
	c.startRound()
	return nil
}

// RequestEndGame ends the session for everyone
func (c *Coordinator) RequestEndGame(playerID uint64) error {
	if c.phase == models.PhaseEnded {
		return c.reject(ErrGameOver, playerID, "end game")
	}
	if _, err := c.player(playerID, "end game"); err != nil {
		return err
	}
	c.endGame()
	return nil
}

func (c *Coordinator) startVoting() {
	c.voters = c.session.ConnectedPlayers()
	c.ballots = make(map[uint64]uint64, len(c.voters))

	c.session.Batch(func() {
		c.setPhase(models.PhaseVoting)
		for _, player := range c.connectedStates() {
			id := player.ID()
			set(c.log, player.VotedPlayer, models.NoVote)
			set(c.log, player.Votes, 0)
			set(c.log, player.IsMyTurn, false)
			watch(&c.voteWatch, player.VotedPlayer, func(_, cur uint64) {
				c.onVote(id, cur)
			})
		}
		set(c.log, c.session.Session().VotingState, models.VotingStateOpen)
		c.startTimer(c.votingTimeout)
	})
}

func (c *Coordinator) onVote(playerID, target uint64) {
	if c.phase != models.PhaseVoting {
		return
	}
	if target == models.NoVote {
		delete(c.ballots, playerID)
		return
	}
	c.ballots[playerID] = target
	c.checkVotes()
}

// checkVotes finishes voting once every voter still connected has voted.
// A voter left without anyone else to vote for abstains.
func (c *Coordinator) checkVotes() {
	if c.phase != models.PhaseVoting {
		return
	}
	connected := c.session.ConnectedPlayers()
	for _, id := range c.voters {
		if !slices.Contains(connected, id) {
			continue
		}
		if _, ok := c.ballots[id]; ok || len(connected) < 2 {
			continue
		}
		return
	}
	c.finishVoting()
}

// finishVoting tallies the ballots, adds each tally to the cumulative score
// and moves on to scoring. Missing ballots abstain.
func (c *Coordinator) finishVoting() {
	c.voteWatch.clear()
	c.countdown.Stop()

	players := c.connectedStates()
	candidates := make([]uint64, len(players))
	for i, player := range players {
		candidates[i] = player.ID()
	}
	tally := TallyVotes(c.ballots, candidates)

	c.session.Batch(func() {
		for _, player := range players {
			votes := tally[player.ID()]
			set(c.log, player.Votes, votes)
			set(c.log, player.Score, player.Score.Get()+votes)
		}
		set(c.log, c.session.Session().VotingState, models.VotingStateResults)
		c.startScoring(players)
	})
}

func (c *Coordinator) startScoring(players []*replication.PlayerState) {
	c.setPhase(models.PhaseScoring)

	standings := make([]models.Standing, len(players))
	c.nextAction = models.NextActionNextRound
	for i, player := range players {
		standings[i] = models.Standing{
			PlayerID:    player.ID(),
			DisplayName: player.DisplayName.Get(),
			Votes:       player.Votes.Get(),
			Score:       player.Score.Get(),
		}
		if standings[i].Score >= c.scoreThreshold {
			c.nextAction = models.NextActionEndGame
		}
	}
	c.standings = Rank(standings)
	c.log.Info().Int("round", c.round).Str("next_action", string(c.nextAction)).Msg("round scored")

	c.saveRound(&models.RoundResult{
		ID:            c.uuid.NewUUID(),
		SessionID:     c.sessionID,
		Round:         c.round,
		ActivityIndex: c.activityIndex,
		Standings:     slices.Clone(c.standings),
		NextAction:    c.nextAction,
		CreatedAt:     c.clock.Now(),
	})
}

// saveRound records the result in the background. History never blocks or
// fails the game.
func (c *Coordinator) saveRound(result *models.RoundResult) {
	if c.history == nil || c.sessionID == "" {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(c.ctx, historySaveTimeout)
		defer cancel()
		if err := c.history.SaveRound(ctx, &history.SaveRoundInput{Result: result}); err != nil {
			c.log.Error().Err(err).Int("round", result.Round).Msg("failed to save round")
		}
	}()
}

func (c *Coordinator) endGame() {
	c.collector.Close()
	c.personaWatch.clear()
	c.voteWatch.clear()
	c.countdown.Stop()
	c.epoch++
	c.hasTurn = false
	c.turnOrder = nil

	c.session.Batch(func() {
		c.setPhase(models.PhaseEnded)
		for _, player := range c.connectedStates() {
			set(c.log, player.IsMyTurn, false)
		}
		set(c.log, c.session.Session().PlayerTurnOrder, "")
		set(c.log, c.session.Session().GameOver, true)
	})
}

// TallyVotes counts the ballots naming each candidate. Abstentions and
// ballots for anyone outside candidates are ignored.
func TallyVotes(ballots map[uint64]uint64, candidates []uint64) map[uint64]int {
	tally := make(map[uint64]int, len(candidates))
	for _, id := range candidates {
		tally[id] = 0
	}
	for voter, target := range ballots {
		if target == models.NoVote || target == voter {
			continue
		}
		if _, ok := tally[target]; ok {
			tally[target]++
		}
	}
	return tally
}

// Rank orders standings by votes, most first, keeping the input order among
// equal tallies. Ties share the better placement.
func Rank(standings []models.Standing) []models.Standing {
	ranked := slices.Clone(standings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	for i := range ranked {
		if i > 0 && ranked[i].Votes == ranked[i-1].Votes {
			ranked[i].Placement = ranked[i-1].Placement
			continue
		}
		ranked[i].Placement = i + 1
	}
	return ranked
}
