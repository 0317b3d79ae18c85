package history

import (
	"context"
	"testing"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) round(id string, n int) *models.RoundResult {
	return &models.RoundResult{
		ID:            id,
		SessionID:     "test-session-id",
		Round:         n,
		ActivityIndex: 1,
		Standings: []models.Standing{
			{PlayerID: 2, DisplayName: "Ada", Votes: 2, Score: 4, Placement: 1},
			{PlayerID: 1, DisplayName: "Bo", Votes: 0, Score: 1, Placement: 2},
		},
		NextAction: models.NextActionNextRound,
		CreatedAt:  s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidatesConfig() {
	_, err := NewRedis(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewRedis(&Config{})
	s.ErrorIs(err, ErrNilRedisClient)
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetRound() {
	result := s.round("round-1", 1)
	s.Require().NoError(s.repo.SaveRound(context.Background(), &SaveRoundInput{Result: result}))

	got, err := s.repo.GetRound(context.Background(), &GetRoundInput{RoundID: "round-1"})
	s.Require().NoError(err)
	s.Equal(result, got)
}

func (s *RedisRepositoryTestSuite) TestGetRoundNotFound() {
	_, err := s.repo.GetRound(context.Background(), &GetRoundInput{RoundID: "missing"})
	s.ErrorIs(err, ErrRoundNotFound)
}

func (s *RedisRepositoryTestSuite) TestListRoundsOrdersByRound() {
	ctx := context.Background()
	s.Require().NoError(s.repo.SaveRound(ctx, &SaveRoundInput{Result: s.round("round-b", 2)}))
	s.Require().NoError(s.repo.SaveRound(ctx, &SaveRoundInput{Result: s.round("round-a", 1)}))

	other := s.round("round-x", 1)
	other.SessionID = "other-session"
	s.Require().NoError(s.repo.SaveRound(ctx, &SaveRoundInput{Result: other}))

	out, err := s.repo.ListRounds(ctx, &ListRoundsInput{SessionID: "test-session-id"})
	s.Require().NoError(err)
	s.Require().Len(out.Rounds, 2)
	s.Equal("round-a", out.Rounds[0].ID)
	s.Equal("round-b", out.Rounds[1].ID)
}

func (s *RedisRepositoryTestSuite) TestExpiredRoundsAreSkipped() {
	repo, err := NewRedis(&Config{RedisClient: s.client, Expiration: time.Minute})
	s.Require().NoError(err)

	ctx := context.Background()
	s.Require().NoError(repo.SaveRound(ctx, &SaveRoundInput{Result: s.round("round-1", 1)}))
	s.True(s.mr.Exists("round:round-1"))
	s.Positive(s.mr.TTL("round:round-1"))

	s.mr.Del("round:round-1")
	out, err := repo.ListRounds(ctx, &ListRoundsInput{SessionID: "test-session-id"})
	s.Require().NoError(err)
	s.Empty(out.Rounds)
}

func (s *RedisRepositoryTestSuite) TestInvalidInput() {
	ctx := context.Background()
	s.ErrorIs(s.repo.SaveRound(ctx, nil), ErrInvalidInput)
	s.ErrorIs(s.repo.SaveRound(ctx, &SaveRoundInput{Result: &models.RoundResult{ID: "x"}}), ErrInvalidInput)

	_, err := s.repo.ListRounds(ctx, &ListRoundsInput{})
	s.ErrorIs(err, ErrInvalidInput)
}
