package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dilan/peyvin/internal/repository"
	"github.com/dilan/peyvin/internal/repository/sqlite"
	"github.com/dilan/peyvin/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) TestGetMissing() {
	p, err := s.repo.Get(context.Background(), "user-1", 0)
	s.Require().NoError(err)
	s.Nil(p, "no record means nil, not an error")
}

func (s *ProgressRepositorySuite) TestUpsertAndGet() {
	ctx := context.Background()

	err := s.repo.UpsertCompletion(ctx, "user-1", 0, 2, 8)
	s.Require().NoError(err)

	p, err := s.repo.Get(ctx, "user-1", 0)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.True(p.Completed)
	s.Equal(2, p.Stars)
	s.Equal(8, p.BestScore)
}

func (s *ProgressRepositorySuite) TestWatermarksNeverDecrease() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 0, 3, 10))
	// A worse later attempt must not lower stars or best score.
	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 0, 1, 6))

	p, err := s.repo.Get(ctx, "user-1", 0)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal(3, p.Stars)
	s.Equal(10, p.BestScore)
}

func (s *ProgressRepositorySuite) TestWatermarksRise() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 0, 1, 6))
	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 0, 3, 8))

	p, err := s.repo.Get(ctx, "user-1", 0)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal(3, p.Stars)
	s.Equal(8, p.BestScore)
}

func (s *ProgressRepositorySuite) TestWatermarksMixedDirections() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 0, 1, 10))
	// Higher stars, lower score: each watermark moves independently.
	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 0, 2, 7))

	p, err := s.repo.Get(ctx, "user-1", 0)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal(2, p.Stars)
	s.Equal(10, p.BestScore)
}

func (s *ProgressRepositorySuite) TestListForUser() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 0, 3, 8))
	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 1, 2, 9))
	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-2", 0, 1, 5))

	records, err := s.repo.ListForUser(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(int64(0), records[0].LevelID)
	s.Equal(int64(1), records[1].LevelID)
}

func (s *ProgressRepositorySuite) TestDeleteForUser() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-1", 0, 3, 8))
	s.Require().NoError(s.repo.UpsertCompletion(ctx, "user-2", 0, 1, 5))

	s.Require().NoError(s.repo.DeleteForUser(ctx, "user-1"))

	records, err := s.repo.ListForUser(ctx, "user-1")
	s.Require().NoError(err)
	s.Empty(records)

	// Other users are untouched.
	p, err := s.repo.Get(ctx, "user-2", 0)
	s.Require().NoError(err)
	s.NotNil(p)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
