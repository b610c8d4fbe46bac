package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dilan/peyvin/internal/models"
	"github.com/dilan/peyvin/internal/repository"
	"github.com/dilan/peyvin/internal/repository/sqlite"
	"github.com/dilan/peyvin/internal/testutil"
)

type LevelRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.LevelRepository
}

func (s *LevelRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewLevelRepository(s.db)
}

func (s *LevelRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *LevelRepositorySuite) TestGet() {
	level, err := s.repo.Get(context.Background(), 0)
	s.Require().NoError(err)
	s.Require().NotNil(level)
	s.Equal("greetings", level.Category)
	s.Equal(8, level.WordCount)
}

func (s *LevelRepositorySuite) TestGetMissing() {
	level, err := s.repo.Get(context.Background(), 999)
	s.Require().NoError(err)
	s.Nil(level)
}

func (s *LevelRepositorySuite) TestListOrderedAndGapFree() {
	levels, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(levels, 10)

	for i, level := range levels {
		s.Equal(int64(i), level.ID, "ids must be 0-based and gap-free in unlock order")
		s.NotEmpty(level.Name)
		s.Positive(level.WordCount)
	}

	// The final review level draws from the whole bank.
	s.Equal(models.CategoryAll, levels[9].Category)
}

func TestLevelRepositorySuite(t *testing.T) {
	suite.Run(t, new(LevelRepositorySuite))
}
