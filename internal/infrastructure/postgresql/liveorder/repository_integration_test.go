package liveorder

import (
	"context"
	"testing"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/internal/infrastructure/postgresql/migrations"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql/pgtest"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	helper *pgtest.Helper
	repo   orderv1.LiveOrderRepository
	ctx    context.Context
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.helper = pgtest.New(s.T(), migrations.FS, "live_orders")
	s.repo = NewRepository(s.helper.Client, logger.NewNopLogger())
}

func (s *RepositoryTestSuite) SetupTest() {
	s.helper.CleanupTables()
}

func (s *RepositoryTestSuite) TestInsertIsIdempotent() {
	o := testOrder()
	s.Require().NoError(s.repo.Insert(s.ctx, o))
	s.Require().NoError(s.repo.Insert(s.ctx, o))

	got, err := s.repo.ListByPair(s.ctx, o.Pair)
	s.Require().NoError(err)
	s.Equal([]orderv1.LiveOrder{o}, got)
}

func (s *RepositoryTestSuite) TestUpdateIgnoresOlderSequence() {
	o := testOrder()
	s.Require().NoError(s.repo.Insert(s.ctx, o))

	newer := o
	newer.Balance, newer.Fill, newer.CurrentSequence = 40, 50, 9
	s.Require().NoError(s.repo.Update(s.ctx, newer))

	older := o
	older.Balance, older.CurrentSequence = 1, 8
	s.Require().NoError(s.repo.Update(s.ctx, older))

	got, err := s.repo.Get(s.ctx, o.Pair, o.OrderHash)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(40.0, got.Balance)
	s.Equal(int64(9), got.CurrentSequence)
}

func (s *RepositoryTestSuite) TestDelete() {
	o := testOrder()
	s.Require().NoError(s.repo.Insert(s.ctx, o))
	s.Require().NoError(s.repo.Delete(s.ctx, o.Pair, o.OrderHash))
	s.Require().NoError(s.repo.Delete(s.ctx, o.Pair, o.OrderHash))

	got, err := s.repo.Get(s.ctx, o.Pair, o.OrderHash)
	s.NoError(err)
	s.Nil(got)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
