//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"landregistry/internal/property/models"
	"landregistry/internal/property/store"
	"landregistry/pkg/domain"
	"landregistry/pkg/platform/sentinel"
	"landregistry/pkg/testutil/containers"
)

const collection = "properties"

type index interface {
	Insert(ctx context.Context, rec *models.Record) (string, error)
	ListByCreatedDesc(ctx context.Context) ([]*models.Record, error)
	ListByCreator(ctx context.Context, creator domain.Address) ([]*models.Record, error)
	FindByIdentifier(ctx context.Context, id domain.PropertyID) ([]*models.Record, error)
	Update(ctx context.Context, recordID string, patch models.Patch) error
}

// indexSuite runs the same behavioral checks against every durable backend.
type indexSuite struct {
	suite.Suite
	store index
	reset func(ctx context.Context) error
}

func (s *indexSuite) SetupTest() {
	s.Require().NoError(s.reset(context.Background()))
}

var (
	creatorA = domain.Address("0x1111111111111111111111111111111111111111")
	creatorB = domain.Address("0x2222222222222222222222222222222222222222")
)

func (s *indexSuite) insert(identifier string, creator domain.Address, at time.Time) string {
	id, err := s.store.Insert(context.Background(), &models.Record{
		Identifier: domain.PropertyID(identifier),
		Creator:    creator,
		Owner:      creator,
		TxHash:     "0x" + identifier,
		CreatedAt:  at,
	})
	s.Require().NoError(err)
	return id
}

func (s *indexSuite) TestOrderingAndFilters() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)
	s.insert("P-1", creatorA, base)
	s.insert("P-2", creatorB, base.Add(time.Minute))
	s.insert("P-3", creatorA, base.Add(2*time.Minute))

	all, err := s.store.ListByCreatedDesc(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(domain.PropertyID("P-3"), all[0].Identifier)
	s.Equal(domain.PropertyID("P-1"), all[2].Identifier)
	s.True(all[2].CreatedAt.Equal(base))

	mine, err := s.store.ListByCreator(ctx, creatorA)
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	for _, rec := range mine {
		s.Equal(creatorA, rec.Creator)
	}

	found, err := s.store.FindByIdentifier(ctx, "P-2")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("0xP-2", found[0].TxHash)
}

func (s *indexSuite) TestUpdate() {
	ctx := context.Background()
	id := s.insert("LOT", creatorA, time.Now().UTC())

	owner := creatorB
	tx := "0xfeed"
	s.Require().NoError(s.store.Update(ctx, id, models.Patch{Owner: &owner, TxHash: &tx}))

	found, err := s.store.FindByIdentifier(ctx, "LOT")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(creatorB, found[0].Owner)
	s.Equal(creatorA, found[0].Creator)
	s.Equal("0xfeed", found[0].TxHash)

	err = s.store.Update(ctx, uuid.NewString(), models.Patch{Owner: &owner})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

type PostgresStoreSuite struct{ indexSuite }

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	pg := containers.GetManager().GetPostgres(s.T())
	pgStore := store.NewPostgres(pg.DB, collection)
	s.Require().NoError(pgStore.EnsureSchema(context.Background()))
	s.store = pgStore
	s.reset = func(ctx context.Context) error { return pg.TruncateTables(ctx, collection) }
}

type RedisStoreSuite struct{ indexSuite }

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	rc := containers.GetManager().GetRedis(s.T())
	s.Require().NoError(rc.Health(context.Background()))
	s.store = store.NewRedis(rc.Client, collection)
	s.reset = rc.FlushAll
}
