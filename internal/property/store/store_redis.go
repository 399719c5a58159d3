package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
)

// RedisStore keeps each record in a hash and maintains three secondary keys:
// a sorted set by creation time, and insertion-ordered lists per creator and
// per identifier.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

// NewRedis constructs a Redis-backed index whose keys start with collection.
func NewRedis(rdb redis.Cmdable, collection string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: collection}
}

func (s *RedisStore) docKey(id string) string       { return s.prefix + ":doc:" + id }
func (s *RedisStore) createdKey() string            { return s.prefix + ":by_created" }
func (s *RedisStore) creatorKey(c string) string    { return s.prefix + ":creator:" + c }
func (s *RedisStore) identifierKey(i string) string { return s.prefix + ":identifier:" + i }

func (s *RedisStore) Insert(ctx context.Context, rec *models.Record) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("property record is required")
	}
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.docKey(id), map[string]any{
			"identifier": rec.Identifier.String(),
			"creator":    rec.Creator.String(),
			"owner":      rec.Owner.String(),
			"tx_hash":    rec.TxHash,
			"created_at": rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.ZAdd(ctx, s.createdKey(), redis.Z{Score: float64(rec.CreatedAt.UnixMilli()), Member: id})
		pipe.RPush(ctx, s.creatorKey(rec.Creator.String()), id)
		pipe.RPush(ctx, s.identifierKey(rec.Identifier.String()), id)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("insert property record: %w", err)
	}
	return id, nil
}

func (s *RedisStore) ListByCreatedDesc(ctx context.Context) ([]*models.Record, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.createdKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list property records: %w", err)
	}
	return s.load(ctx, ids)
}

func (s *RedisStore) ListByCreator(ctx context.Context, creator domain.Address) ([]*models.Record, error) {
	ids, err := s.rdb.LRange(ctx, s.creatorKey(creator.String()), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list records by creator: %w", err)
	}
	return s.load(ctx, ids)
}

func (s *RedisStore) FindByIdentifier(ctx context.Context, id domain.PropertyID) ([]*models.Record, error) {
	ids, err := s.rdb.LRange(ctx, s.identifierKey(id.String()), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("find records by identifier: %w", err)
	}
	return s.load(ctx, ids)
}

func (s *RedisStore) Update(ctx context.Context, recordID string, patch models.Patch) error {
	n, err := s.rdb.Exists(ctx, s.docKey(recordID)).Result()
	if err != nil {
		return fmt.Errorf("update property record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	fields := map[string]any{}
	if patch.Owner != nil {
		fields["owner"] = patch.Owner.String()
	}
	if patch.TxHash != nil {
		fields["tx_hash"] = *patch.TxHash
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.rdb.HSet(ctx, s.docKey(recordID), fields).Err(); err != nil {
		return fmt.Errorf("update property record: %w", err)
	}
	return nil
}

// load fetches the hashes for ids in one pipeline, keeping order and
// skipping ids whose hash has disappeared.
func (s *RedisStore) load(ctx context.Context, ids []string) ([]*models.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.docKey(id))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load property records: %w", err)
	}

	out := make([]*models.Record, 0, len(ids))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil {
			return nil, fmt.Errorf("load property record %s: %w", ids[i], err)
		}
		if len(fields) == 0 {
			continue
		}
		rec, err := decodeRecord(ids[i], fields)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRecord(id string, fields map[string]string) (*models.Record, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("decode property record %s: %w", id, err)
	}
	return &models.Record{
		ID:         id,
		Identifier: domain.PropertyID(fields["identifier"]),
		Creator:    domain.Address(fields["creator"]),
		Owner:      domain.Address(fields["owner"]),
		TxHash:     fields["tx_hash"],
		CreatedAt:  createdAt,
	}, nil
}
