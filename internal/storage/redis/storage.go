package redis

import (
	"context"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/storage"
)

// addScript inserts a table only when the player has been seeded.
// KEYS[1] membership set, KEYS[2] seeded marker, ARGV[1] table, ARGV[2] ttl ms.
var addScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 0 then
	return 0
end
local added = redis.call('SADD', KEYS[1], ARGV[1])
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[1], ttl)
	redis.call('PEXPIRE', KEYS[2], ttl)
end
return added
`)

// Storage is a Redis-backed implementation of the membership store
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Membership = (*Storage)(nil)

func (s *Storage) Seed(ctx context.Context, id model.PlayerID, tables []model.TableID) error {
	setKey := membershipKey(id)

	// MULTI/EXEC so readers never observe a half-written set
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, setKey)
	if len(tables) > 0 {
		members := make([]interface{}, len(tables))
		for i, t := range tables {
			members[i] = string(t)
		}
		pipe.SAdd(ctx, setKey, members...)
		if s.cfg.MembershipTTL > 0 {
			pipe.Expire(ctx, setKey, s.cfg.MembershipTTL)
		}
	}
	pipe.Set(ctx, seededKey(id), "1", s.cfg.MembershipTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) Add(ctx context.Context, id model.PlayerID, table model.TableID) (bool, error) {
	keys := []string{membershipKey(id), seededKey(id)}
	added, err := addScript.Run(ctx, s.client, keys, string(table), s.cfg.MembershipTTL.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (s *Storage) Remove(ctx context.Context, id model.PlayerID, table model.TableID) (bool, error) {
	removed, err := s.client.SRem(ctx, membershipKey(id), string(table)).Result()
	if err != nil {
		return false, err
	}
	return removed == 1, nil
}

func (s *Storage) Snapshot(ctx context.Context, id model.PlayerID) ([]model.TableID, error) {
	members, err := s.client.SMembers(ctx, membershipKey(id)).Result()
	if err != nil {
		return nil, err
	}

	tables := make([]model.TableID, len(members))
	for i, m := range members {
		tables[i] = model.TableID(m)
	}
	slices.Sort(tables)
	return tables, nil
}

func (s *Storage) Delete(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, membershipKey(id), seededKey(id)).Err()
}
