package restrictions

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisRepository stores msgpack encoded records in redis, with a per guild
// set of configured commands so a guild can be listed.
type RedisRepository struct {
	client redis.Cmdable
	prefix string
}

func NewRedisRepository(client redis.Cmdable, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "restrictions:"
	}

	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) recordKey(key Key) string {
	return r.prefix + key.ID()
}

func (r *RedisRepository) indexKey(guildID string) string {
	return r.prefix + "guild:" + guildID
}

func (r *RedisRepository) FindOne(ctx context.Context, key Key) (*Record, error) {
	b, err := r.client.Get(ctx, r.recordKey(key)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	var rec Record
	if err := msgpack.Unmarshal(b, &rec); err != nil {
		return nil, err
	}

	rec.normalize()
	return &rec, nil
}

func (r *RedisRepository) Upsert(ctx context.Context, key Key, create, update *Record) (*Record, error) {
	now := time.Now()

	var rec *Record

	existing, err := r.FindOne(ctx, key)

	switch {
	case err == nil:
		rec = existing
		rec.AllowedMembers = update.AllowedMembers
		rec.DeniedMembers = update.DeniedMembers
		rec.AllowedRoles = update.AllowedRoles
		rec.DeniedRoles = update.DeniedRoles
		rec.AllowedChannels = update.AllowedChannels
		rec.DeniedChannels = update.DeniedChannels
	case errors.Is(err, ErrNotFound):
		rec = create.Clone()
		rec.ID = key.ID()
		rec.GuildID = key.GuildID
		rec.Command = key.Command
		rec.CreatedAt = now
	default:
		return nil, err
	}

	rec.UpdatedAt = now
	rec.normalize()

	b, err := msgpack.Marshal(rec)

	if err != nil {
		return nil, err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(key), b, 0)
		pipe.SAdd(ctx, r.indexKey(key.GuildID), key.Command)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *RedisRepository) Delete(ctx context.Context, key Key) error {
	n, err := r.client.Del(ctx, r.recordKey(key)).Result()

	if err != nil {
		return err
	}

	if err := r.client.SRem(ctx, r.indexKey(key.GuildID), key.Command).Err(); err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *RedisRepository) List(ctx context.Context, guildID string) ([]*Record, error) {
	commands, err := r.client.SMembers(ctx, r.indexKey(guildID)).Result()

	if err != nil {
		return nil, err
	}

	sort.Strings(commands)

	records := make([]*Record, 0, len(commands))
	for _, command := range commands {
		rec, err := r.FindOne(ctx, Key{GuildID: guildID, Command: command})

		if errors.Is(err, ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}
