package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/go-redis/redis/v8"

	"nearby-search-system/config"
	"nearby-search-system/models"
	"nearby-search-system/search"
)

// RedisStore keeps document bodies as JSON strings and maintains one sorted
// set per indexed field. Members are "<value>|<id>" at score 0, so
// ZRANGEBYLEX is exactly the ordered prefix range query the orchestrator
// needs.
type RedisStore struct {
	rdb        *redis.Client
	keyspace   string
	indexField string
}

// NewRedisStore connects to Redis and verifies the connection. indexField
// is the dotted path of the string value to index, e.g. "location.geohash".
func NewRedisStore(cfg config.RedisConfig, keyspace, indexField string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis successfully.")

	return &RedisStore{rdb: rdb, keyspace: keyspace, indexField: indexField}, nil
}

func (s *RedisStore) docKey(id string) string {
	return fmt.Sprintf("%s:doc:%s", s.keyspace, id)
}

func (s *RedisStore) indexKey() string {
	return fmt.Sprintf("%s:index:%s", s.keyspace, s.indexField)
}

func member(value, id string) string {
	return value + "|" + id
}

func splitMember(m string) (value, id string, ok bool) {
	i := strings.LastIndex(m, "|")
	if i < 0 {
		return "", "", false
	}
	return m[:i], m[i+1:], true
}

func (s *RedisStore) Put(ctx context.Context, id string, fields map[string]interface{}) error {
	doc, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", id, err)
	}

	// Drop the old index entry before writing the new one so a location
	// update moves the document between cells.
	pipe := s.rdb.TxPipeline()
	if old, err := s.Get(ctx, id); err == nil {
		if v, ok := models.FieldAt(old, s.indexField); ok {
			if str, ok := v.(string); ok {
				pipe.ZRem(ctx, s.indexKey(), member(str, id))
			}
		}
	}

	pipe.Set(ctx, s.docKey(id), doc, 0)
	if v, ok := models.FieldAt(fields, s.indexField); ok {
		if str, ok := v.(string); ok {
			pipe.ZAdd(ctx, s.indexKey(), &redis.Z{Score: 0, Member: member(str, id)})
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	raw, err := s.rdb.Get(ctx, s.docKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return fields, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	fields, err := s.Get(ctx, id)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	if v, ok := models.FieldAt(fields, s.indexField); ok {
		if str, ok := v.(string); ok {
			pipe.ZRem(ctx, s.indexKey(), member(str, id))
		}
	}
	pipe.Del(ctx, s.docKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

// QueryRange returns documents whose indexed value lies in [start, end],
// ordered ascending. Only the configured index field is queryable.
func (s *RedisStore) QueryRange(ctx context.Context, field, start, end string) ([]search.Document, error) {
	if field != s.indexField {
		return nil, fmt.Errorf("redis store does not index field %q", field)
	}

	members, err := s.rdb.ZRangeByLex(ctx, s.indexKey(), &redis.ZRangeBy{
		Min: "[" + start,
		Max: "[" + end,
	}).Result()
	if err != nil {
		return nil, err
	}

	var docs []search.Document
	for _, m := range members {
		_, id, ok := splitMember(m)
		if !ok {
			continue
		}
		fields, err := s.Get(ctx, id)
		if err == ErrNotFound {
			// Index entry outlived its document; skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, search.Document{ID: id, Fields: fields})
	}
	return docs, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
