package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/domain/repository"
	"github.com/oksasatya/agenda-api/pkg/helpers"
)

func contactKey(id int64) string {
	return "contact:" + strconv.FormatInt(id, 10)
}

// ContactRepository is a read-through Redis cache in front of another repository.
// Redis failures never fail a call; they are logged and the wrapped store answers.
type ContactRepository struct {
	Next   repository.ContactRepository
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewContactRepository(next repository.ContactRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *ContactRepository {
	return &ContactRepository{Next: next, Redis: rdb, TTL: ttl, Logger: logger}
}

func (r *ContactRepository) warn(err error, key, msg string) {
	if r.Logger != nil {
		r.Logger.WithError(err).WithField("key", key).Warn(msg)
	}
}

func (r *ContactRepository) FindAll(ctx context.Context) ([]*entity.Contact, error) {
	return r.Next.FindAll(ctx)
}

func (r *ContactRepository) FindByID(ctx context.Context, id int64) (*entity.Contact, error) {
	key := contactKey(id)
	var cached entity.Contact
	found, err := helpers.RedisGetJSON(ctx, r.Redis, key, &cached)
	if err != nil {
		r.warn(err, key, "redis get failed")
	}
	if found {
		return &cached, nil
	}

	c, err := r.Next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisSetJSON(ctx, r.Redis, key, c, r.TTL); err != nil {
		r.warn(err, key, "redis set failed")
	}
	return c, nil
}

func (r *ContactRepository) Save(ctx context.Context, c *entity.Contact) (*entity.Contact, error) {
	saved, err := r.Next.Save(ctx, c)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, saved.ID)
	return saved, nil
}

func (r *ContactRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.Next.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *ContactRepository) evict(ctx context.Context, id int64) {
	key := contactKey(id)
	if err := helpers.RedisDel(ctx, r.Redis, key); err != nil {
		r.warn(err, key, "redis del failed")
	}
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
