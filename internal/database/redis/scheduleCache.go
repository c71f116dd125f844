package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	repository "github.com/ds124wfegd/tennis-courts/internal/database/postgres"
	"github.com/ds124wfegd/tennis-courts/internal/entity"
)

const scheduleKeyPrefix = "schedule:"

// ScheduleCache serves schedule lookups from redis and falls back to the
// wrapped repository on a miss. Cache failures never fail a lookup.
type ScheduleCache struct {
	client *redis.Client
	next   repository.ScheduleRepository
	ttl    time.Duration
}

func NewScheduleCache(client *redis.Client, next repository.ScheduleRepository, ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

func scheduleKey(id int64) string {
	return scheduleKeyPrefix + strconv.FormatInt(id, 10)
}

func (c *ScheduleCache) GetByID(ctx context.Context, id int64) (*entity.Schedule, error) {
	data, err := c.client.Get(ctx, scheduleKey(id)).Bytes()
	if err == nil {
		var schedule entity.Schedule
		if err := json.Unmarshal(data, &schedule); err == nil {
			return &schedule, nil
		}
		logrus.Warnf("Dropping unreadable cached schedule %d", id)
		c.client.Del(ctx, scheduleKey(id))
	} else if !errors.Is(err, redis.Nil) {
		logrus.Warnf("Schedule cache read failed: %v", err)
	}

	schedule, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.set(ctx, schedule)
	return schedule, nil
}

func (c *ScheduleCache) set(ctx context.Context, schedule *entity.Schedule) {
	data, err := json.Marshal(schedule)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, scheduleKey(schedule.ID), data, c.ttl).Err(); err != nil {
		logrus.Warnf("Schedule cache write failed: %v", err)
	}
}
