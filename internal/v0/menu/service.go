package menu

import (
	"context"
	"encoding/json"
	"time"

	"MessAPI/internal/metrics"
	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/common"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const weekKeyPrefix = "menu:week:"

// Publisher receives change events for menu writes.
type Publisher interface {
	Publish(ctx context.Context, e realtime.Event) error
}

// Service resolves the weekly menu and carries admin writes, keeping the
// optional Redis cache and realtime subscribers in step.
type Service struct {
	repo      *Repository
	publisher Publisher
	location  *time.Location
	clock     func() time.Time
	logger    *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewService creates a menu service. publisher may be nil.
func NewService(repo *Repository, publisher Publisher, location *time.Location, logger *zerolog.Logger) *Service {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		location:  location,
		clock:     time.Now,
		logger:    logger,
	}
}

// UseRedisCache caches resolved weeks in Redis for ttl.
func (s *Service) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	s.redis = redisClient
	s.cacheTTL = ttl
}

func (s *Service) Repository() *Repository {
	return s.repo
}

func (s *Service) today() time.Time {
	return s.clock().In(s.location)
}

// Today is the current ISO day in the service's location.
func (s *Service) Today() string {
	return common.FormatDay(s.today())
}

// Week returns the resolved grid for today.
func (s *Service) Week(ctx context.Context) (Week, error) {
	today := s.today()
	key := weekKeyPrefix + common.FormatDay(today)

	var week Week
	if s.readCache(ctx, key, &week) {
		metrics.IncMenuCache(true)
		return week, nil
	}
	if s.redis != nil {
		metrics.IncMenuCache(false)
	}

	scheduled, err := s.repo.ListScheduled(ctx, ScheduledFilter{From: common.FormatDay(today), PublishedOnly: true})
	if err != nil {
		return Week{}, err
	}
	daily, err := s.repo.GetDailyMenu(ctx, common.FormatDay(today))
	if err != nil {
		return Week{}, err
	}

	week = Resolve(today, scheduled, daily)
	s.writeCache(ctx, key, week)
	return week, nil
}

func (s *Service) readCache(ctx context.Context, key string, out any) bool {
	if s.redis == nil || s.cacheTTL <= 0 {
		return false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("menu cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, val any) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("menu cache write failed")
	}
}

// invalidate drops every cached week.
func (s *Service) invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	iter := s.redis.Scan(ctx, 0, weekKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("menu cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("menu cache invalidation failed")
	}
}

func (s *Service) publish(ctx context.Context, table string, typ realtime.EventType, id string, record any, columns map[string]string) {
	if s.publisher == nil {
		return
	}
	e, err := realtime.NewEvent(table, typ, id, record, columns)
	if err == nil {
		err = s.publisher.Publish(ctx, e)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("table", table).Str("id", id).Msg("publish menu event failed")
	}
}

// changed runs after every successful admin write.
func (s *Service) changed(ctx context.Context, table string, typ realtime.EventType, id string, record any, columns map[string]string) {
	s.invalidate(ctx)
	s.publish(ctx, table, typ, id, record, columns)
}

// SaveDailyMenu creates or replaces the override for req.Date, today when empty.
func (s *Service) SaveDailyMenu(ctx context.Context, req DailyMenuRequest) (*DailyMenu, bool, error) {
	if req.Date == "" {
		req.Date = s.Today()
	}
	d, created, err := s.repo.UpsertDailyMenu(ctx, req)
	if err != nil {
		return nil, false, err
	}
	typ := realtime.Update
	if created {
		typ = realtime.Insert
	}
	s.changed(ctx, DailyTable, typ, d.ID, d, map[string]string{"date": d.Date})
	return d, created, nil
}

func (s *Service) DeleteDailyMenu(ctx context.Context, date string) error {
	existing, err := s.repo.GetDailyMenu(ctx, date)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.ErrNotFound
	}
	if err := s.repo.DeleteDailyMenu(ctx, date); err != nil {
		return err
	}
	s.changed(ctx, DailyTable, realtime.Delete, existing.ID, nil, map[string]string{"date": date})
	return nil
}

func (s *Service) CreateScheduled(ctx context.Context, m ScheduledMenu) (*ScheduledMenu, error) {
	created, err := s.repo.CreateScheduled(ctx, m)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ScheduledTable, realtime.Insert, created.ID, created, scheduledColumnsOf(created))
	return created, nil
}

// UpdateScheduled applies the non-nil fields of u.
func (s *Service) UpdateScheduled(ctx context.Context, id string, u ScheduledMenuUpdate) (*ScheduledMenu, error) {
	m, err := s.repo.GetScheduled(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, common.ErrNotFound
	}
	if err := applyScheduledUpdate(m, u, s.location); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateScheduled(ctx, *m); err != nil {
		return nil, err
	}
	updated, err := s.repo.GetScheduled(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ScheduledTable, realtime.Update, id, updated, scheduledColumnsOf(updated))
	return updated, nil
}

func (s *Service) DeleteScheduled(ctx context.Context, id string) error {
	if err := s.repo.DeleteScheduled(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, ScheduledTable, realtime.Delete, id, nil, nil)
	return nil
}

func scheduledColumnsOf(m *ScheduledMenu) map[string]string {
	return map[string]string{"date": m.Date, "meal_type": string(m.MealType)}
}

func (s *Service) CreateItem(ctx context.Context, it MenuItem) (*MenuItem, error) {
	created, err := s.repo.CreateItem(ctx, it)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ItemsTable, realtime.Insert, created.ID, created, map[string]string{"category": created.Category})
	return created, nil
}

// UpdateItem applies the non-nil fields of u.
func (s *Service) UpdateItem(ctx context.Context, id string, u MenuItemUpdate) (*MenuItem, error) {
	it, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, common.ErrNotFound
	}
	if u.Name != nil {
		it.Name = *u.Name
	}
	if u.Category != nil {
		it.Category = *u.Category
	}
	if u.Description != nil {
		it.Description = u.Description
	}
	if u.Vegetarian != nil {
		it.Vegetarian = *u.Vegetarian
	}
	if err := s.repo.UpdateItem(ctx, *it); err != nil {
		return nil, err
	}
	updated, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ItemsTable, realtime.Update, id, updated, map[string]string{"category": updated.Category})
	return updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, ItemsTable, realtime.Delete, id, nil, nil)
	return nil
}


/*
This project is the backend API for the hostel mess. Meal slot bookings, weekly menus, announcements, complaints and feedback for residents and the mess office.
MessAPI Copyright (C) 2025 MessAPI contributors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
