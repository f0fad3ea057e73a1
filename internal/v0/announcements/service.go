package announcements

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/common"

	"github.com/rs/zerolog"
)

// Publisher receives change events for announcement writes.
type Publisher interface {
	Publish(ctx context.Context, e realtime.Event) error
}

type Service struct {
	repo      *Repository
	publisher Publisher
	clock     func() time.Time
	logger    *zerolog.Logger
}

// NewService creates an announcement service. publisher may be nil.
func NewService(repo *Repository, publisher Publisher, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{repo: repo, publisher: publisher, clock: time.Now, logger: logger}
}

// Active lists what residents see: active, unexpired rows, urgent first,
// then newest first.
func (s *Service) Active(ctx context.Context) ([]Announcement, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	visible := common.FilterSlice(all, func(a Announcement) bool { return a.Visible(now) })
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Priority.rank() < visible[j].Priority.rank()
	})
	return visible, nil
}

// Filter is the admin search. Empty or "all" fields match everything.
type Filter struct {
	Query    string
	Status   string
	Priority string
}

// Search lists announcements for the admin table.
func (s *Service) Search(ctx context.Context, f Filter) ([]Announcement, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return common.FilterSlice(all, func(a Announcement) bool {
		return common.MatchesQuery(f.Query, a.Title, a.Content) &&
			common.MatchesFilter(f.Status, string(a.Status)) &&
			common.MatchesFilter(f.Priority, string(a.Priority))
	}), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Announcement, error) {
	return s.repo.Get(ctx, id)
}

// Create stores an announcement by author and announces it.
func (s *Service) Create(ctx context.Context, req CreateRequest, author string) (*Announcement, error) {
	a := Announcement{
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		Type:      req.Type,
		Priority:  req.Priority,
		Status:    req.Status,
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
	}
	if a.Type == "" {
		a.Type = TypeGeneral
	}
	if a.Priority == "" {
		a.Priority = PriorityNormal
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if author != "" {
		a.CreatedBy = &author
	}
	if err := validate(a); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.Insert, created.ID, created)
	return created, nil
}

// Update applies the non-nil fields of u. Any status may follow any status.
func (s *Service) Update(ctx context.Context, id string, u Update) (*Announcement, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, common.ErrNotFound
	}

	if u.Title != nil {
		a.Title = strings.TrimSpace(*u.Title)
	}
	if u.Content != nil {
		a.Content = strings.TrimSpace(*u.Content)
	}
	if u.Type != nil {
		a.Type = *u.Type
	}
	if u.Priority != nil {
		a.Priority = *u.Priority
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.IsActive != nil {
		a.IsActive = *u.IsActive
	}
	if u.ExpiresAt != nil {
		a.ExpiresAt = u.ExpiresAt
	}
	if u.ClearExpiry {
		a.ExpiresAt = nil
	}
	if err := validate(*a); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, *a); err != nil {
		return nil, err
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.Update, id, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, realtime.Delete, id, nil)
	return nil
}

func validate(a Announcement) error {
	switch {
	case a.Title == "" || a.Content == "":
		return common.Invalid(fmt.Errorf("title and content are required"))
	case !a.Type.Valid():
		return common.Invalid(fmt.Errorf("unknown type %q", a.Type))
	case !a.Priority.Valid():
		return common.Invalid(fmt.Errorf("unknown priority %q", a.Priority))
	case !a.Status.Valid():
		return common.Invalid(fmt.Errorf("unknown status %q", a.Status))
	}
	return nil
}

func (s *Service) publish(ctx context.Context, typ realtime.EventType, id string, a *Announcement) {
	if s.publisher == nil {
		return
	}
	var cols map[string]string
	var record any
	if a != nil {
		record = a
		cols = map[string]string{
			"is_active": strconv.FormatBool(a.IsActive),
			"priority":  string(a.Priority),
			"status":    string(a.Status),
		}
	}
	e, err := realtime.NewEvent(TableName, typ, id, record, cols)
	if err == nil {
		err = s.publisher.Publish(ctx, e)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("announcement", id).Msg("publish announcement event failed")
	}
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
