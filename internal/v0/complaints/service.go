package complaints

import (
	"context"
	"fmt"
	"strings"

	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/common"

	"github.com/rs/zerolog"
)

type Publisher interface {
	Publish(ctx context.Context, e realtime.Event) error
}

type Service struct {
	repo      *Repository
	publisher Publisher
	logger    *zerolog.Logger
}

func NewService(repo *Repository, publisher Publisher, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// File records a new pending complaint for owner.
func (s *Service) File(ctx context.Context, owner string, req CreateRequest) (*Complaint, error) {
	c := Complaint{
		OwnerID:     owner,
		Subject:     strings.TrimSpace(req.Subject),
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		Status:      StatusPending,
	}
	if c.Subject == "" || c.Description == "" {
		return nil, common.Invalid(fmt.Errorf("subject and description are required"))
	}
	if !c.Category.Valid() {
		return nil, common.Invalid(fmt.Errorf("unknown category %q", c.Category))
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.Insert, created)
	return created, nil
}

func (s *Service) Mine(ctx context.Context, owner string) ([]Complaint, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Filter is the office search. Empty or "all" fields match everything.
type Filter struct {
	Query    string
	Status   string
	Category string
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Reported, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return common.FilterSlice(all, func(r Reported) bool {
		return common.MatchesQuery(f.Query, r.Subject, r.Description, string(r.Category), r.ReporterName) &&
			common.MatchesFilter(f.Status, string(r.Status)) &&
			common.MatchesFilter(f.Category, string(r.Category))
	}), nil
}

// SetStatus moves a complaint to status. Any transition is allowed.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Complaint, error) {
	if !status.Valid() {
		return nil, common.Invalid(fmt.Errorf("unknown status %q", status))
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, common.ErrNotFound
	}
	s.publish(ctx, realtime.Update, c)
	return c, nil
}

func (s *Service) publish(ctx context.Context, typ realtime.EventType, c *Complaint) {
	if s.publisher == nil {
		return
	}
	e, err := realtime.NewEvent(TableName, typ, c.ID, c, map[string]string{
		"user_id": c.OwnerID,
		"status":  string(c.Status),
	})
	if err == nil {
		err = s.publisher.Publish(ctx, e)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("complaint", c.ID).Msg("publish complaint event failed")
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
