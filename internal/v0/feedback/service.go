package feedback

import (
	"context"
	"errors"
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

// ErrRatingRequired is returned when feedback arrives without a rating.
var ErrRatingRequired = errors.New("please select a rating before submitting your feedback")

// Submit stores owner's rating of a meal.
func (s *Service) Submit(ctx context.Context, owner string, req SubmitRequest) (*Feedback, error) {
	meal, err := common.ParseMealType(req.MealType)
	if err != nil {
		return nil, common.Invalid(err)
	}
	if req.Rating == "" {
		return nil, common.Invalid(ErrRatingRequired)
	}
	if !req.Rating.Valid() {
		return nil, common.Invalid(fmt.Errorf("unknown rating %q", req.Rating))
	}

	f, err := s.repo.Create(ctx, Feedback{
		OwnerID:  owner,
		MealType: meal,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, TableName, f.ID, f, f.OwnerID)
	return f, nil
}

func (s *Service) Mine(ctx context.Context, owner string) ([]Feedback, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Filter is the office search. Empty or "all" fields match everything.
type Filter struct {
	Query  string
	Rating string
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Reviewed, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return common.FilterSlice(all, func(r Reviewed) bool {
		return common.MatchesQuery(f.Query, r.Comment, string(r.MealType), r.ReporterName) &&
			common.MatchesFilter(f.Rating, string(r.Rating))
	}), nil
}

// Respond adds an office reply and returns the feedback with all replies.
func (s *Service) Respond(ctx context.Context, feedbackID, adminID, text string) (*Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.Invalid(fmt.Errorf("response is required"))
	}
	f, err := s.repo.Get(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, common.ErrNotFound
	}

	resp, err := s.repo.CreateResponse(ctx, Response{FeedbackID: f.ID, AdminID: adminID, Response: text})
	if err != nil {
		return nil, err
	}
	f.Responses = append(f.Responses, *resp)
	s.publish(ctx, ResponseTableName, resp.ID, resp, f.OwnerID)
	return f, nil
}

func (s *Service) publish(ctx context.Context, table, id string, record any, owner string) {
	if s.publisher == nil {
		return
	}
	e, err := realtime.NewEvent(table, realtime.Insert, id, record, map[string]string{"user_id": owner})
	if err == nil {
		err = s.publisher.Publish(ctx, e)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("table", table).Str("id", id).Msg("publish feedback event failed")
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
