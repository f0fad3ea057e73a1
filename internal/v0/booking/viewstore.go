package booking

import (
	"context"
	"sync"
	"time"

	"MessAPI/internal/realtime"
)

// DefaultViewIdle is how long an untouched view is kept.
const DefaultViewIdle = 30 * time.Minute

// ViewStore keeps one View per owner and forgets idle ones.
type ViewStore struct {
	mu      sync.Mutex
	views   map[string]*View
	newView func(Session) *View
	idle    time.Duration
	clock   func() time.Time
}

// NewViewStore creates a store that builds missing views with newView.
func NewViewStore(idle time.Duration, newView func(Session) *View) *ViewStore {
	if idle <= 0 {
		idle = DefaultViewIdle
	}
	return &ViewStore{
		views:   make(map[string]*View),
		newView: newView,
		idle:    idle,
		clock:   time.Now,
	}
}

// Get returns the owner's view, creating it on first use.
func (s *ViewStore) Get(ownerID string) *View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.views[ownerID]; ok {
		return v
	}
	v := s.newView(Session{OwnerID: ownerID})
	s.views[ownerID] = v
	return v
}

// Drop closes and forgets the owner's view.
func (s *ViewStore) Drop(ownerID string) {
	s.mu.Lock()
	v, ok := s.views[ownerID]
	delete(s.views, ownerID)
	s.mu.Unlock()

	if ok {
		v.Close()
	}
}

// Prune closes views idle for longer than the idle window.
func (s *ViewStore) Prune() int {
	cutoff := s.clock().Add(-s.idle)

	s.mu.Lock()
	var stale []*View
	for owner, v := range s.views {
		if v.LastUsed().Before(cutoff) {
			stale = append(stale, v)
			delete(s.views, owner)
		}
	}
	s.mu.Unlock()

	for _, v := range stale {
		v.Close()
	}
	return len(stale)
}

func (s *ViewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Run prunes every interval until ctx ends, then closes all views.
func (s *ViewStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			views := s.views
			s.views = make(map[string]*View)
			s.mu.Unlock()
			for _, v := range views {
				v.Close()
			}
			return
		case <-ticker.C:
			s.Prune()
		}
	}
}

// HubViews builds views whose feed is the owner's meal_bookings events on hub.
func HubViews(store Store, hub *realtime.Hub, opts ViewOptions) func(Session) *View {
	return func(s Session) *View {
		o := opts
		o.Feed = hub.Subscribe(realtime.Filter{Table: TableName, Column: "user_id", Value: s.OwnerID}, 0)
		return NewView(store, s, o)
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
