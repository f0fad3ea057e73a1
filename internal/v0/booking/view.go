package booking

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"MessAPI/internal/metrics"
	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/common"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Publisher receives change events for rows a view writes.
type Publisher interface {
	Publish(ctx context.Context, e realtime.Event) error
}

// ViewOptions lists every optional collaborator of a View.
type ViewOptions struct {
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Location decides what "today" is. Defaults to time.Local.
	Location *time.Location
	// Feed carries meal_bookings events for the owner. Drained by Sync.
	Feed *realtime.Subscription
	// Publisher announces inserted rows. Optional.
	Publisher Publisher
	Logger    *zerolog.Logger
}

// View holds one resident's booking state: the selected day, which meals
// are already booked on it, the pending selection and the last history.
type View struct {
	mu      sync.Mutex
	store   Store
	session Session
	opts    ViewOptions

	date        string
	loaded      bool
	dayRows     []Reservation
	booked      map[common.MealType]bool
	selection   map[common.MealType]Selection
	preferences map[common.MealType]common.MealPreference
	note        string
	history     []Reservation
	lastUsed    time.Time
}

// NewView creates a view for session positioned on today.
func NewView(store Store, session Session, opts ViewOptions) *View {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	v := &View{
		store:       store,
		session:     session,
		opts:        opts,
		booked:      make(map[common.MealType]bool),
		selection:   make(map[common.MealType]Selection),
		preferences: make(map[common.MealType]common.MealPreference),
	}
	v.date = common.FormatDay(opts.Clock().In(opts.Location))
	v.lastUsed = opts.Clock()
	return v
}

func (v *View) touch() {
	v.lastUsed = v.opts.Clock()
}

// LastUsed reports when the view last served an operation.
func (v *View) LastUsed() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastUsed
}

// Close releases the realtime feed.
func (v *View) Close() {
	if v.opts.Feed != nil {
		v.opts.Feed.Close()
	}
}

// SetDate moves the view to another day. An empty date clears it. The booked
// set and the selection belong to the old day and are dropped.
func (v *View) SetDate(date string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()

	date = strings.TrimSpace(date)
	if date != "" {
		t, err := common.ParseDay(date, v.opts.Location)
		if err != nil {
			return validationError(TitleInvalidDate, err.Error())
		}
		date = common.FormatDay(t)
	}
	if date == v.date {
		return nil
	}
	v.date = date
	v.loaded = false
	v.dayRows = nil
	v.booked = make(map[common.MealType]bool)
	v.selection = make(map[common.MealType]Selection)
	return nil
}

// LoadDayState reads the owner's reservations for the view's day. On failure
// the previous state is kept.
func (v *View) LoadDayState(ctx context.Context) (DayState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()

	if err := v.requireOwner(); err != nil {
		return v.stateLocked(), err
	}
	if v.date == "" {
		return v.stateLocked(), validationError(TitleDateRequired, "Please select a date")
	}
	if err := v.loadDayLocked(ctx); err != nil {
		return v.stateLocked(), err
	}
	return v.stateLocked(), nil
}

func (v *View) loadDayLocked(ctx context.Context) error {
	rows, err := v.store.ListByOwner(ctx, v.session.OwnerID, ListFilter{Date: v.date})
	if err != nil {
		return remoteError(TitleLoadFailed, err)
	}
	v.dayRows = rows
	v.loaded = true
	v.rebuildBookedLocked()
	return nil
}

// EnsureDayState loads the day state unless it was already read for the
// view's day. Views without an owner or a date are left alone.
func (v *View) EnsureDayState(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loaded || v.session.OwnerID == "" || v.date == "" {
		return nil
	}
	return v.loadDayLocked(ctx)
}

func (v *View) rebuildBookedLocked() {
	v.booked = make(map[common.MealType]bool, len(v.dayRows))
	for _, r := range v.dayRows {
		v.booked[r.MealType] = true
	}
}

// LoadHistory reads every reservation of the owner, newest first.
func (v *View) LoadHistory(ctx context.Context) (History, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()

	if err := v.requireOwner(); err != nil {
		return v.historyLocked(), err
	}
	if err := v.loadHistoryLocked(ctx); err != nil {
		return v.historyLocked(), err
	}
	return v.historyLocked(), nil
}

func (v *View) loadHistoryLocked(ctx context.Context) error {
	rows, err := v.store.ListByOwner(ctx, v.session.OwnerID, ListFilter{})
	if err != nil {
		return remoteError(TitleLoadFailed, err)
	}
	sortNewestFirst(rows)
	v.history = rows
	return nil
}

func (v *View) historyLocked() History {
	h := History{Bookings: append([]Reservation{}, v.history...)}
	if len(h.Bookings) == 0 {
		h.Message = EmptyHistoryMessage
	}
	return h
}

// sortNewestFirst orders by day, then creation time, both descending.
func sortNewestFirst(rows []Reservation) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

// Select picks slotID for meal, replacing any earlier pick for that meal
// only. An empty preference keeps the one already set for the meal.
func (v *View) Select(meal common.MealType, slotID string, pref common.MealPreference) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()

	if v.booked[meal] {
		metrics.IncBookingRejected("already_booked")
		return conflictError([]common.MealType{meal})
	}
	return v.pickLocked(meal, slotID, pref)
}

// Stage records a pick like Select but leaves booked meals to Submit, which
// then names every conflicting meal at once.
func (v *View) Stage(meal common.MealType, slotID string, pref common.MealPreference) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	return v.pickLocked(meal, slotID, pref)
}

func (v *View) pickLocked(meal common.MealType, slotID string, pref common.MealPreference) error {
	label, ok := SlotLabel(meal, slotID)
	if !ok {
		return validationError(TitleInvalidSlot, "Unknown slot "+slotID+" for "+string(meal))
	}

	if pref != "" {
		v.preferences[meal] = pref
	}
	v.selection[meal] = Selection{SlotID: slotID, Label: label, Preference: v.preferenceLocked(meal)}
	return nil
}

// SetPreference sets the dietary preference used when meal is submitted.
func (v *View) SetPreference(meal common.MealType, pref common.MealPreference) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()

	v.preferences[meal] = pref
	if sel, ok := v.selection[meal]; ok {
		sel.Preference = pref
		v.selection[meal] = sel
	}
}

func (v *View) preferenceLocked(meal common.MealType) common.MealPreference {
	if p, ok := v.preferences[meal]; ok && p != "" {
		return p
	}
	return common.DefaultPreference
}

// Clear drops the pending selection for meal.
func (v *View) Clear(meal common.MealType) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	delete(v.selection, meal)
}

// SetNote attaches a free-text note to the next submission.
func (v *View) SetNote(note string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.note = strings.TrimSpace(note)
}

// Submit books every selected meal in one batch. Nothing is written unless
// all checks pass; on a store failure the selection is kept.
func (v *View) Submit(ctx context.Context) ([]Reservation, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()

	if err := v.requireOwner(); err != nil {
		metrics.IncBookingRejected("unauthenticated")
		return nil, err
	}
	if v.date == "" {
		metrics.IncBookingRejected("no_date")
		return nil, validationError(TitleDateRequired, "Please select a date")
	}
	if len(v.selection) == 0 {
		metrics.IncBookingRejected("no_selection")
		return nil, validationError(TitleNoSlots, "Please select at least one meal time slot")
	}
	if !v.loaded {
		if err := v.loadDayLocked(ctx); err != nil {
			metrics.IncBookingRejected("remote")
			return nil, err
		}
	}

	var conflicts []common.MealType
	for _, m := range common.MealTypes {
		if _, selected := v.selection[m]; selected && v.booked[m] {
			conflicts = append(conflicts, m)
		}
	}
	if len(conflicts) > 0 {
		metrics.IncBookingRejected("already_booked")
		return nil, conflictError(conflicts)
	}

	rows := v.buildRowsLocked()
	if err := v.store.InsertBatch(ctx, rows); err != nil {
		if errors.Is(err, ErrDuplicateBooking) {
			metrics.IncBookingRejected("duplicate")
			return nil, &Error{Kind: KindConflict, Title: TitleAlreadyBooked, Message: err.Error()}
		}
		metrics.IncBookingRejected("remote")
		return nil, remoteError(TitleBookingFailed, err)
	}

	for _, r := range rows {
		metrics.IncBookingCreated(string(r.MealType))
		v.publish(ctx, r)
		v.dayRows = realtime.Merge(v.dayRows, r)
		v.history = realtime.Merge(v.history, r)
	}
	v.rebuildBookedLocked()
	sortNewestFirst(v.history)
	v.selection = make(map[common.MealType]Selection)
	v.note = ""

	// The rows are written; a failed refresh leaves the merged local copy.
	if err := v.loadDayLocked(ctx); err != nil {
		v.opts.Logger.Warn().Err(err).Str("user_id", v.session.OwnerID).Msg("reload day state after booking failed")
	}
	if err := v.loadHistoryLocked(ctx); err != nil {
		v.opts.Logger.Warn().Err(err).Str("user_id", v.session.OwnerID).Msg("reload history after booking failed")
	}
	return rows, nil
}

func (v *View) buildRowsLocked() []Reservation {
	now := v.opts.Clock()
	var note *string
	if v.note != "" {
		n := v.note
		note = &n
	}

	rows := make([]Reservation, 0, len(v.selection))
	for _, m := range common.MealTypes {
		sel, ok := v.selection[m]
		if !ok {
			continue
		}
		pref := sel.Preference
		if pref == "" {
			pref = common.DefaultPreference
		}
		rows = append(rows, Reservation{
			ID:         uuid.New().String(),
			OwnerID:    v.session.OwnerID,
			Date:       v.date,
			MealType:   m,
			TimeSlot:   sel.Label,
			Preference: pref,
			Note:       note,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return rows
}

func (v *View) publish(ctx context.Context, r Reservation) {
	if v.opts.Publisher == nil {
		return
	}
	e, err := realtime.NewEvent(TableName, realtime.Insert, r.ID, r, map[string]string{
		"user_id":      r.OwnerID,
		"booking_date": r.Date,
		"meal_type":    string(r.MealType),
	})
	if err == nil {
		err = v.opts.Publisher.Publish(ctx, e)
	}
	if err != nil {
		v.opts.Logger.Warn().Err(err).Str("booking", r.ID).Msg("publish booking event failed")
	}
}

// Sync drains the realtime feed and merges the owner's booking changes into
// history and the day state. It returns how many events were applied.
func (v *View) Sync() int {
	if v.opts.Feed == nil {
		return 0
	}
	events := v.opts.Feed.Drain()

	v.mu.Lock()
	defer v.mu.Unlock()

	applied := 0
	for _, e := range events {
		if e.Table != TableName {
			continue
		}
		if e.Type == realtime.Delete {
			v.history = realtime.Remove(v.history, e.RecordID)
			v.dayRows = realtime.Remove(v.dayRows, e.RecordID)
			applied++
			continue
		}

		var r Reservation
		if err := e.Decode(&r); err != nil {
			v.opts.Logger.Warn().Err(err).Str("event", e.ID).Msg("skipping undecodable booking event")
			continue
		}
		if r.OwnerID != v.session.OwnerID {
			continue
		}
		v.history = realtime.Merge(v.history, r)
		if r.Date == v.date {
			v.dayRows = realtime.Merge(v.dayRows, r)
		}
		applied++
	}
	if applied > 0 {
		sortNewestFirst(v.history)
		v.rebuildBookedLocked()
	}
	return applied
}

// State returns a snapshot of the day state.
func (v *View) State() DayState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

// History returns the last loaded history.
func (v *View) History() History {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.historyLocked()
}

func (v *View) stateLocked() DayState {
	s := DayState{
		Date:      v.date,
		Booked:    []common.MealType{},
		Bookings:  append([]Reservation{}, v.dayRows...),
		Selection: make(map[common.MealType]Selection, len(v.selection)),
		Note:      v.note,
	}
	for _, m := range common.MealTypes {
		if v.booked[m] {
			s.Booked = append(s.Booked, m)
		}
	}
	for m, sel := range v.selection {
		s.Selection[m] = sel
	}
	return s
}

func (v *View) requireOwner() error {
	if v.session.OwnerID == "" {
		return validationError(TitleAuthRequired, "Please sign in to book meals")
	}
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
