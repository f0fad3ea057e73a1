package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType mirrors the row operation that produced a change.
type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
)

// Event is one committed row change.
type Event struct {
	ID         string            `json:"id"`
	Table      string            `json:"table"`
	Type       EventType         `json:"type"`
	RecordID   string            `json:"recordId"`
	Columns    map[string]string `json:"columns,omitempty"`
	Record     json.RawMessage   `json:"record,omitempty"`
	CommitTime time.Time         `json:"commitTime"`
}

// NewEvent encodes record and stamps the event with a fresh id and the
// current time. Columns are the values subscribers may filter on.
func NewEvent(table string, typ EventType, recordID string, record any, columns map[string]string) (Event, error) {
	var raw json.RawMessage
	if record != nil {
		b, err := json.Marshal(record)
		if err != nil {
			return Event{}, fmt.Errorf("encode %s record: %w", table, err)
		}
		raw = b
	}
	return Event{
		ID:         uuid.New().String(),
		Table:      table,
		Type:       typ,
		RecordID:   recordID,
		Columns:    columns,
		Record:     raw,
		CommitTime: time.Now(),
	}, nil
}

// Decode unmarshals the record payload into out.
func (e Event) Decode(out any) error {
	if len(e.Record) == 0 {
		return fmt.Errorf("event %s carries no record", e.ID)
	}
	return json.Unmarshal(e.Record, out)
}

// Filter selects events by table, type and an optional column equality.
type Filter struct {
	Table  string
	Types  []EventType
	Column string
	Value  string
}

// ParseFilter accepts the "column=eq.value" predicate form. An empty
// expression matches every row of the table.
func ParseFilter(table, expr string, types ...EventType) (Filter, error) {
	f := Filter{Table: table, Types: types}
	if table == "" {
		return f, fmt.Errorf("table is required")
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return f, nil
	}

	column, rest, ok := strings.Cut(expr, "=")
	if !ok || column == "" {
		return f, fmt.Errorf("invalid filter %q", expr)
	}
	value, ok := strings.CutPrefix(rest, "eq.")
	if !ok {
		return f, fmt.Errorf("unsupported filter operator in %q", expr)
	}
	f.Column = column
	f.Value = value
	return f, nil
}

func (f Filter) Matches(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == e.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Column != "" && e.Columns[f.Column] != f.Value {
		return false
	}
	return true
}
