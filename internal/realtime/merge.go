package realtime

import "time"

// Record is a locally held row that can absorb change events.
type Record interface {
	Key() string
	Version() time.Time
}

// Merge applies incoming with last-write-wins by Version. A row already held
// with a newer version is kept; an equal version replaces it, so replaying the
// echo of a local write changes nothing. Unknown rows are prepended.
func Merge[T Record](local []T, incoming T) []T {
	out := make([]T, 0, len(local)+1)
	for i, r := range local {
		if r.Key() != incoming.Key() {
			continue
		}
		out = append(out, local...)
		if !r.Version().After(incoming.Version()) {
			out[i] = incoming
		}
		return out
	}
	out = append(out, incoming)
	return append(out, local...)
}

// Remove drops the row with key.
func Remove[T Record](local []T, key string) []T {
	out := make([]T, 0, len(local))
	for _, r := range local {
		if r.Key() != key {
			out = append(out, r)
		}
	}
	return out
}
