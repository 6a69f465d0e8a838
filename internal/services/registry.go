package services

import (
	"strconv"

	"github.com/sgvandijk/vroom/internal/domain"
)

// locationRegistry deduplicates locations and reconciles matrix indices.
// In the implicit regime it assigns indices densely in first-seen order;
// in the explicit regime it only records locations so a matrix can still
// be computed when the user supplies none.
type locationRegistry struct {
	locations []domain.Location
	byKey     map[string]int
}

func newLocationRegistry() *locationRegistry {
	return &locationRegistry{byKey: make(map[string]int)}
}

// locationKey is the identity used for deduplication: the user-supplied
// index when present, the coordinate pair otherwise.
func locationKey(l domain.Location) string {
	if l.UserIndex() {
		return "i:" + strconv.Itoa(l.Index())
	}
	c := l.Coordinates()
	return "c:" + strconv.FormatFloat(c.Lon, 'f', -1, 64) + "|" + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// intern records the location and returns its matrix index, stamping the
// incoming location in the implicit regime. A given location identity
// receives exactly one index per instance.
func (r *locationRegistry) intern(l *domain.Location) int {
	k := locationKey(*l)
	if pos, ok := r.byKey[k]; ok {
		l.SetIndex(r.locations[pos].Index())
		return l.Index()
	}

	l.SetIndex(len(r.locations))
	r.byKey[k] = len(r.locations)
	r.locations = append(r.locations, *l)
	return l.Index()
}

// list returns the known locations in first-seen order.
func (r *locationRegistry) list() []domain.Location {
	return r.locations
}

func (r *locationRegistry) size() int { return len(r.locations) }
