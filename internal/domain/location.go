package domain

// Location identifies a place a job or vehicle refers to. It carries an
// optional coordinate pair and a matrix index. The index is either supplied
// by the caller (explicit convention) or assigned by the location registry
// in order of first appearance (implicit convention).
type Location struct {
	index     int
	userIndex bool
	coords    *Coordinates
}

// NewLocationCoords builds a location from coordinates only; its matrix
// index is assigned later by the registry.
func NewLocationCoords(c Coordinates) Location {
	return Location{index: -1, coords: &Coordinates{Lon: c.Lon, Lat: c.Lat}}
}

// NewLocationIndex builds a location identified by a caller-supplied
// matrix index.
func NewLocationIndex(index int) Location {
	return Location{index: index, userIndex: true}
}

// NewLocationIndexCoords builds a location carrying both a caller-supplied
// matrix index and coordinates.
func NewLocationIndexCoords(index int, c Coordinates) Location {
	return Location{index: index, userIndex: true, coords: &Coordinates{Lon: c.Lon, Lat: c.Lat}}
}

// Index returns the matrix index, or -1 when none has been assigned yet.
func (l Location) Index() int { return l.index }

// UserIndex reports whether the matrix index was supplied by the caller.
func (l Location) UserIndex() bool { return l.userIndex }

// SetIndex stamps a registry-assigned matrix index. It never overwrites a
// caller-supplied index.
func (l *Location) SetIndex(index int) {
	if !l.userIndex {
		l.index = index
	}
}

func (l Location) HasCoordinates() bool { return l.coords != nil }

// Coordinates returns the coordinate pair; only meaningful when
// HasCoordinates reports true.
func (l Location) Coordinates() Coordinates {
	if l.coords == nil {
		return Coordinates{}
	}
	return *l.coords
}

// Equal reports location identity: two locations are the same place when
// both carry the same user-supplied index, or both carry identical
// coordinates.
func (l Location) Equal(o Location) bool {
	if l.userIndex && o.userIndex {
		return l.index == o.index
	}
	if l.coords != nil && o.coords != nil {
		return *l.coords == *o.coords
	}
	return false
}
