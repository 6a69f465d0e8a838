package routing

import (
	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// The in-process OSRM variant needs the native libosrm bindings, which
// this build does not carry.
func newLibOSRM(profile string) (ports.Router, error) {
	_ = profile
	return nil, domain.NewInputError("Not built with libosrm support.")
}
