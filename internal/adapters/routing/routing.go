package routing

import (
	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// Kind selects a routing backend implementation.
type Kind string

const (
	OSRM     Kind = "osrm"
	LibOSRM  Kind = "libosrm"
	ORS      Kind = "ors"
	Valhalla Kind = "valhalla"
)

// Server locates an HTTP routing backend for one profile.
type Server struct {
	Host string `yaml:"host" json:"host"`
	Port string `yaml:"port" json:"port"`
}

// New builds the routing adapter for one profile. HTTP backends require a
// server entry for the profile; the in-process OSRM variant requires the
// binary to be built with libosrm support.
func New(kind Kind, profile string, servers map[string]Server) (ports.Router, error) {
	if kind == LibOSRM {
		return newLibOSRM(profile)
	}

	s, ok := servers[profile]
	if !ok {
		return nil, domain.NewInputError("No server set for profile \"%s\".", profile)
	}

	switch kind {
	case OSRM:
		return newOSRM(profile, s), nil
	case ORS:
		return newORS(profile, s), nil
	case Valhalla:
		return newValhalla(profile, s), nil
	default:
		return nil, domain.NewInputError("Invalid routing engine: \"%s\".", string(kind))
	}
}
