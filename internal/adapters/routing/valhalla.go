package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/sgvandijk/vroom/internal/domain"
)

// valhallaRouter talks to a Valhalla server.
type valhallaRouter struct {
	client
	profile string
}

func newValhalla(profile string, s Server) *valhallaRouter {
	return &valhallaRouter{client: newClient(s), profile: profile}
}

func (v *valhallaRouter) Profile() string { return v.profile }

type valhallaLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type valhallaMatrixRequest struct {
	Sources []valhallaLocation `json:"sources"`
	Targets []valhallaLocation `json:"targets"`
	Costing string             `json:"costing"`
}

type valhallaMatrixResponse struct {
	SourcesToTargets [][]struct {
		Time *float64 `json:"time"`
	} `json:"sources_to_targets"`
}

func (v *valhallaRouter) GetMatrix(ctx context.Context, locations []domain.Location) (domain.Matrix, error) {
	points := make([]valhallaLocation, 0, len(locations))
	for _, l := range locations {
		if !l.HasCoordinates() {
			return nil, domain.NewRoutingError(nil, "Missing coordinates for a routing request")
		}
		c := l.Coordinates()
		points = append(points, valhallaLocation{Lat: c.Lat, Lon: c.Lon})
	}

	payload, err := json.Marshal(valhallaMatrixRequest{
		Sources: points,
		Targets: points,
		Costing: v.profile,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := v.baseURL + "/sources_to_targets"

	resp, err := v.doWithRetry(ctx, func() (*http.Request, error) {
		return v.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, domain.NewRoutingError(err, "Valhalla matrix request failed for profile \"%s\"", v.profile)
	}
	defer resp.Body.Close()

	var mr valhallaMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, domain.NewRoutingError(err, "decode Valhalla matrix response")
	}

	durations := make([][]*float64, len(mr.SourcesToTargets))
	for i, row := range mr.SourcesToTargets {
		durations[i] = make([]*float64, len(row))
		for j := range row {
			durations[i][j] = row[j].Time
		}
	}
	return durationsToMatrix(durations, len(locations))
}

type valhallaRouteRequest struct {
	Locations []valhallaLocation `json:"locations"`
	Costing   string             `json:"costing"`
}

type valhallaRouteResponse struct {
	Trip struct {
		Legs []struct {
			Shape   string `json:"shape"`
			Summary struct {
				Length float64 `json:"length"`
			} `json:"summary"`
		} `json:"legs"`
		Summary struct {
			Length float64 `json:"length"`
		} `json:"summary"`
	} `json:"trip"`
}

func (v *valhallaRouter) AddRouteInfo(ctx context.Context, route *domain.Route) error {
	locations := stepLocations(route)
	if len(locations) < 2 {
		return nil
	}

	points := make([]valhallaLocation, 0, len(locations))
	for _, l := range locations {
		if !l.HasCoordinates() {
			return domain.NewRoutingError(nil, "Missing coordinates for a routing request")
		}
		c := l.Coordinates()
		points = append(points, valhallaLocation{Lat: c.Lat, Lon: c.Lon})
	}

	payload, err := json.Marshal(valhallaRouteRequest{Locations: points, Costing: v.profile})
	if err != nil {
		return fmt.Errorf("marshal route request: %w", err)
	}

	endpoint := v.baseURL + "/route"

	resp, err := v.doWithRetry(ctx, func() (*http.Request, error) {
		return v.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.NewRoutingError(err, "Valhalla route request failed for profile \"%s\"", v.profile)
	}
	defer resp.Body.Close()

	var rr valhallaRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return domain.NewRoutingError(err, "decode Valhalla route response")
	}
	if len(rr.Trip.Legs) != len(locations)-1 {
		return domain.NewRoutingError(nil, "unexpected number of route legs: %d", len(rr.Trip.Legs))
	}

	// Valhalla lengths are kilometers.
	legDistances := make([]float64, len(rr.Trip.Legs))
	shapes := make([]string, 0, len(rr.Trip.Legs))
	for i, leg := range rr.Trip.Legs {
		legDistances[i] = leg.Summary.Length * 1000
		shapes = append(shapes, leg.Shape)
	}

	total := math.Round(rr.Trip.Summary.Length * 1000)
	applyRouteInfo(route, total, strings.Join(shapes, ""), legDistances)

	return nil
}
