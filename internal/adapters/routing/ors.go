package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sgvandijk/vroom/internal/domain"
)

// orsRouter talks to an OpenRouteService server.
type orsRouter struct {
	client
	profile string
}

func newORS(profile string, s Server) *orsRouter {
	return &orsRouter{client: newClient(s), profile: profile}
}

func (o *orsRouter) Profile() string { return o.profile }

type orsMatrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type orsMatrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

func (o *orsRouter) GetMatrix(ctx context.Context, locations []domain.Location) (domain.Matrix, error) {
	coords := make([][]float64, 0, len(locations))
	for _, l := range locations {
		if !l.HasCoordinates() {
			return nil, domain.NewRoutingError(nil, "Missing coordinates for a routing request")
		}
		coords = append(coords, l.Coordinates().CoordsToList())
	}

	payload, err := json.Marshal(orsMatrixRequest{
		Locations: coords,
		Metrics:   []string{"duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, domain.NewRoutingError(err, "ORS matrix request failed for profile \"%s\"", o.profile)
	}
	defer resp.Body.Close()

	var mr orsMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, domain.NewRoutingError(err, "decode ORS matrix response")
	}

	return durationsToMatrix(mr.Durations, len(locations))
}

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsDirectionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
		Segments []struct {
			Distance float64 `json:"distance"`
		} `json:"segments"`
	} `json:"routes"`
}

func (o *orsRouter) AddRouteInfo(ctx context.Context, route *domain.Route) error {
	locations := stepLocations(route)
	if len(locations) < 2 {
		return nil
	}

	coords := make([][]float64, 0, len(locations))
	for _, l := range locations {
		if !l.HasCoordinates() {
			return domain.NewRoutingError(nil, "Missing coordinates for a routing request")
		}
		coords = append(coords, l.Coordinates().CoordsToList())
	}

	payload, err := json.Marshal(orsDirectionsRequest{Coordinates: coords})
	if err != nil {
		return fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.NewRoutingError(err, "ORS directions request failed for profile \"%s\"", o.profile)
	}
	defer resp.Body.Close()

	var dr orsDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.NewRoutingError(err, "decode ORS directions response")
	}
	if len(dr.Routes) == 0 {
		return domain.NewRoutingError(nil, "empty ORS directions response")
	}

	r := dr.Routes[0]
	if len(r.Segments) != len(locations)-1 {
		return domain.NewRoutingError(nil, "unexpected number of route segments: %d", len(r.Segments))
	}

	segDistances := make([]float64, len(r.Segments))
	for i, s := range r.Segments {
		segDistances[i] = s.Distance
	}
	applyRouteInfo(route, r.Summary.Distance, r.Geometry, segDistances)

	return nil
}
