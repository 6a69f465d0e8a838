package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/sgvandijk/vroom/internal/domain"
)

// osrmRouter talks to an OSRM server over its HTTP API.
type osrmRouter struct {
	client
	profile string
}

func newOSRM(profile string, s Server) *osrmRouter {
	return &osrmRouter{client: newClient(s), profile: profile}
}

func (o *osrmRouter) Profile() string { return o.profile }

// coordsPath renders locations as the "lon,lat;lon,lat" path segment OSRM
// expects.
func coordsPath(locations []domain.Location) (string, error) {
	var b strings.Builder
	for i, l := range locations {
		if !l.HasCoordinates() {
			return "", domain.NewRoutingError(nil, "Missing coordinates for a routing request")
		}
		if i > 0 {
			b.WriteByte(';')
		}
		c := l.Coordinates()
		b.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
	}
	return b.String(), nil
}

type osrmTableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"`
}

func (o *osrmRouter) GetMatrix(ctx context.Context, locations []domain.Location) (domain.Matrix, error) {
	path, err := coordsPath(locations)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/table/v1/%s/%s?annotations=duration", o.baseURL, o.profile, path)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, domain.NewRoutingError(err, "OSRM table request failed for profile \"%s\"", o.profile)
	}
	defer resp.Body.Close()

	var tr osrmTableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, domain.NewRoutingError(err, "decode OSRM table response")
	}
	if tr.Code != "Ok" {
		return nil, domain.NewRoutingError(nil, "OSRM table error: %s (%s)", tr.Code, tr.Message)
	}

	return durationsToMatrix(tr.Durations, len(locations))
}

// durationsToMatrix validates a backend duration table and rounds it into
// a cost matrix. Null entries mean the backend found no route between a
// pair, which the core treats as malformed data.
func durationsToMatrix(durations [][]*float64, n int) (domain.Matrix, error) {
	if len(durations) != n {
		return nil, domain.NewRoutingError(nil, "matrix of unexpected size %d, expected %d", len(durations), n)
	}

	m := domain.NewMatrix(n)
	for i, row := range durations {
		if len(row) != n {
			return nil, domain.NewRoutingError(nil, "matrix row of unexpected size %d, expected %d", len(row), n)
		}
		for j, d := range row {
			if d == nil {
				return nil, domain.NewRoutingError(nil, "no route between locations %d and %d", i, j)
			}
			m[i][j] = domain.Cost(math.Round(*d))
		}
	}
	return m, nil
}

type osrmRouteResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Geometry string  `json:"geometry"`
		Legs     []struct {
			Distance float64 `json:"distance"`
		} `json:"legs"`
	} `json:"routes"`
}

func (o *osrmRouter) AddRouteInfo(ctx context.Context, route *domain.Route) error {
	locations := stepLocations(route)
	if len(locations) < 2 {
		return nil
	}

	path, err := coordsPath(locations)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%s?alternatives=false&steps=false&overview=full&continue_straight=false",
		o.baseURL, o.profile, path,
	)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.NewRoutingError(err, "OSRM route request failed for profile \"%s\"", o.profile)
	}
	defer resp.Body.Close()

	var rr osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return domain.NewRoutingError(err, "decode OSRM route response")
	}
	if rr.Code != "Ok" || len(rr.Routes) == 0 {
		return domain.NewRoutingError(nil, "OSRM route error: %s (%s)", rr.Code, rr.Message)
	}

	r := rr.Routes[0]
	if len(r.Legs) != len(locations)-1 {
		return domain.NewRoutingError(nil, "unexpected number of route legs: %d", len(r.Legs))
	}

	legDistances := make([]float64, len(r.Legs))
	for i, leg := range r.Legs {
		legDistances[i] = leg.Distance
	}
	applyRouteInfo(route, r.Distance, r.Geometry, legDistances)

	return nil
}

// stepLocations lists the located steps of a route, in order.
func stepLocations(route *domain.Route) []domain.Location {
	out := make([]domain.Location, 0, len(route.Steps))
	for _, s := range route.Steps {
		if s.Type == domain.StepBreak {
			continue
		}
		out = append(out, s.Location)
	}
	return out
}

// applyRouteInfo stores total and cumulative per-step distances plus the
// backend geometry on a route.
func applyRouteInfo(route *domain.Route, distance float64, geometry string, legDistances []float64) {
	route.Distance = int64(math.Round(distance))
	route.Geometry = geometry

	cumulated := 0.0
	leg := 0
	for i := range route.Steps {
		if route.Steps[i].Type == domain.StepBreak {
			route.Steps[i].Distance = int64(math.Round(cumulated))
			continue
		}
		if i > 0 && leg < len(legDistances) {
			cumulated += legDistances[leg]
			leg++
		}
		route.Steps[i].Distance = int64(math.Round(cumulated))
	}
}
