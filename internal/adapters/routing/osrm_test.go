package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sgvandijk/vroom/internal/domain"
)

func testServer(t *testing.T, handler http.HandlerFunc) Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	return Server{Host: u.Hostname(), Port: u.Port()}
}

func locs(coords ...[2]float64) []domain.Location {
	out := make([]domain.Location, 0, len(coords))
	for _, c := range coords {
		out = append(out, domain.NewLocationCoords(domain.Coordinates{Lon: c[0], Lat: c[1]}))
	}
	return out
}

func TestOSRMGetMatrix(t *testing.T) {
	var gotPath string
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"Ok","durations":[[0,12.4],[11.6,0]]}`))
	})

	router := newOSRM("car", s)
	m, err := router.GetMatrix(context.Background(), locs([2]float64{2.35, 48.86}, [2]float64{2.36, 48.85}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/table/v1/car/") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if m.Size() != 2 {
		t.Fatalf("matrix size = %d, want 2", m.Size())
	}
	if m[0][1] != 12 {
		t.Fatalf("m[0][1] = %d, want 12 (rounded)", m[0][1])
	}
	if m[1][0] != 12 {
		t.Fatalf("m[1][0] = %d, want 12 (rounded)", m[1][0])
	}
}

func TestOSRMGetMatrixNullEntry(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"Ok","durations":[[0,null],[10,0]]}`))
	})

	router := newOSRM("car", s)
	_, err := router.GetMatrix(context.Background(), locs([2]float64{0, 0}, [2]float64{1, 1}))
	if err == nil {
		t.Fatal("expected error for unreachable pair")
	}

	var routingErr *domain.RoutingError
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected RoutingError, got %T: %v", err, err)
	}
}

func TestOSRMGetMatrixBadCode(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"InvalidQuery","message":"bad request"}`))
	})

	router := newOSRM("car", s)
	_, err := router.GetMatrix(context.Background(), locs([2]float64{0, 0}))
	if err == nil {
		t.Fatal("expected error for non-Ok code")
	}

	var routingErr *domain.RoutingError
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected RoutingError, got %T: %v", err, err)
	}
}

func TestOSRMAddRouteInfo(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":1530.4,"geometry":"abc123","legs":[{"distance":1530.4}]}]}`))
	})

	router := newOSRM("car", s)

	route := &domain.Route{
		Steps: []domain.SolutionStep{
			{Type: domain.StepStart, Location: domain.NewLocationCoords(domain.Coordinates{Lon: 0, Lat: 0})},
			{Type: domain.StepJob, Location: domain.NewLocationCoords(domain.Coordinates{Lon: 1, Lat: 1})},
		},
	}

	if err := router.AddRouteInfo(context.Background(), route); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if route.Distance != 1530 {
		t.Fatalf("distance = %d, want 1530", route.Distance)
	}
	if route.Geometry != "abc123" {
		t.Fatalf("geometry = %q", route.Geometry)
	}
	if route.Steps[0].Distance != 0 || route.Steps[1].Distance != 1530 {
		t.Fatalf("step distances = %d, %d", route.Steps[0].Distance, route.Steps[1].Distance)
	}
}

func TestORSGetMatrix(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v2/matrix/") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"durations":[[0,60.2],[59.8,0]]}`))
	})

	router := newORS("driving-car", s)
	m, err := router.GetMatrix(context.Background(), locs([2]float64{0, 0}, [2]float64{1, 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m[0][1] != 60 || m[1][0] != 60 {
		t.Fatalf("m = %v, want rounded 60s", m)
	}
}

func TestNewRequiresServer(t *testing.T) {
	_, err := New(OSRM, "bike", map[string]Server{"car": {Host: "localhost", Port: "5000"}})
	if err == nil {
		t.Fatal("expected error for missing server entry")
	}

	var inputErr *domain.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %T: %v", err, err)
	}
}

func TestNewLibOSRMUnavailable(t *testing.T) {
	_, err := New(LibOSRM, "car", nil)
	if err == nil {
		t.Fatal("expected error without libosrm support")
	}

	var inputErr *domain.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %T: %v", err, err)
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(Kind("teleport"), "car", map[string]Server{"car": {}})
	if err == nil {
		t.Fatal("expected error for unknown engine")
	}
}
