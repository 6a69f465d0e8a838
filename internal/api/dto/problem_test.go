package dto

import (
	"testing"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/services"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.NewInputError("bad input"), 2},
		{domain.NewRoutingError(nil, "backend down"), 3},
		{domain.NewInternalError("overflow"), 1},
	}

	for _, c := range cases {
		if got := ErrorCode(c.err); got != c.want {
			t.Errorf("ErrorCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestApplyRequiresVehicles(t *testing.T) {
	in := services.New(services.Options{})

	err := Problem{}.Apply(in)
	if err == nil {
		t.Fatal("expected error without vehicles")
	}
	if ErrorCode(err) != 2 {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestApplyRequiresTasks(t *testing.T) {
	in := services.New(services.Options{})

	start := 0
	p := Problem{Vehicles: []Vehicle{{ID: 1, StartIndex: &start}}}
	err := p.Apply(in)
	if err == nil {
		t.Fatal("expected error without jobs or shipments")
	}
}

func TestApplyBuildsShipments(t *testing.T) {
	in := services.New(services.Options{})

	idx := func(i int) *int { return &i }

	p := Problem{
		Shipments: []Shipment{{
			Amount:   []int64{2},
			Pickup:   ShipmentStep{ID: 1, LocationIndex: idx(1)},
			Delivery: ShipmentStep{ID: 2, LocationIndex: idx(2)},
		}},
		Vehicles: []Vehicle{{ID: 1, StartIndex: idx(0), Capacity: []int64{4}}},
		Matrices: map[string]Matrix{"car": {Durations: [][]uint32{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}}}},
	}

	if err := p.Apply(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jobs := in.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}
	if jobs[0].Type != domain.JobPickup || jobs[1].Type != domain.JobDelivery {
		t.Fatalf("job types = %v, %v", jobs[0].Type, jobs[1].Type)
	}
	if !jobs[0].Pickup.Equal(domain.Amount{2}) || !jobs[1].Delivery.Equal(domain.Amount{2}) {
		t.Fatal("shipment amounts not propagated")
	}
}
