package services

import (
	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/solver"
)

// setCompatibility derives the two read-only compatibility tables the
// solver prunes with: vehicle-to-job under skills, capacity and (when
// time windows are present) TW feasibility on an empty route, and
// vehicle-to-vehicle as "some job is compatible with both".
func (in *Input) setCompatibility() {
	nbV := len(in.vehicles)
	nbJ := len(in.jobs)

	vj := make([][]bool, nbV)
	for v := range vj {
		row := make([]bool, nbJ)
		for j := range row {
			row[j] = true
		}
		vj[v] = row
	}

	if in.hasSkills {
		for v := range in.vehicles {
			for j := range in.jobs {
				vj[v][j] = in.vehicles[v].Skills.Contains(in.jobs[j].Skills)
			}
		}
	}

	for v := range in.vehicles {
		vehicle := in.vehicles[v]
		m := in.matrices[vehicle.Profile]

		for j := 0; j < nbJ; j++ {
			switch in.jobs[j].Type {
			case domain.JobDelivery:
				// Evaluated with its pickup at rank j-1.
				continue
			case domain.JobPickup:
				ok := vj[v][j] && vj[v][j+1]
				seq := []int{j, j + 1}
				ok = ok && solver.CapacityFeasible(in, vehicle, seq)
				if ok && in.hasTW {
					ok = solver.TWFeasible(in, vehicle, m, seq)
				}
				vj[v][j] = ok
				vj[v][j+1] = ok
			default:
				ok := vj[v][j]
				seq := []int{j}
				ok = ok && solver.CapacityFeasible(in, vehicle, seq)
				if ok && in.hasTW {
					ok = solver.TWFeasible(in, vehicle, m, seq)
				}
				vj[v][j] = ok
			}
		}
	}

	vv := make([][]bool, nbV)
	for v := range vv {
		vv[v] = make([]bool, nbV)
		vv[v][v] = true
	}
	for v1 := 0; v1 < nbV; v1++ {
		for v2 := v1 + 1; v2 < nbV; v2++ {
			ok := false
			for j := 0; j < nbJ; j++ {
				if vj[v1][j] && vj[v2][j] {
					ok = true
					break
				}
			}
			vv[v1][v2] = ok
			vv[v2][v1] = ok
		}
	}

	in.compatVJ = vj
	in.compatVV = vv
}
