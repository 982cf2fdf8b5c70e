package problems

import "math"

const nbodySoftening = 1e-4

// nbody is the gravitational N-body problem, adapted from the teacher's
// problems/mbody.go: state per body is packed as (x, y, z, vx, vy, vz),
// so N() == 6*len(mass).
type nbody struct {
	mass []float64
}

// NewNBody returns a gravitational N-body Problem with n bodies placed
// on a ring, following the teacher's mbody initialization (mass and
// orbital-radius modulation by the same cosine terms).
func NewNBody(n int) Problem {
	m := &nbody{mass: make([]float64, n)}
	rf1 := 4 * math.Pi / 8
	for i := range m.mass {
		ip := float64(i + 1)
		m.mass[i] = (0.3 + 0.1*(math.Cos(ip*rf1)+1.0)) / float64(n)
	}
	return m
}

func (m *nbody) Name() string { return "n-body" }
func (m *nbody) N() int       { return 6 * len(m.mass) }

func (m *nbody) Initialize() []float64 {
	n := len(m.mass)
	y0 := make([]float64, n*6)

	rf2 := 2 * math.Pi / float64(n)
	for i := range m.mass {
		i1 := float64(i + 1)
		rad := 1.7 + math.Cos(i1*0.75)
		v := 0.22 * math.Sqrt(rad)
		ci := math.Cos(i1 * rf2)
		si := math.Sin(i1 * rf2)

		ip := 6 * i
		y0[ip] = rad * ci
		y0[ip+1] = rad * si
		y0[ip+2] = 0.4 * si
		y0[ip+3] = -v * si
		y0[ip+4] = v * ci
		y0[ip+5] = 0
	}
	return y0
}

func (m *nbody) Fcn(t float64, p, y, dyOut []float64) {
	for i := range m.mass {
		ip := 6 * i
		dyOut[ip] = y[ip+3]
		dyOut[ip+1] = y[ip+4]
		dyOut[ip+2] = y[ip+5]

		var f1, f2, f3 float64
		for j := range m.mass {
			if i == j {
				continue
			}
			jp := 6 * j
			dist := nbodySoftening + math.Pow(y[ip]-y[jp], 2) + math.Pow(y[ip+1]-y[jp+1], 2) + math.Pow(y[ip+2]-y[jp+2], 2)
			dist = m.mass[j] / (dist * math.Sqrt(dist))
			f1 += (y[jp] - y[ip]) * dist
			f2 += (y[jp+1] - y[ip+1]) * dist
			f3 += (y[jp+2] - y[ip+2]) * dist
		}

		dyOut[ip+3] = f1
		dyOut[ip+4] = f2
		dyOut[ip+5] = f3
	}
}
