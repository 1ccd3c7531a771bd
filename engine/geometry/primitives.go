package geometry

import (
	"math"
)

var icosahedronIndices = [...]uint32{
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}

func icosahedronVertices() [12][3]float64 {
	t := (1 + math.Sqrt(5)) / 2
	return [12][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
}

// NewIcosahedron builds an icosahedron of the given radius. Each face is subdivided into
// (detail+1)^2 triangles and every vertex is projected back onto the sphere, so detail 0
// yields the 20-face solid and higher values approach a sphere. Negative detail is treated as 0.
//
// Parameters:
//   - radius: distance of every vertex from the origin
//   - detail: subdivision level
//   - options: functional options to configure the geometry
//
// Returns:
//   - Geometry: the generated geometry
func NewIcosahedron(radius float32, detail int, options ...GeometryBuilderOption) Geometry {
	detail = max(detail, 0)
	base := icosahedronVertices()
	w := newWelder(radius)

	cols := detail + 1
	indices := make([]uint32, 0, 20*cols*cols*3)
	for f := 0; f < len(icosahedronIndices); f += 3 {
		a := base[icosahedronIndices[f]]
		b := base[icosahedronIndices[f+1]]
		c := base[icosahedronIndices[f+2]]

		// grid[i][j] walks from edge a-b (i = 0) towards the apex c (i = cols).
		grid := make([][]uint32, cols+1)
		for i := 0; i <= cols; i++ {
			aj := lerp3(a, c, float64(i)/float64(cols))
			bj := lerp3(b, c, float64(i)/float64(cols))
			rows := cols - i
			grid[i] = make([]uint32, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i][j] = w.add(aj)
				} else {
					grid[i][j] = w.add(lerp3(aj, bj, float64(j)/float64(rows)))
				}
			}
		}

		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					indices = append(indices, grid[i][k+1], grid[i+1][k], grid[i][k])
				} else {
					indices = append(indices, grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
				}
			}
		}
	}
	return newGeometry(KindIcosahedron, w.positions, indices, options...)
}

// NewSphere builds a UV sphere with the given number of longitudinal (width) and latitudinal
// (height) segments. Width is clamped to at least 3 and height to at least 2.
//
// Parameters:
//   - radius: sphere radius
//   - widthSegments: number of horizontal segments
//   - heightSegments: number of vertical segments
//   - options: functional options to configure the geometry
//
// Returns:
//   - Geometry: the generated geometry
func NewSphere(radius float32, widthSegments, heightSegments int, options ...GeometryBuilderOption) Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	r := float64(radius)

	positions := make([]float32, 0, (widthSegments+1)*(heightSegments+1)*3)
	grid := make([][]uint32, heightSegments+1)
	var next uint32
	for iy := 0; iy <= heightSegments; iy++ {
		theta := float64(iy) / float64(heightSegments) * math.Pi
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			phi := float64(ix) / float64(widthSegments) * 2 * math.Pi
			positions = append(positions,
				float32(-r*math.Cos(phi)*math.Sin(theta)),
				float32(r*math.Cos(theta)),
				float32(r*math.Sin(phi)*math.Sin(theta)),
			)
			row[ix] = next
			next++
		}
		grid[iy] = row
	}

	indices := make([]uint32, 0, widthSegments*heightSegments*6)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return newGeometry(KindSphere, positions, indices, options...)
}

// NewPlane builds a single-segment plane of the given size, centred on the origin in the XY plane.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - options: functional options to configure the geometry
//
// Returns:
//   - Geometry: the generated geometry
func NewPlane(width, height float32, options ...GeometryBuilderOption) Geometry {
	hw, hh := width/2, height/2
	positions := []float32{
		-hw, hh, 0,
		hw, hh, 0,
		-hw, -hh, 0,
		hw, -hh, 0,
	}
	indices := []uint32{0, 2, 1, 2, 3, 1}
	return newGeometry(KindPlane, positions, indices, options...)
}

// welder merges vertices that land on the same projected point so shared edges share indices.
type welder struct {
	radius    float64
	positions []float32
	lookup    map[[3]int64]uint32
}

func newWelder(radius float32) *welder {
	return &welder{radius: float64(radius), lookup: make(map[[3]int64]uint32)}
}

func (w *welder) add(v [3]float64) uint32 {
	l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l > 0 {
		v = [3]float64{v[0] / l * w.radius, v[1] / l * w.radius, v[2] / l * w.radius}
	}
	const q = 1e5
	key := [3]int64{int64(math.Round(v[0] * q)), int64(math.Round(v[1] * q)), int64(math.Round(v[2] * q))}
	if idx, ok := w.lookup[key]; ok {
		return idx
	}
	idx := uint32(len(w.positions) / 3)
	w.positions = append(w.positions, float32(v[0]), float32(v[1]), float32(v[2]))
	w.lookup[key] = idx
	return idx
}

func lerp3(a, b [3]float64, t float64) [3]float64 {
	return [3]float64{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
