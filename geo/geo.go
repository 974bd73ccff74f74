package geo

import (
	"math"

	"github.com/paulmach/orb"
)

//*******************************************
// point
//*******************************************

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

func (self Point) Distance(other Point) float64 {
	dx := other.X - self.X
	dy := other.Y - self.Y
	dz := other.Z - self.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Planar projection used by the spatial index.
func (self Point) ToOrb() orb.Point {
	return orb.Point{self.X, self.Y}
}

//*******************************************
// quantized key
//*******************************************

// Fixed-point scale used for every spatial key, 3 decimal places.
const KEY_SCALE = 1000.0

// PointKey is the fixed-precision representation of a Point used wherever
// points act as map keys (graph nodes, cache keys). Two points are the same
// key iff their coordinates match after quantization to 3 decimal places.
type PointKey struct {
	X int32
	Y int32
	Z int32
}

func (self Point) Key() PointKey {
	return PointKey{
		X: int32(self.X * KEY_SCALE),
		Y: int32(self.Y * KEY_SCALE),
		Z: int32(self.Z * KEY_SCALE),
	}
}

func (self PointKey) Point() Point {
	return Point{
		X: float64(self.X) / KEY_SCALE,
		Y: float64(self.Y) / KEY_SCALE,
		Z: float64(self.Z) / KEY_SCALE,
	}
}
