package spatial

import "math"

// DefaultGridSize is the density grid cell size in degrees
const DefaultGridSize = 0.05

// GridKey identifies a lon/lat grid cell by its integer indices
type GridKey struct {
	X int64
	Y int64
}

// GridKeyFor returns the cell containing (lon, lat) for the given cell size in degrees.
// A non-positive size falls back to DefaultGridSize.
func GridKeyFor(lon, lat, size float64) GridKey {
	if size <= 0 {
		size = DefaultGridSize
	}
	return GridKey{
		X: int64(math.Floor(lon / size)),
		Y: int64(math.Floor(lat / size)),
	}
}

// Origin returns the south-west corner of the cell in degrees
func (k GridKey) Origin(size float64) (lon, lat float64) {
	if size <= 0 {
		size = DefaultGridSize
	}
	return float64(k.X) * size, float64(k.Y) * size
}
