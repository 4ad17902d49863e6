package labels

import "math"

// Area returns the absolute area of the polygon via the shoelace formula,
// in normalized units (1.0 = full image). Polygons with fewer than 3 points
// have zero area.
func Area(polygon []Point) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	for i, p := range polygon {
		q := polygon[(i+1)%len(polygon)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(sum) / 2
}

// BoundingBox returns the axis-aligned bounds (minX, minY, maxX, maxY) of
// the polygon. An empty polygon returns all zeros.
func BoundingBox(polygon []Point) (minX, minY, maxX, maxY float64) {
	if len(polygon) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = polygon[0].X, polygon[0].Y
	maxX, maxY = minX, minY
	for _, p := range polygon[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
