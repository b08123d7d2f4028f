package geometry

import "math"

// A Ring is a closed polygon boundary. The closing edge from the last
// vertex back to the first is implicit.
type Ring []Point2D

// SignedArea returns the shoelace area of the ring. Positive for
// clockwise rings in image coordinates (y grows downward).
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < len(r); i++ {
		j := (i + 1) % len(r)
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// Area returns the absolute enclosed area.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// Perimeter returns the total boundary length, including the closing edge.
func (r Ring) Perimeter() float64 {
	if len(r) < 2 {
		return 0
	}
	var total float64
	for i := 0; i < len(r); i++ {
		j := (i + 1) % len(r)
		total += r[i].Distance(r[j])
	}
	return total
}

// IsClockwise reports the winding direction in image coordinates.
func (r Ring) IsClockwise() bool {
	return r.SignedArea() > 0
}

// Reversed returns a copy of the ring with opposite winding. The first
// vertex stays first so canonical start points survive reversal.
func (r Ring) Reversed() Ring {
	if len(r) == 0 {
		return nil
	}
	out := make(Ring, len(r))
	out[0] = r[0]
	for i := 1; i < len(r); i++ {
		out[i] = r[len(r)-i]
	}
	return out
}

// Centroid returns the area-weighted centroid of the ring. Falls back to
// the vertex average when the ring is degenerate (near-zero area).
func (r Ring) Centroid() Point2D {
	a := r.SignedArea()
	if math.Abs(a) < 1e-9 {
		return Centroid(r)
	}
	var cx, cy float64
	for i := 0; i < len(r); i++ {
		j := (i + 1) % len(r)
		cross := r[i].X*r[j].Y - r[j].X*r[i].Y
		cx += (r[i].X + r[j].X) * cross
		cy += (r[i].Y + r[j].Y) * cross
	}
	return Point2D{X: cx / (6 * a), Y: cy / (6 * a)}
}

// Bounds returns the axis-aligned bounding box of the ring.
func (r Ring) Bounds() Rect {
	return BoundingBox(r)
}

// Contains tests whether a point is inside the ring using ray casting.
func (r Ring) Contains(p Point2D) bool {
	if len(r) < 3 {
		return false
	}
	inside := false
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := r[i], r[j]
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return inside
}

// SelfIntersects reports whether any two non-adjacent edges of the ring
// cross each other.
func (r Ring) SelfIntersects() bool {
	n := len(r)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1 := r[i]
		a2 := r[(i+1)%n]
		for j := i + 2; j < n; j++ {
			// Skip edges sharing a vertex (adjacent, or first/last pair).
			if i == 0 && j == n-1 {
				continue
			}
			b1 := r[j]
			b2 := r[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// Simplify reduces the vertex count using the Douglas-Peucker algorithm.
// Vertices deviating less than epsilon from the simplified line are
// discarded. The first vertex is always retained, so a canonical start
// point survives simplification.
func (r Ring) Simplify(epsilon float64) Ring {
	if len(r) <= 3 || epsilon <= 0 {
		return r
	}
	// Treat the ring as an open path that ends where it starts, then drop
	// the duplicated endpoint.
	path := make([]Point2D, len(r)+1)
	copy(path, r)
	path[len(r)] = r[0]
	simplified := simplifyPath(path, epsilon)
	if len(simplified) > 1 && simplified[0] == simplified[len(simplified)-1] {
		simplified = simplified[:len(simplified)-1]
	}
	return Ring(simplified)
}

// simplifyPath reduces the number of vertices using Douglas-Peucker.
func simplifyPath(path []Point2D, epsilon float64) []Point2D {
	if len(path) <= 2 {
		return path
	}

	// Find point with maximum distance from line between first and last points
	dmax := 0.0
	index := 0
	end := len(path) - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(path[i], path[0], path[end])
		if d > dmax {
			dmax = d
			index = i
		}
	}

	if dmax > epsilon {
		left := simplifyPath(path[:index+1], epsilon)
		right := simplifyPath(path[index:], epsilon)

		// Build result (avoid duplicating middle point)
		result := make([]Point2D, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	return []Point2D{path[0], path[end]}
}

// perpendicularDistance calculates the perpendicular distance from point p to line a-b.
func perpendicularDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx == 0 && dy == 0 {
		return p.Distance(a)
	}

	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	den := math.Sqrt(dx*dx + dy*dy)
	return num / den
}

// segmentsCross reports a proper crossing between segments a1-a2 and b1-b2.
// Touching at endpoints does not count.
func segmentsCross(a1, a2, b1, b2 Point2D) bool {
	d1 := crossProduct(b1, b2, a1)
	d2 := crossProduct(b1, b2, a2)
	d3 := crossProduct(a1, a2, b1)
	d4 := crossProduct(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
