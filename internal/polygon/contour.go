package polygon

import (
	"course-tracer/internal/mask"
	"course-tracer/pkg/geometry"
)

// Bitmap is a small binary raster used for contour tracing and repair.
type Bitmap struct {
	W, H int
	Bits []bool
}

// NewBitmap creates an empty bitmap.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{W: w, H: h, Bits: make([]bool, w*h)}
}

// At reports the pixel state; out-of-range reads are background.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return false
	}
	return b.Bits[y*b.W+x]
}

// Set marks a pixel.
func (b *Bitmap) Set(x, y int) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.Bits[y*b.W+x] = true
}

// Count returns the number of set pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Bits {
		if v {
			n++
		}
	}
	return n
}

// bitmapFromMask crops the mask raster into a local bitmap. The returned
// offset translates bitmap coordinates back into image coordinates.
func bitmapFromMask(m *mask.RawMask) (*Bitmap, geometry.PointInt) {
	b := NewBitmap(m.Bounds.Width, m.Bounds.Height)
	for y := 0; y < m.Bounds.Height; y++ {
		for x := 0; x < m.Bounds.Width; x++ {
			if m.At(m.Bounds.X+x, m.Bounds.Y+y) {
				b.Bits[y*b.W+x] = true
			}
		}
	}
	return b, geometry.PointInt{X: m.Bounds.X, Y: m.Bounds.Y}
}

// Contour is one traced component: a clockwise exterior ring plus any
// counter-clockwise interior hole rings.
type Contour struct {
	Exterior geometry.Ring
	Holes    []geometry.Ring
}

// mooreDirs enumerates the 8-neighborhood clockwise starting west.
var mooreDirs = [8]geometry.PointInt{
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
}

// TraceContours extracts every 8-connected foreground component of the
// bitmap as a contour. Components are returned in scan order; each
// exterior trace starts at the component's topmost-then-leftmost boundary
// pixel and winds clockwise, so geometrically identical rasters always
// yield identical coordinate sequences.
func TraceContours(b *Bitmap) []Contour {
	labels := labelComponents(b)

	// Component ids in first-appearance (scan) order.
	var order []int
	seen := map[int]bool{}
	for _, l := range labels {
		if l > 0 && !seen[l] {
			seen[l] = true
			order = append(order, l)
		}
	}

	cavities := findCavities(b)

	var contours []Contour
	for _, id := range order {
		ring := traceBoundary(b, labels, id)
		if len(ring) == 0 {
			continue
		}
		c := Contour{Exterior: ring}
		for _, cav := range cavities {
			if cav.owner == id {
				// Hole rings wind counter-clockwise.
				c.Holes = append(c.Holes, cav.ring.Reversed())
			}
		}
		contours = append(contours, c)
	}
	return contours
}

// labelComponents labels 8-connected foreground components in scan order.
func labelComponents(b *Bitmap) []int {
	labels := make([]int, b.W*b.H)
	next := 0
	for start := range b.Bits {
		if !b.Bits[start] || labels[start] != 0 {
			continue
		}
		next++
		stack := []int{start}
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if labels[idx] != 0 {
				continue
			}
			labels[idx] = next
			x, y := idx%b.W, idx/b.W
			for _, d := range mooreDirs {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= b.W || ny >= b.H {
					continue
				}
				nIdx := ny*b.W + nx
				if b.Bits[nIdx] && labels[nIdx] == 0 {
					stack = append(stack, nIdx)
				}
			}
		}
	}
	return labels
}

// traceBoundary walks the outer boundary of one labeled component with
// Moore-neighbor tracing. Start pixel is topmost-then-leftmost; winding is
// clockwise in image coordinates.
func traceBoundary(b *Bitmap, labels []int, id int) geometry.Ring {
	start := -1
	for idx, l := range labels {
		if l == id {
			start = idx
			break
		}
	}
	if start < 0 {
		return nil
	}

	sx, sy := start%b.W, start/b.W
	isSet := func(x, y int) bool {
		if x < 0 || y < 0 || x >= b.W || y >= b.H {
			return false
		}
		return labels[y*b.W+x] == id
	}

	// Isolated pixel: a degenerate one-point ring, filtered later by the
	// minimum-area check.
	alone := true
	for _, d := range mooreDirs {
		if isSet(sx+d.X, sy+d.Y) {
			alone = false
			break
		}
	}
	if alone {
		return geometry.Ring{{X: float64(sx), Y: float64(sy)}}
	}

	ring := geometry.Ring{{X: float64(sx), Y: float64(sy)}}
	px, py := sx, sy // current pixel
	dir := 0         // index into mooreDirs of the backtrack direction

	maxSteps := 4 * (b.W*b.H + 4)
	for step := 0; step < maxSteps; step++ {
		found := false
		// Scan clockwise from the backtrack direction.
		for i := 1; i <= 8; i++ {
			d := (dir + i) % 8
			nx, ny := px+mooreDirs[d].X, py+mooreDirs[d].Y
			if isSet(nx, ny) {
				px, py = nx, ny
				// New backtrack: the direction pointing at the previous
				// (background) neighbor, i.e. one step counter-clockwise.
				dir = (d + 5) % 8
				found = true
				break
			}
		}
		if !found {
			break
		}
		if px == sx && py == sy {
			break
		}
		ring = append(ring, geometry.Point2D{X: float64(px), Y: float64(py)})
	}
	return ring
}

// cavity is an enclosed background region inside a foreground component.
type cavity struct {
	owner int
	ring  geometry.Ring
}

// findCavities locates background regions not reachable from the bitmap
// border and traces each as a ring, attributed to the enclosing component.
func findCavities(b *Bitmap) []cavity {
	outside := make([]bool, b.W*b.H)
	var stack []int
	for x := 0; x < b.W; x++ {
		stack = append(stack, x, (b.H-1)*b.W+x)
	}
	for y := 0; y < b.H; y++ {
		stack = append(stack, y*b.W, y*b.W+b.W-1)
	}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if outside[idx] || b.Bits[idx] {
			continue
		}
		outside[idx] = true
		x, y := idx%b.W, idx/b.W
		if x > 0 {
			stack = append(stack, idx-1)
		}
		if x < b.W-1 {
			stack = append(stack, idx+1)
		}
		if y > 0 {
			stack = append(stack, idx-b.W)
		}
		if y < b.H-1 {
			stack = append(stack, idx+b.W)
		}
	}

	labels := labelComponents(b)

	// Label enclosed background (cavity) components in scan order.
	cavityLabels := make([]int, b.W*b.H)
	next := 0
	var cavities []cavity
	for start := range b.Bits {
		if b.Bits[start] || outside[start] || cavityLabels[start] != 0 {
			continue
		}
		next++
		comp := NewBitmap(b.W, b.H)
		stack = stack[:0]
		stack = append(stack, start)
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if cavityLabels[idx] != 0 || b.Bits[idx] || outside[idx] {
				continue
			}
			cavityLabels[idx] = next
			comp.Set(idx%b.W, idx/b.W)
			x, y := idx%b.W, idx/b.W
			if x > 0 {
				stack = append(stack, idx-1)
			}
			if x < b.W-1 {
				stack = append(stack, idx+1)
			}
			if y > 0 {
				stack = append(stack, idx-b.W)
			}
			if y < b.H-1 {
				stack = append(stack, idx+b.W)
			}
		}

		// Owner: the foreground pixel directly above the cavity's
		// topmost-leftmost pixel.
		owner := 0
		sx, sy := start%b.W, start/b.W
		if sy > 0 {
			owner = labels[(sy-1)*b.W+sx]
		}

		compLabels := labelComponents(comp)
		ring := traceBoundary(comp, compLabels, 1)
		if len(ring) >= 3 && owner > 0 {
			cavities = append(cavities, cavity{owner: owner, ring: ring})
		}
	}
	return cavities
}
