package feature

import (
	"image"
	"runtime"
	"sort"
	"sync"

	"course-tracer/internal/mask"
	"course-tracer/pkg/geometry"
)

// ExtractAll runs Extract over every mask on a bounded worker pool.
// Each result lands in the slot for its own mask, and the output is sorted
// by mask id, so completion order never influences the artifact.
func ExtractAll(img image.Image, masks []*mask.RawMask, greens []geometry.Point2D, workers int) []Vector {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	centers := make([]geometry.Point2D, len(masks))
	for i, m := range masks {
		centers[i] = m.Bounds.Center()
	}
	b := img.Bounds()
	imageArea := float64(b.Dx() * b.Dy())

	vectors := make([]Vector, len(masks))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				vectors[i] = Extract(img, masks[i], Context{
					Centers:      centers,
					Self:         i,
					GreenCenters: greens,
					ImageArea:    imageArea,
				})
			}
		}()
	}
	for i := range masks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.Slice(vectors, func(i, j int) bool {
		return vectors[i].MaskID < vectors[j].MaskID
	})
	return vectors
}
