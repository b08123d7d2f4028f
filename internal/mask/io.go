package mask

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"course-tracer/pkg/geometry"
)

// Meta is the JSON metadata record persisted per mask.
type Meta struct {
	ID     string           `json:"id"`
	Bounds geometry.RectInt `json:"bounds"`
	Score  float64          `json:"score"`
	File   string           `json:"file"`
}

const (
	metaFile  = "masks.json"
	rasterDir = "masks"
)

// SaveAll writes each mask raster as a PNG under <dir>/masks/ and the
// metadata index to <dir>/masks.json. Masks are written in id order.
func SaveAll(dir string, masks []*RawMask) error {
	if err := os.MkdirAll(filepath.Join(dir, rasterDir), 0755); err != nil {
		return fmt.Errorf("create mask dir: %w", err)
	}

	metas := make([]Meta, 0, len(masks))
	for _, m := range masks {
		rel := filepath.Join(rasterDir, m.ID+".png")
		if err := imaging.Save(m.ToGray(), filepath.Join(dir, rel)); err != nil {
			return fmt.Errorf("save mask %s: %w", m.ID, err)
		}
		metas = append(metas, Meta{ID: m.ID, Bounds: m.Bounds, Score: m.Score, File: rel})
	}

	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mask metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, metaFile), data, 0644)
}

// LoadAll reads the metadata index and every mask raster back from dir.
func LoadAll(dir string) ([]*RawMask, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, err
	}
	var metas []Meta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("unmarshal mask metadata: %w", err)
	}

	masks := make([]*RawMask, 0, len(metas))
	for _, meta := range metas {
		img, err := imaging.Open(filepath.Join(dir, meta.File))
		if err != nil {
			return nil, fmt.Errorf("open mask raster %s: %w", meta.ID, err)
		}
		masks = append(masks, FromGray(meta.ID, toGray(img), meta.Bounds, meta.Score))
	}
	return masks, nil
}

// toGray converts any decoded image to grayscale.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
