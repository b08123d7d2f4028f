package course

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGreenCenters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greens.json")

	body := `[{"hole": 1, "x": 1234, "y": 567}, {"hole": 2, "x": 400, "y": 900}]`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	greens, err := LoadGreenCenters(path)
	if err != nil {
		t.Fatalf("LoadGreenCenters: %v", err)
	}
	if len(greens) != 2 {
		t.Fatalf("loaded %d centers, want 2", len(greens))
	}
	if greens[0].Hole != 1 || greens[0].X != 1234 || greens[0].Y != 567 {
		t.Errorf("first center = %+v", greens[0])
	}

	pts := Points(greens)
	if len(pts) != 2 || pts[1].X != 400 {
		t.Errorf("Points = %v", pts)
	}
}

func TestLoadGreenCentersRejectsBadHole(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greens.json")
	if err := os.WriteFile(path, []byte(`[{"hole": 98, "x": 1, "y": 2}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGreenCenters(path); err == nil {
		t.Error("pseudo-holes have no green center; hole 98 should be rejected")
	}
}
