package tower

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jengatower/pkg/severity"
)

func pkg(name string, sev severity.Severity) severity.PackageVulnerability {
	p := severity.PackageVulnerability{PackageName: name, Version: "1.0.0", MaxSeverity: sev}
	if sev.Vulnerable() {
		p.Vulnerabilities = []severity.Vulnerability{{ID: "GHSA-" + name, Severity: sev}}
	}
	return p
}

func TestLayerCounts(t *testing.T) {
	tests := []struct {
		name             string
		vulnerable, safe int
		wantMiddle       int
		wantTotal        int
	}{
		{"empty", 0, 0, 1, 3},
		{"one critical three safe", 1, 3, 2, 4},
		{"safe fits beside vulnerable", 2, 4, 2, 4},
		{"only safe", 0, 7, 4, 6},
		{"only vulnerable", 5, 0, 5, 7},
		{"leftover safe rounds up", 1, 6, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middle, total := LayerCounts(tt.vulnerable, tt.safe)
			if middle != tt.wantMiddle || total != tt.wantTotal {
				t.Errorf("LayerCounts(%d, %d) = %d, %d, want %d, %d",
					tt.vulnerable, tt.safe, middle, total, tt.wantMiddle, tt.wantTotal)
			}
		})
	}
}

func TestGenerateOneCriticalThreeSafe(t *testing.T) {
	pkgs := []severity.PackageVulnerability{
		pkg("crit", severity.Critical),
		pkg("a", severity.Safe),
		pkg("b", severity.Safe),
		pkg("c", severity.Safe),
	}
	l := Generate(pkgs)

	if l.Layers != 4 {
		t.Fatalf("Layers = %d, want 4", l.Layers)
	}
	if len(l.Blocks) != 12 {
		t.Fatalf("blocks = %d, want 12", len(l.Blocks))
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	for _, layer := range []int{0, 3} {
		for _, b := range l.Layer(layer) {
			if !b.Filler || b.Displaced() {
				t.Errorf("layer %d slot %d should be plain filler: %+v", layer, b.Slot, b)
			}
		}
	}

	layer1 := l.Layer(1)
	slot := SlotFor(1)
	if layer1[slot].PackageName != "crit" {
		t.Errorf("layer 1 slot %d = %q, want crit", slot, layer1[slot].PackageName)
	}
	var safeNames []string
	for i, b := range layer1 {
		if i != slot {
			safeNames = append(safeNames, b.PackageName)
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, safeNames); diff != "" {
		t.Errorf("layer 1 safe packages mismatch (-want +got):\n%s", diff)
	}

	layer2 := l.Layer(2)
	if layer2[0].PackageName != "c" || !layer2[1].Filler || !layer2[2].Filler {
		t.Errorf("layer 2 = %+v, want c then two fillers", layer2)
	}
}

func TestGenerateGeometry(t *testing.T) {
	pkgs := []severity.PackageVulnerability{
		pkg("v1", severity.Critical),
		pkg("v2", severity.High),
		pkg("v3", severity.Medium),
		pkg("v4", severity.Low),
	}
	l := Generate(pkgs)

	for _, b := range l.Blocks {
		if want := float64(b.Layer) * BlockHeight; b.Position.Y != want {
			t.Errorf("layer %d y = %v, want %v", b.Layer, b.Position.Y, want)
		}
		across := float64(b.Slot-1) * BlockWidth
		if b.Layer%2 == 0 {
			if b.Rotation != (Vec3{}) {
				t.Errorf("even layer %d rotation = %+v", b.Layer, b.Rotation)
			}
			if b.Position.Z != across {
				t.Errorf("even layer %d slot %d z = %v, want %v", b.Layer, b.Slot, b.Position.Z, across)
			}
		} else {
			if b.Rotation != (Vec3{Y: math.Pi / 2}) {
				t.Errorf("odd layer %d rotation = %+v", b.Layer, b.Rotation)
			}
			if b.Position.X != across {
				t.Errorf("odd layer %d slot %d x = %v, want %v", b.Layer, b.Slot, b.Position.X, across)
			}
		}
	}
}

func TestGenerateDisplacement(t *testing.T) {
	pkgs := []severity.PackageVulnerability{
		pkg("l1", severity.Critical), // layer 1, odd #0: +
		pkg("l2", severity.High),     // layer 2, even #0: +
		pkg("l3", severity.Medium),   // layer 3, odd #1: -
		pkg("l4", severity.Low),      // layer 4, even #1: -
		pkg("l5", severity.Critical), // layer 5, odd #2: +
	}
	l := Generate(pkgs)

	tests := []struct {
		name string
		want float64
	}{
		{"l1", 1.5},
		{"l2", 1.2},
		{"l3", -0.8},
		{"l4", -0.4},
		{"l5", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := l.Find(tt.name)
			if !ok {
				t.Fatalf("%s not placed", tt.name)
			}
			pull := b.Position.X
			if b.Layer%2 == 1 {
				pull = b.Position.Z
			}
			if pull != tt.want {
				t.Errorf("%s pull = %v, want %v", tt.name, pull, tt.want)
			}
			if !b.Displaced() {
				t.Errorf("%s should be displaced", tt.name)
			}
		})
	}

	for _, b := range l.Blocks {
		if b.Displaced() {
			continue
		}
		long := b.Position.X
		if b.Layer%2 == 1 {
			long = b.Position.Z
		}
		if long != 0 {
			t.Errorf("non-vulnerable block at layer %d slot %d pulled by %v", b.Layer, b.Slot, long)
		}
	}
}

func TestGenerateVulnerableOrder(t *testing.T) {
	// Equal severities keep their input order.
	pkgs := []severity.PackageVulnerability{
		pkg("second-in-name", severity.High),
		pkg("safe", severity.Safe),
		pkg("first-in-name", severity.High),
	}
	l := Generate(pkgs)

	a, _ := l.Find("second-in-name")
	b, _ := l.Find("first-in-name")
	if a.Layer != 1 || b.Layer != 2 {
		t.Errorf("layers = %d, %d, want 1, 2", a.Layer, b.Layer)
	}
}

func TestGenerateEveryPackagePlacedOnce(t *testing.T) {
	var pkgs []severity.PackageVulnerability
	sevs := []severity.Severity{severity.Safe, severity.Low, severity.Safe, severity.Critical, severity.Safe, severity.Safe, severity.Medium}
	for i := 0; i < 23; i++ {
		pkgs = append(pkgs, pkg(fmt.Sprintf("p%02d", i), sevs[i%len(sevs)]))
	}
	l := Generate(pkgs)

	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	seen := map[string]int{}
	for _, b := range l.Blocks {
		if !b.Filler {
			seen[b.PackageName]++
		}
	}
	for _, p := range pkgs {
		if seen[p.PackageName] != 1 {
			t.Errorf("%s placed %d times", p.PackageName, seen[p.PackageName])
		}
	}
	for _, b := range l.Layer(0) {
		if !b.Filler {
			t.Error("bottom layer must be filler")
		}
	}
	for _, b := range l.Layer(l.Layers - 1) {
		if !b.Filler {
			t.Error("top layer must be filler")
		}
	}
}

func TestGenerateLookupFailedIsSafe(t *testing.T) {
	failed := severity.PackageVulnerability{PackageName: "flaky", Version: "1.0.0", LookupFailed: true}
	l := Generate([]severity.PackageVulnerability{failed})

	b, ok := l.Find("flaky")
	if !ok {
		t.Fatal("flaky not placed")
	}
	if b.Displaced() || !b.LookupFailed || b.Severity != severity.Safe {
		t.Errorf("block = %+v, want undisplaced safe block flagged LookupFailed", b)
	}
}

func TestGenerateEmpty(t *testing.T) {
	l := Generate(nil)
	if l.Layers != 3 || len(l.Blocks) != 9 {
		t.Fatalf("empty tower = %d layers, %d blocks", l.Layers, len(l.Blocks))
	}
	for _, b := range l.Blocks {
		if !b.Filler {
			t.Errorf("empty tower has non-filler block %+v", b)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	pkgs := []severity.PackageVulnerability{
		pkg("a", severity.High), pkg("b", severity.Safe), pkg("c", severity.Critical),
		pkg("d", severity.Safe), pkg("e", severity.Low), pkg("f", severity.Safe),
	}
	first := Generate(pkgs)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Generate(pkgs)); diff != "" {
			t.Fatalf("Generate() not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestGenerateConcurrent(t *testing.T) {
	pkgs := []severity.PackageVulnerability{
		pkg("a", severity.High), pkg("b", severity.Safe), pkg("c", severity.Medium), pkg("d", severity.Low),
	}
	want := Generate(pkgs)

	var wg sync.WaitGroup
	results := make([]Layout, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Generate(pkgs)
		}()
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("concurrent Generate #%d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestSlotFor(t *testing.T) {
	for layer := 0; layer < 200; layer++ {
		s := SlotFor(layer)
		if s < 0 || s >= SlotsPerLayer {
			t.Fatalf("SlotFor(%d) = %d, out of range", layer, s)
		}
		if SlotFor(layer) != s {
			t.Fatalf("SlotFor(%d) not stable", layer)
		}
	}
}

func TestOffset(t *testing.T) {
	prev := -1.0
	for _, s := range severity.All {
		if Offset(s) <= prev {
			t.Errorf("Offset(%s) = %v should exceed %v", s, Offset(s), prev)
		}
		prev = Offset(s)
	}
	if Offset(severity.Safe) != 0 || Offset(severity.Critical) != 1.5 {
		t.Error("unexpected offset table endpoints")
	}
}
