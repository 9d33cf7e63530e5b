package tower

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/jengatower/pkg/severity"
)

var offsets = map[severity.Severity]float64{
	severity.Critical: 1.5,
	severity.High:     1.2,
	severity.Medium:   0.8,
	severity.Low:      0.4,
	severity.Safe:     0,
}

// Offset returns how far a block of the given severity is pulled out.
func Offset(s severity.Severity) float64 {
	return offsets[s]
}

// SlotFor returns the slot in [0, SlotsPerLayer) that holds the vulnerable
// block of layer. It depends only on layer.
func SlotFor(layer int) int {
	seed := uint64(layer*7 + 1)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	return rng.IntN(SlotsPerLayer)
}

// LayerCounts returns the number of middle layers and the total including
// the filler bottom and top layers.
func LayerCounts(vulnerable, safe int) (middle, total int) {
	extra := max(0, safe-2*vulnerable)
	middle = max(vulnerable, 1) + int(math.Ceil(float64(extra)/SlotsPerLayer))
	return middle, middle + 2
}

// Generate lays out pkgs as a tower. Vulnerable packages take one middle
// layer each in input order; safe packages (including unverified ones whose
// lookup failed) fill the remaining slots in input order.
func Generate(pkgs []severity.PackageVulnerability) Layout {
	var vulnerable, safe []severity.PackageVulnerability
	for _, p := range pkgs {
		if p.MaxSeverity.Vulnerable() {
			vulnerable = append(vulnerable, p)
		} else {
			safe = append(safe, p)
		}
	}

	_, total := LayerCounts(len(vulnerable), len(safe))
	b := &builder{
		vulnerable: vulnerable,
		safe:       safe,
		total:      total,
		blocks:     make([]Block, 0, total*SlotsPerLayer),
	}
	for layer := range total {
		b.layer(layer)
	}

	return Layout{
		Layers:      total,
		BlockLength: BlockLength,
		BlockHeight: BlockHeight,
		BlockWidth:  BlockWidth,
		Blocks:      b.blocks,
	}
}

// builder holds the cursors of one Generate call.
type builder struct {
	vulnerable []severity.PackageVulnerability
	safe       []severity.PackageVulnerability
	total      int

	nextSafe int
	// Pull direction counters for even (x) and odd (z) layers.
	evenPulls int
	oddPulls  int

	blocks []Block
}

func (b *builder) layer(layer int) {
	rotated := layer%2 == 1
	edge := layer == 0 || layer == b.total-1

	var vuln *severity.PackageVulnerability
	if !edge && layer-1 < len(b.vulnerable) {
		vuln = &b.vulnerable[layer-1]
	}
	vulnSlot := -1
	if vuln != nil {
		vulnSlot = SlotFor(layer)
	}

	rotation := Vec3{}
	if rotated {
		rotation.Y = math.Pi / 2
	}

	for slot := range SlotsPerLayer {
		var pkg *severity.PackageVulnerability
		switch {
		case slot == vulnSlot:
			pkg = vuln
		case !edge && b.nextSafe < len(b.safe):
			pkg = &b.safe[b.nextSafe]
			b.nextSafe++
		}

		pos := Vec3{Y: float64(layer) * BlockHeight}
		across := float64(slot-1) * BlockWidth
		var pull float64
		if slot == vulnSlot {
			pull = Offset(vuln.MaxSeverity)
			if b.pullCount(rotated)%2 == 1 {
				pull = -pull
			}
		}
		if rotated {
			pos.X, pos.Z = across, pull
		} else {
			pos.Z, pos.X = across, pull
		}

		b.blocks = append(b.blocks, newBlock(pkg, layer, slot, pos, rotation))
	}

	if vuln != nil {
		if rotated {
			b.oddPulls++
		} else {
			b.evenPulls++
		}
	}
}

func (b *builder) pullCount(rotated bool) int {
	if rotated {
		return b.oddPulls
	}
	return b.evenPulls
}

func newBlock(pkg *severity.PackageVulnerability, layer, slot int, pos, rot Vec3) Block {
	blk := Block{
		Layer:    layer,
		Slot:     slot,
		Position: pos,
		Rotation: rot,
		Severity: severity.Safe,
		Filler:   pkg == nil,
	}
	if pkg != nil {
		blk.PackageName = pkg.PackageName
		blk.Version = pkg.Version
		blk.Severity = pkg.MaxSeverity
		blk.VulnerabilityCount = len(pkg.Vulnerabilities)
		blk.LookupFailed = pkg.LookupFailed
	}
	blk.Color = blk.Severity.Color()
	return blk
}
