package tower

import "github.com/matzehuels/jengatower/pkg/severity"

// Block dimensions in scene units. Three blocks side by side are as wide as
// one block is long.
const (
	BlockLength = 3.0
	BlockHeight = 0.6
	BlockWidth  = 1.0

	// SlotsPerLayer is the number of blocks in every layer.
	SlotsPerLayer = 3
)

// Vec3 is a point or Euler rotation in scene space.
type Vec3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Block is one positioned block. Filler blocks carry no package.
type Block struct {
	PackageName        string            `json:"package_name,omitempty" bson:"package_name,omitempty"`
	Version            string            `json:"version,omitempty" bson:"version,omitempty"`
	Severity           severity.Severity `json:"severity" bson:"severity"`
	VulnerabilityCount int               `json:"vulnerability_count" bson:"vulnerability_count"`
	Layer              int               `json:"layer" bson:"layer"`
	Slot               int               `json:"slot" bson:"slot"`
	Position           Vec3              `json:"position" bson:"position"`
	Rotation           Vec3              `json:"rotation" bson:"rotation"`
	Color              string            `json:"color" bson:"color"`
	Filler             bool              `json:"filler,omitempty" bson:"filler,omitempty"`
	LookupFailed       bool              `json:"lookup_failed,omitempty" bson:"lookup_failed,omitempty"`
}

// Displaced reports whether the block is pulled out of its layer.
func (b Block) Displaced() bool {
	return !b.Filler && b.Severity.Vulnerable()
}
