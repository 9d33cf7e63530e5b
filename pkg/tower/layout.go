package tower

import (
	"encoding/json"
	"fmt"
	"os"

	apperr "github.com/matzehuels/jengatower/pkg/errors"
)

// Layout is the serialized tower consumed by renderers.
type Layout struct {
	Layers      int     `json:"layers" bson:"layers"`
	BlockLength float64 `json:"block_length" bson:"block_length"`
	BlockHeight float64 `json:"block_height" bson:"block_height"`
	BlockWidth  float64 `json:"block_width" bson:"block_width"`
	Blocks      []Block `json:"blocks" bson:"blocks"`
}

// Height returns the height of the stacked tower.
func (l Layout) Height() float64 {
	return float64(l.Layers) * l.BlockHeight
}

// Find returns the block holding the named package.
func (l Layout) Find(pkg string) (Block, bool) {
	for _, b := range l.Blocks {
		if !b.Filler && b.PackageName == pkg {
			return b, true
		}
	}
	return Block{}, false
}

// Layer returns the blocks of one layer in slot order.
func (l Layout) Layer(layer int) []Block {
	if layer < 0 || layer >= l.Layers || len(l.Blocks) < (layer+1)*SlotsPerLayer {
		return nil
	}
	return l.Blocks[layer*SlotsPerLayer : (layer+1)*SlotsPerLayer]
}

// Validate checks the structural invariants of a layout.
func (l Layout) Validate() error {
	if l.Layers < 3 {
		return fmt.Errorf("tower must have at least 3 layers, got %d", l.Layers)
	}
	if want := l.Layers * SlotsPerLayer; len(l.Blocks) != want {
		return fmt.Errorf("tower with %d layers must have %d blocks, got %d", l.Layers, want, len(l.Blocks))
	}
	for i, b := range l.Blocks {
		if b.Layer != i/SlotsPerLayer || b.Slot != i%SlotsPerLayer {
			return fmt.Errorf("block %d is at layer %d slot %d", i, b.Layer, b.Slot)
		}
	}
	return nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
// Errors carry [apperr.ErrCodeInvalidLayout].
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, apperr.Wrap(apperr.ErrCodeInvalidLayout, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, apperr.Wrap(apperr.ErrCodeInvalidLayout, err, "invalid layout")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadLayoutFile reads and validates a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	return UnmarshalLayout(data)
}
