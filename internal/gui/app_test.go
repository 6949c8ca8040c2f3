package gui

import (
	"testing"

	"github.com/san-kum/fractalscope/internal/navigate"
)

func TestKeyNamesBind(t *testing.T) {
	seen := map[int32]bool{}
	for _, k := range keyNames {
		if seen[k.key] {
			t.Errorf("key %d listed twice", k.key)
		}
		seen[k.key] = true
		if _, ok := navigate.Bind(k.name); !ok {
			t.Errorf("key name %q is not bound", k.name)
		}
	}
}

func TestKeyNamesPresetOrder(t *testing.T) {
	var presets []int
	for _, k := range keyNames {
		ev, _ := navigate.Bind(k.name)
		if ev.Action == navigate.ActionPreset {
			presets = append(presets, ev.Preset)
		}
	}
	for i, p := range presets {
		if p != i {
			t.Fatalf("presets scanned out of order: %v", presets)
		}
	}
}
