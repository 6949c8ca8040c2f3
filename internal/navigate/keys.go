package navigate

type Action int

const (
	ActionNone Action = iota
	ActionZoomIn
	ActionZoomOut
	ActionSave
	ActionJulia
	ActionMandelbrot
	ActionTogglePreview
	ActionPreset
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
)

// PanStep is the pixel distance moved by one pan key press.
const PanStep = 32

// presetKeys selects presets A..N.
var presetKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "q", "w", "e", "r"}

var keyActions = map[string]Action{
	"+":     ActionZoomIn,
	"=":     ActionZoomIn,
	"-":     ActionZoomOut,
	"s":     ActionSave,
	"j":     ActionJulia,
	"m":     ActionMandelbrot,
	"p":     ActionTogglePreview,
	"left":  ActionPanLeft,
	"right": ActionPanRight,
	"up":    ActionPanUp,
	"down":  ActionPanDown,
}

// Bind maps a host key name to a KeyDown event. Names follow the terminal
// convention: single characters, or "left", "right", "up", "down".
func Bind(key string) (KeyDown, bool) {
	if a, ok := keyActions[key]; ok {
		return KeyDown{Action: a}, true
	}
	for i, k := range presetKeys {
		if k == key {
			return KeyDown{Action: ActionPreset, Preset: i}, true
		}
	}
	return KeyDown{}, false
}

// PresetKey returns the key bound to preset i, or "" if none is.
func PresetKey(i int) string {
	if i < 0 || i >= len(presetKeys) {
		return ""
	}
	return presetKeys[i]
}
