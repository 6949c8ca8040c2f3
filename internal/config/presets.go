package config

// JuliaPreset is a notable Julia set with the iteration count it was
// published with.
type JuliaPreset struct {
	Name       string
	Iterations int
	C          complex128
}

// JuliaPresets is the table from Fractal Programming in C (R. T. Stevens),
// page 283.
var JuliaPresets = []JuliaPreset{
	{"A", 128, complex(0.238498, 0.519198)},
	{"B", 96, complex(-0.743036, 0.113467)},
	{"C", 64, complex(-0.192175, 0.656734)},
	{"D", 32, complex(0.108294, -0.670487)},
	{"E", 64, complex(-0.392488, -0.587966)},
	{"F", 256, complex(-0.392488, -0.587966)},
	{"G", 32, complex(0.138341, 0.649857)},
	{"H", 24, complex(0.278560, -0.003483)},
	{"I", 48, complex(-1.258842, 0.065330)},
	{"J", 48, complex(-1.028482, -0.264756)},
	{"K", 64, complex(0.268545, -0.003483)},
	{"L", 64, complex(0.268545, -0.003483)},
	{"M", 24, complex(0.268545, -0.003483)},
	{"N", 256, complex(0.318623, 0.044699)},
	{"O", 48, complex(0.318623, 0.429799)},
}

// GetPreset returns preset i, or false when i is out of range.
func GetPreset(i int) (JuliaPreset, bool) {
	if i < 0 || i >= len(JuliaPresets) {
		return JuliaPreset{}, false
	}
	return JuliaPresets[i], true
}

// FindPreset looks a preset up by its letter.
func FindPreset(name string) (int, bool) {
	for i, p := range JuliaPresets {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

func ListPresets() []string {
	names := make([]string, 0, len(JuliaPresets))
	for _, p := range JuliaPresets {
		names = append(names, p.Name)
	}
	return names
}
