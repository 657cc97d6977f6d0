package signature

// Position is a placement coordinate on the document page.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Preset is a named placement choice offered to the user.
type Preset struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// presets are the six named corners/edges of a page offered by the form.
var presets = []Preset{
	{Name: "top-left", Position: Position{X: 30, Y: 750}},
	{Name: "top-center", Position: Position{X: 150, Y: 750}},
	{Name: "top-right", Position: Position{X: 300, Y: 750}},
	{Name: "bottom-left", Position: Position{X: 50, Y: 100}},
	{Name: "bottom-center", Position: Position{X: 150, Y: 100}},
	{Name: "bottom-right", Position: Position{X: 300, Y: 100}},
}

// DefaultPosition is the initially selected preset.
var DefaultPosition = presets[0].Position

// Presets returns the placement choices in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName resolves a preset name to its coordinate.
func PresetByName(name string) (Position, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p.Position, true
		}
	}
	return Position{}, false
}
