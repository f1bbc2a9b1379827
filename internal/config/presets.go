package config

import "sort"

var Presets = map[string]*Config{
	"small": {
		InitialAngleDeg: 5, Damping: 0,
	},
	"large": {
		InitialAngleDeg: 120, Damping: 0,
	},
	"damped": {
		InitialAngleDeg: 30, Damping: 0.3,
	},
	"overdamped": {
		InitialAngleDeg: 30, Damping: 20,
	},
}

// GetPreset returns a full config with the preset's angle and damping, or
// nil if the name is unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.InitialAngleDeg = p.InitialAngleDeg
	cfg.Damping = p.Damping
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
