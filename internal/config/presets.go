package config

import "sort"

var Presets = map[string]func() *Config{
	// shake at full rate until the solution saturates and precipitate forms
	"saturate": func() *Config {
		c := DefaultConfig()
		c.Duration = 30
		c.Schedule = []ShakeWindow{{Start: 0, End: 25, Rate: 0.2}}
		return c
	},
	"gentle": func() *Config {
		c := DefaultConfig()
		c.Schedule = []ShakeWindow{
			{Start: 0, End: 2, Rate: 0.05},
			{Start: 4, End: 6, Rate: 0.05},
		}
		return c
	},
	// start saturated and boil off solvent so precipitate grows
	"evaporate": func() *Config {
		c := DefaultConfig()
		c.Solute = "copperSulfate"
		c.Duration = 20
		c.Solution.Volume = 1.0
		c.Solution.SoluteMoles = 1.38
		c.Schedule = nil
		c.EvaporationRate = 0.025
		return c
	},
	"permanganate": func() *Config {
		c := DefaultConfig()
		c.Solute = "potassiumPermanganate"
		c.Duration = 15
		c.Schedule = []ShakeWindow{{Start: 0, End: 10, Rate: 0.05}}
		return c
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
