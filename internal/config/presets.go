package config

import "sort"

var Presets = map[string]Params{
	"canonical": {Sigma: 10, Rho: 28, Beta: 2.667, Dt: 0.01, Iterations: 10000, ResultSize: 64},
	"thumbnail": {Sigma: 10, Rho: 28, Beta: 8.0 / 3.0, Dt: 0.01, Iterations: 20000, ResultSize: 128},
	"poster":    {Sigma: 10, Rho: 28, Beta: 8.0 / 3.0, Dt: 0.001, Iterations: 2000000, ResultSize: 2048},
	"dense":     {Sigma: 10, Rho: 28, Beta: 8.0 / 3.0, Dt: 0.005, Iterations: 500000, ResultSize: 512},
	"wings":     {Sigma: 10, Rho: 99.96, Beta: 8.0 / 3.0, Dt: 0.002, Iterations: 400000, ResultSize: 512},
	"transient": {Sigma: 10, Rho: 14, Beta: 8.0 / 3.0, Dt: 0.01, Iterations: 5000, ResultSize: 256},
}

func GetPreset(name string) (Params, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
