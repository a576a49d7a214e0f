package config

// Default returns a configuration populated with defaults. Paths remain
// unexpanded until normalize runs.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: "~/.local/share/sofictl/work",
			LogDir:  "~/.local/share/sofictl/logs",
		},
		Simulator: Simulator{
			Binary:   "sofi2d",
			MPIRun:   "mpirun",
			MaxCores: 4,
		},
		Model: Model{
			PadMultiple: 16,
		},
		Logging: Logging{
			Format: "auto",
			Level:  "info",
		},
	}
}
