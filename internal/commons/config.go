package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"kuku/internal/config"
)

// LoadConfig reads an optional YAML file on top of the compiled defaults and
// then applies environment overrides. An empty path skips the file.
func LoadConfig(path string) (*config.Config, error) {
	cfg := config.Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return config.FromEnv(cfg)
}
