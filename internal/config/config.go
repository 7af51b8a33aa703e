// Package config loads the preproc.toml project manifest.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up next to the seed file and in the
// working directory.
const ManifestName = "preproc.toml"

// Output controls how output file names are derived.
type Output struct {
	Extension string `toml:"extension"`
}

// Config is the decoded preproc.toml manifest. Command-line flags take
// precedence over manifest values.
type Config struct {
	Marker  string   `toml:"marker"`
	Include []string `toml:"include"`
	Output  Output   `toml:"output"`
}

// Default returns the configuration used when no manifest is present.
func Default() Config {
	return Config{
		Marker: "//",
		Output: Output{Extension: "i"},
	}
}

// Load decodes the manifest at path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// Discover looks for a manifest next to seed and then in the working
// directory, returning the defaults when neither exists.
func Discover(seed string) (Config, error) {
	candidates := []string{
		filepath.Join(filepath.Dir(seed), ManifestName),
		ManifestName,
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(path)
	}
	return Default(), nil
}
