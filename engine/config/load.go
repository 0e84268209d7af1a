package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a config file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatOf picks the encoding from a file extension.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Format: the encoding
//   - error: ErrUnsupportedFormat for anything but .yaml, .yml and .toml
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
}

// Load reads a config file over the defaults and validates the result.
//
// Parameters:
//   - path: a .yaml, .yml or .toml file
//
// Returns:
//   - SceneConfig: the merged config
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (SceneConfig, error) {
	format, err := FormatOf(path)
	if err != nil {
		return SceneConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneConfig{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return SceneConfig{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes config bytes over the defaults and validates the result.
// A list present in the input replaces the default list rather than merging with it.
//
// Parameters:
//   - data: the encoded config
//   - format: the encoding of data
//
// Returns:
//   - SceneConfig: the merged config
//   - error: error if decoding or validation fails
func Parse(data []byte, format Format) (SceneConfig, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		return SceneConfig{}, ErrUnsupportedFormat
	}
	if err != nil {
		return SceneConfig{}, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return SceneConfig{}, err
	}
	return cfg, nil
}
