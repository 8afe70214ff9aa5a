package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ToTOML serializes the configuration to TOML format.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// FromTOML parses a configuration from TOML bytes, as found in a ruff.toml
// file. Fields absent from the document are left at their zero value so
// callers can merge the result over defaults.
func FromTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	return cfg, nil
}

// pyprojectFile mirrors the [tool.ruff] table of a pyproject.toml.
type pyprojectFile struct {
	Tool struct {
		Ruff Config `toml:"ruff"`
	} `toml:"tool"`
}

// FromPyproject parses a configuration from the [tool.ruff] table of a
// pyproject.toml. ok is false when the file has no such table. As with
// FromTOML, absent fields are left at their zero value.
func FromPyproject(data []byte) (cfg *Config, ok bool, err error) {
	var file pyprojectFile
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, false, fmt.Errorf("parse pyproject.toml: %w", err)
	}
	if !meta.IsDefined("tool", "ruff") {
		return nil, false, nil
	}
	c := file.Tool.Ruff
	return &c, true, nil
}
