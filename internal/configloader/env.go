package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nkxxll/ruff/pkg/config"
)

// envVarPrefix is shared by every formatter environment variable.
const envVarPrefix = "RUFF_"

// envVar binds one environment variable to a config field through a
// typed setter.
type envVar struct {
	field string
	usage string
	apply func(*config.Config, string) error
}

//nolint:gochecknoglobals // read-only lookup table
var envMappings = map[string]envVar{
	"LINE_LENGTH": {
		field: "line_length",
		usage: "Target maximum line width in display cells",
		apply: intSetter(func(c *config.Config, v int) { c.LineLength = v }),
	},
	"INDENT_WIDTH": {
		field: "indent_width",
		usage: "Number of spaces per indent level",
		apply: intSetter(func(c *config.Config, v int) { c.IndentWidth = v }),
	},
	"INDENT_STYLE": {
		field: "indent_style",
		usage: "Indentation style: space or tab",
		apply: func(c *config.Config, raw string) error {
			c.IndentStyle = config.IndentStyle(raw)
			return nil
		},
	},
	"SKIP_MAGIC_TRAILING_COMMA": {
		field: "skip_magic_trailing_comma",
		usage: "Ignore trailing commas when deciding to expand: true or false",
		apply: boolSetter(func(c *config.Config, v bool) { c.SkipMagicTrailingComma = v }),
	},
	"JOBS": {
		field: "jobs",
		usage: "Number of parallel workers (0 = auto)",
		apply: intSetter(func(c *config.Config, v int) { c.Jobs = v }),
	},
	"FORMAT": {
		field: "format",
		usage: "Output format: text, json, or diff",
		apply: func(c *config.Config, raw string) error {
			c.Format = config.OutputFormat(raw)
			return nil
		},
	},
	"IGNORE": {
		field: "ignore",
		usage: "Comma-separated list of ignore patterns",
		apply: func(c *config.Config, raw string) error {
			c.Ignore = splitList(raw)
			return nil
		},
	},
}

func intSetter(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(c *config.Config, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		set(c, v)
		return nil
	}
}

func boolSetter(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(c *config.Config, raw string) error {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", raw)
		}
		set(c, v)
		return nil
	}
}

// splitList splits a comma-separated value, trimming whitespace and
// dropping empty elements.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// LoadFromEnv overlays RUFF_* environment variables onto cfg. Unset
// and empty variables leave the config untouched.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, v := range envMappings {
		name := envVarPrefix + suffix
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		if err := v.apply(cfg, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// GetEnvVarName returns the environment variable controlling a config
// field, or "" when the field has none.
func GetEnvVarName(field string) string {
	for suffix, v := range envMappings {
		if v.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported environment variable with its
// description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, v := range envMappings {
		out[envVarPrefix+suffix] = v.usage
	}
	return out
}
