package configloader

import "github.com/nkxxll/ruff/pkg/config"

// merge combines two configurations, with override taking precedence over
// base. The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	// Scalars: override overwrites base if set (non-zero value)
	if override.LineLength != 0 {
		result.LineLength = override.LineLength
	}
	if override.IndentWidth != 0 {
		result.IndentWidth = override.IndentWidth
	}
	if override.IndentStyle != "" {
		result.IndentStyle = override.IndentStyle
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// Booleans: false is the zero value, so only true propagates.
	// CLI flags can enable these but a config file cannot unset them.
	if override.SkipMagicTrailingComma {
		result.SkipMagicTrailingComma = true
	}
	if override.Check {
		result.Check = true
	}
	if override.Diff {
		result.Diff = true
	}

	// Slices: override replaces base entirely if non-nil
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs
// taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
