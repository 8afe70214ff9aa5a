package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkxxll/ruff/pkg/config"
	"github.com/nkxxll/ruff/pkg/format"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, 88, cfg.LineLength)
	assert.Equal(t, config.IndentStyleSpace, cfg.IndentStyle)
	assert.Equal(t, 4, cfg.IndentWidth)
	assert.False(t, cfg.SkipMagicTrailingComma)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Zero(t, cfg.Jobs)
}

func TestIndentStyleIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.IndentStyleSpace.IsValid())
	assert.True(t, config.IndentStyleTab.IsValid())
	assert.False(t, config.IndentStyle("tabs").IsValid())
	assert.False(t, config.IndentStyle("").IsValid())
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.Config
		want format.Options
	}{
		{
			name: "nil falls back to engine defaults",
			cfg:  nil,
			want: format.DefaultOptions(),
		},
		{
			name: "defaults map through",
			cfg:  config.NewConfig(),
			want: format.DefaultOptions(),
		},
		{
			name: "custom widths",
			cfg:  &config.Config{LineLength: 100, IndentWidth: 2},
			want: format.Options{
				LineLength:         100,
				IndentStyle:        format.IndentSpaces,
				IndentWidth:        2,
				MagicTrailingComma: true,
			},
		},
		{
			name: "tabs",
			cfg:  &config.Config{IndentStyle: config.IndentStyleTab},
			want: format.Options{
				LineLength:         88,
				IndentStyle:        format.IndentTabs,
				IndentWidth:        4,
				MagicTrailingComma: true,
			},
		},
		{
			name: "skip magic trailing comma",
			cfg:  &config.Config{SkipMagicTrailingComma: true},
			want: format.Options{
				LineLength:         88,
				IndentStyle:        format.IndentSpaces,
				IndentWidth:        4,
				MagicTrailingComma: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.FormatOptions())
		})
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())

	cfg := config.NewConfig()
	cfg.Ignore = []string{"build/**", "*.gen.py"}

	clone := cfg.Clone()
	require.NotSame(t, cfg, clone)
	assert.Equal(t, cfg, clone)

	clone.Ignore[0] = "changed"
	assert.Equal(t, "build/**", cfg.Ignore[0], "clone must not share the ignore slice")
}

func TestFromTOML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromTOML([]byte(`
line-length = 120
indent-style = "tab"
skip-magic-trailing-comma = true
ignore = ["vendor/**"]
`))
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.LineLength)
	assert.Equal(t, config.IndentStyleTab, cfg.IndentStyle)
	assert.True(t, cfg.SkipMagicTrailingComma)
	assert.Equal(t, []string{"vendor/**"}, cfg.Ignore)

	// Absent fields stay zero so the loader can merge over defaults.
	assert.Zero(t, cfg.IndentWidth)
}

func TestFromTOMLInvalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromTOML([]byte("line-length = [not toml"))
	require.Error(t, err)
}

func TestFromPyproject(t *testing.T) {
	t.Parallel()

	t.Run("with tool.ruff table", func(t *testing.T) {
		cfg, ok, err := config.FromPyproject([]byte(`
[project]
name = "demo"

[tool.ruff]
line-length = 100
indent-width = 2
`))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 100, cfg.LineLength)
		assert.Equal(t, 2, cfg.IndentWidth)
	})

	t.Run("without tool.ruff table", func(t *testing.T) {
		_, ok, err := config.FromPyproject([]byte(`
[project]
name = "demo"

[tool.other]
key = "value"
`))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalid toml", func(t *testing.T) {
		_, _, err := config.FromPyproject([]byte("[tool.ruff\nbroken"))
		require.Error(t, err)
	})
}

func TestTOMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.LineLength = 100
	cfg.Ignore = []string{"dist/**"}

	data, err := cfg.ToTOML()
	require.NoError(t, err)

	parsed, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.LineLength, parsed.LineLength)
	assert.Equal(t, cfg.IndentStyle, parsed.IndentStyle)
	assert.Equal(t, cfg.Ignore, parsed.Ignore)
}

func TestNilSerialization(t *testing.T) {
	t.Parallel()

	var cfg *config.Config

	data, err := cfg.ToTOML()
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = cfg.ToYAML()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.IndentStyle = config.IndentStyleTab
	cfg.SkipMagicTrailingComma = true

	data, err := cfg.ToYAML()
	require.NoError(t, err)

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.LineLength, parsed.LineLength)
	assert.Equal(t, cfg.IndentStyle, parsed.IndentStyle)
	assert.True(t, parsed.SkipMagicTrailingComma)
}

func TestFromYAMLInvalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("line-length: [\n  unclosed"))
	require.Error(t, err)
}

func TestToYAMLWithHeader(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	data, err := cfg.ToYAMLWithHeader("# formatter settings")
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "# formatter settings\n\n", string(data[:22]))

	plain, err := cfg.ToYAMLWithHeader("")
	require.NoError(t, err)
	noHeader, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.Equal(t, noHeader, plain)
}
