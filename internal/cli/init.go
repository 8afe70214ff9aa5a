package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nkxxll/ruff/internal/logging"
	"github.com/nkxxll/ruff/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// configFileHeader is prepended to generated YAML configuration files.
const configFileHeader = `# ruff formatter configuration
# See: https://github.com/nkxxll/ruff
`

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ruff configuration file",
		Long: `Create a new ruff.toml configuration file in the current directory
with the formatter defaults. The file can be customized to change the
line length, indentation, and ignore patterns.

Examples:
  ruff init                     Create ruff.toml with the defaults
  ruff init --format yaml       Create ruff.yaml instead
  ruff init --output custom.toml  Write to a custom file path`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "toml", "Output format: toml or yaml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: ruff.toml or ruff.yaml)")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.Default()

	// Validate format
	if flags.format != "toml" && flags.format != "yaml" {
		return fmt.Errorf("invalid format %q: must be toml or yaml", flags.format)
	}

	// Determine output path
	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "yaml" {
			outputPath = "ruff.yaml"
		} else {
			outputPath = "ruff.toml"
		}
	}

	// Make path absolute
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	cfg := config.NewConfig()

	var content []byte
	if flags.format == "yaml" {
		content, err = cfg.ToYAMLWithHeader(configFileHeader)
	} else {
		content, err = cfg.ToTOML()
	}
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)

	return nil
}
