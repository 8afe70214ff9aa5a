package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nkxxll/ruff/internal/configloader"
	"github.com/nkxxll/ruff/internal/logging"
	"github.com/nkxxll/ruff/pkg/config"
	"github.com/nkxxll/ruff/pkg/edits"
	"github.com/nkxxll/ruff/pkg/pyast"
	"github.com/nkxxll/ruff/pkg/reporter"
	"github.com/nkxxll/ruff/pkg/runner"
)

// ErrFilesWouldChange signals that check or diff mode found files that
// would be reformatted. It carries no message for the user; main turns
// it into an exit code.
var ErrFilesWouldChange = errors.New("files would be reformatted")

// ErrFormatFailed signals that at least one file failed to format.
var ErrFormatFailed = errors.New("formatting failed")

type formatFlags struct {
	check        bool
	diff         bool
	rangeSpec    string
	outputFormat string
	compact      bool
}

func newFormatCommand() *cobra.Command {
	var cfg config.Config
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format Python files",
		Long:  formatLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, &cfg, flags)
		},
	}

	addFormatFlags(cmd, &cfg, flags)

	return cmd
}

const formatLongDescription = `Format Python files into the canonical style.

By default, formats all .py and .pyi files in the current directory and
subdirectories, rewriting changed files in place. Specify paths to
format specific files or directories.

Examples:
  ruff format                        # Format current directory
  ruff format src/                   # Format src directory
  ruff format app.py                 # Format single file
  ruff format --check               # Report files that would change
  ruff format --diff                # Print diffs instead of writing
  ruff format --range 120:240 app.py # Format only the bytes 120..240
  ruff format --line-length 100      # Override the target line width`

func runFormat(cmd *cobra.Command, args []string, cfg *config.Config, flags *formatFlags) error {
	logger := logging.Default()

	// Only pass on values that were explicitly provided via CLI flags;
	// everything else comes from config files and the environment.
	cliCfg := &config.Config{}
	if cmd.Flags().Changed("line-length") {
		cliCfg.LineLength = cfg.LineLength
	}
	if cmd.Flags().Changed("indent-width") {
		cliCfg.IndentWidth = cfg.IndentWidth
	}
	if cmd.Flags().Changed("indent-style") {
		cliCfg.IndentStyle = cfg.IndentStyle
	}
	if cmd.Flags().Changed("jobs") {
		cliCfg.Jobs = cfg.Jobs
	}
	cliCfg.SkipMagicTrailingComma = cfg.SkipMagicTrailingComma
	cliCfg.Ignore = cfg.Ignore
	cliCfg.Check = flags.check
	cliCfg.Diff = flags.diff
	if cmd.Flags().Changed("output-format") {
		cliCfg.Format = config.OutputFormat(flags.outputFormat)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldLineLength, finalCfg.LineLength,
		logging.FieldIndentStyle, finalCfg.IndentStyle,
		logging.FieldJobs, finalCfg.Jobs,
	)

	var formatRange *pyast.Span
	if flags.rangeSpec != "" {
		span, parseErr := parseRange(flags.rangeSpec)
		if parseErr != nil {
			return parseErr
		}
		formatRange = &span
	}

	// "-" or piped input with no paths means format stdin to stdout.
	if len(args) == 1 && args[0] == "-" || len(args) == 0 && !stdinIsTerminal() {
		return runFormatStdin(cmd, finalCfg, formatRange, flags)
	}

	mode := runner.ModeWrite
	switch {
	case flags.diff:
		mode = runner.ModeDiff
	case flags.check:
		mode = runner.ModeCheck
	}

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: finalCfg.Ignore,
		Jobs:         finalCfg.Jobs,
		Mode:         mode,
		Range:        formatRange,
		Config:       finalCfg,
	}

	logger.Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New().Run(logging.WithLogger(ctx, logger), runOpts)
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	logger.Debug("format run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto" // Default to auto if flag retrieval fails
	}

	outputFormat := reporter.Format(finalCfg.Format)
	if flags.diff && !cmd.Flags().Changed("output-format") {
		outputFormat = reporter.FormatDiff
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      outputFormat,
		Color:       colorMode,
		Check:       flags.check || flags.diff,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	switch ExitCodeFromResult(result, flags.check || flags.diff) {
	case ExitWouldChange:
		return ErrFilesWouldChange
	case ExitError:
		return ErrFormatFailed
	default:
		return nil
	}
}

// stdinIsTerminal reports whether stdin is attached to a terminal.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// runFormatStdin formats source read from stdin and writes the result
// to stdout. In check mode nothing is written and a changed document
// yields the would-change exit code.
func runFormatStdin(cmd *cobra.Command, cfg *config.Config, formatRange *pyast.Span, flags *formatFlags) error {
	source, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	formatted, err := runner.FormatContent(source, formatRange, cfg)
	if err != nil {
		return errors.Join(ErrFormatFailed, err)
	}

	changed := !bytes.Equal(source, formatted)

	switch {
	case flags.diff:
		diff, diffErr := edits.GenerateDiff("stdin", source, formatted)
		if diffErr != nil {
			return diffErr
		}
		if diff.HasChanges() {
			fmt.Fprint(cmd.OutOrStdout(), diff.String())
			return ErrFilesWouldChange
		}
	case flags.check:
		if changed {
			fmt.Fprintln(cmd.OutOrStdout(), "Would reformat: stdin")
			return ErrFilesWouldChange
		}
	default:
		if _, err := cmd.OutOrStdout().Write(formatted); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	}

	return nil
}

// parseRange parses a "start:end" byte offset pair.
func parseRange(spec string) (pyast.Span, error) {
	start, end, ok := strings.Cut(spec, ":")
	if !ok {
		return pyast.Span{}, fmt.Errorf("invalid range %q: expected start:end byte offsets", spec)
	}
	startOffset, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return pyast.Span{}, fmt.Errorf("invalid range start %q: %w", start, err)
	}
	endOffset, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return pyast.Span{}, fmt.Errorf("invalid range end %q: %w", end, err)
	}
	if startOffset < 0 || endOffset < startOffset {
		return pyast.Span{}, fmt.Errorf("invalid range %q: start must be >= 0 and <= end", spec)
	}
	return pyast.Span{Start: startOffset, End: endOffset}, nil
}

func addFormatFlags(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) {
	cmd.Flags().BoolVar(&flags.check, "check", false, "report files that would change without writing them")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print unified diffs instead of writing files")
	cmd.Flags().StringVar(&flags.rangeSpec, "range", "",
		"format only the given start:end byte range (single file only)")
	cmd.Flags().IntVar(&cfg.LineLength, "line-length", 88, "target maximum line width")
	cmd.Flags().IntVar(&cfg.IndentWidth, "indent-width", 4, "number of spaces per indent level")
	cmd.Flags().Var(newIndentStyleValue(&cfg.IndentStyle), "indent-style", "indentation style: space or tab")
	cmd.Flags().BoolVar(&cfg.SkipMagicTrailingComma, "skip-magic-trailing-comma", false,
		"ignore trailing commas when deciding whether to expand")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&cfg.Ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringVar(&flags.outputFormat, "output-format", "text", "output format: text, json, diff")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output where applicable")
}

// indentStyleValue adapts config.IndentStyle to the pflag.Value interface.
type indentStyleValue struct {
	target *config.IndentStyle
}

func newIndentStyleValue(target *config.IndentStyle) *indentStyleValue {
	return &indentStyleValue{target: target}
}

func (v *indentStyleValue) String() string {
	if v.target == nil || *v.target == "" {
		return string(config.IndentStyleSpace)
	}
	return string(*v.target)
}

func (v *indentStyleValue) Set(value string) error {
	style := config.IndentStyle(value)
	if !style.IsValid() {
		return fmt.Errorf("invalid indent style %q: must be space or tab", value)
	}
	*v.target = style
	return nil
}

func (v *indentStyleValue) Type() string {
	return "style"
}
