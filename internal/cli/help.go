package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nkxxll/ruff/internal/ui/pretty"
)

// helpStyles are the lipgloss styles used by the custom help templates.
type helpStyles struct {
	command lipgloss.Style
	heading lipgloss.Style
	sub     lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{command: plain, heading: plain, sub: plain, flag: plain, dim: plain}
	}
	return helpStyles{
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		sub:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const usageTemplateText = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ sub (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flagUsages .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flagUsages .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplateText = `{{with (or .Long .Short)}}{{ . }}

{{end}}` + usageTemplateText

// applyStyledHelp installs colorized usage and help rendering on cmd and
// every subcommand. Color resolution honors --color and NO_COLOR.
func applyStyledHelp(cmd *cobra.Command, colorMode string, out io.Writer) {
	styles := newHelpStyles(pretty.IsColorEnabled(colorMode, out))

	funcs := template.FuncMap{
		"command": styles.command.Render,
		"heading": styles.heading.Render,
		"sub":     styles.sub.Render,
		"dim":     styles.dim.Render,
		"rpad": func(s string, padding int) string {
			if len(s) >= padding {
				return s
			}
			return s + strings.Repeat(" ", padding-len(s))
		},
		"flagUsages": func(flags interface{ FlagUsages() string }) string {
			return styles.renderFlagUsages(flags.FlagUsages())
		},
	}

	render := func(name, text string, command *cobra.Command) error {
		tmpl, err := template.New(name).Funcs(funcs).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render("usage", usageTemplateText, command)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render("help", helpTemplateText, command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// renderFlagUsages colorizes pflag's usage block line by line: flag names
// get the flag style, value-type hints are dimmed, descriptions stay
// plain.
func (s helpStyles) renderFlagUsages(usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		lines[i] = s.renderFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (s helpStyles) renderFlagLine(line string) string {
	flags, desc, ok := splitFlagColumns(line)
	if !ok {
		return line
	}

	var sb strings.Builder
	for i, token := range strings.Fields(flags) {
		if i > 0 {
			sb.WriteString(" ")
		}
		name, comma := strings.CutSuffix(token, ",")
		switch {
		case strings.HasPrefix(name, "-"):
			sb.WriteString(s.flag.Render(name))
		default:
			sb.WriteString(s.dim.Render(name))
		}
		if comma {
			sb.WriteString(",")
		}
	}
	return "  " + sb.String() + "   " + desc
}

// splitFlagColumns cuts one pflag usage line at the first run of two or
// more spaces separating the flag column from the description column.
func splitFlagColumns(line string) (flags, desc string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" || !strings.HasPrefix(trimmed, "-") {
		return "", "", false
	}
	for i := 0; i+1 < len(trimmed); i++ {
		if trimmed[i] == ' ' && trimmed[i+1] == ' ' {
			return strings.TrimRight(trimmed[:i], " "), strings.TrimLeft(trimmed[i:], " "), true
		}
	}
	return "", "", false
}
