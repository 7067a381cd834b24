package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdinbox/internal/ui/pretty"
)

// helpTemplate renders command help. Sections without content are skipped.
const helpTemplate = `{{with (or .Long .Short)}}{{trimLines .}}

{{end}}{{heading "Usage:"}}{{if .Runnable}}
  {{command .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{command .CommandPath}} {{dim "[command]"}}{{end}}{{if gt (len .Aliases) 0}}

{{heading "Aliases:"}}
  {{dim (join .Aliases ", ")}}{{end}}{{if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}{{if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if .IsAvailableCommand}}
  {{subcommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}{{if .HasAvailableSubCommands}}

Run "{{command (print .CommandPath " [command] --help")}}" for details on a command.{{end}}
`

// HelpFormatter renders styled help for Cobra commands.
type HelpFormatter struct {
	heading    lipgloss.Style
	command    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	dim        lipgloss.Style
}

// NewHelpFormatter creates a help formatter for writer in the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))
	return &HelpFormatter{
		heading:    styles.Warning,
		command:    styles.Name.Bold(true),
		subcommand: styles.Success.UnsetBold(),
		flag:       styles.Info.UnsetBold(),
		dim:        styles.Dim,
	}
}

// ApplyToCommand installs the help and usage functions on cmd. Subcommands
// inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	tmpl := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))

	render := func(command *cobra.Command) error {
		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command); err != nil {
			command.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(render)
}

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":    h.heading.Render,
		"command":    h.command.Render,
		"subcommand": h.subcommand.Render,
		"dim":        h.dim.Render,
		"flags":      h.flagUsages,
		"join":       strings.Join,
		"trimLines":  trimLines,
		"rpad":       rpad,
	}
}

// flagUsages renders pflag usage lines with the flag names highlighted.
func (h *HelpFormatter) flagUsages(flags *pflag.FlagSet) string {
	usages := strings.TrimRight(flags.FlagUsages(), "\n")
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

// flagLine styles one usage line of the form "  -q, --query string   text".
// pflag aligns descriptions, so the first run of two or more spaces after
// the names ends the flag part.
func (h *HelpFormatter) flagLine(line string) string {
	body := strings.TrimLeft(line, " ")
	if body == "" {
		return line
	}
	indent := line[:len(line)-len(body)]

	end := strings.Index(body, "  ")
	if end < 0 {
		return line
	}
	names, desc := body[:end], body[end:]

	tokens := strings.Fields(names)
	for i, token := range tokens {
		name, comma := strings.CutSuffix(token, ",")
		if strings.HasPrefix(name, "-") {
			name = h.flag.Render(name)
		} else {
			name = h.dim.Render(name)
		}
		if comma {
			name += ","
		}
		tokens[i] = name
	}

	return indent + strings.Join(tokens, " ") + desc
}

// rpad pads s with spaces to width.
func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// trimLines removes trailing blanks from every line.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
