package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdinbox/internal/ui/pretty"
	"github.com/yaklabco/mdinbox/pkg/docmodel"
	"github.com/yaklabco/mdinbox/pkg/markdown"
	"github.com/yaklabco/mdinbox/pkg/textdiff"
)

// Conversion targets.
const (
	convertToJSON     = "json"
	convertToMarkdown = "markdown"
)

type convertFlags struct {
	to     string
	output string
	check  bool
}

func newConvertCommand(opts *globalOptions) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert between markdown and the JSON document shape",
		Long: `Convert a document between markdown and the JSON export shape of the
document model.

With --to json (the default) the input is markdown. Constructs the model
cannot represent are kept as literal text and reported as warnings. With
--to markdown the input is a JSON document.

--check verifies that the input survives a serialize/parse round trip.`,
		Example: `  mdinbox convert note.md
  mdinbox convert --to markdown note.json
  cat note.md | mdinbox convert --check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.to, "to", convertToJSON, "output format: json, markdown")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&flags.check, "check", false, "verify round-trip stability instead of converting")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, opts *globalOptions, flags *convertFlags) error {
	if flags.to != convertToJSON && flags.to != convertToMarkdown {
		return &exitError{code: ExitInvalidUsage, err: fmt.Errorf("invalid --to %q: want json or markdown", flags.to)}
	}

	source, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	parser := markdown.NewParser(nil)
	serializer := markdown.NewSerializer(nil)
	styles := opts.styles(cmd)

	var doc *docmodel.Document
	if flags.to == convertToJSON {
		result := parser.Parse(source)
		cmd.PrintErr(styles.FormatWarnings(name, result.Warnings))
		doc = result.Document
	} else {
		doc = docmodel.NewDocument()
		if err := json.Unmarshal([]byte(source), doc); err != nil {
			return &exitError{code: ExitDataError, err: fmt.Errorf("convert %s: %w", name, err)}
		}
	}

	if flags.check {
		return checkRoundTrip(cmd, styles, name, doc, parser, serializer)
	}

	var out string
	if flags.to == convertToJSON {
		data, err := json.MarshalIndent(docmodel.ExportDocument(doc), "", "  ")
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		out = string(data)
	} else {
		out = serializer.Serialize(doc)
	}

	return writeOutput(cmd, flags.output, withNewline(out))
}

// checkRoundTrip verifies that doc survives a serialize/parse round trip and
// shows a diff of the two serializations when it does not.
func checkRoundTrip(
	cmd *cobra.Command,
	styles *pretty.Styles,
	name string,
	doc *docmodel.Document,
	parser *markdown.Parser,
	serializer *markdown.Serializer,
) error {
	result := markdown.RoundTrip(parser, serializer, doc)

	cmd.Print(styles.FormatRoundTrip(name, result.Stable))
	if diff := textdiff.Compare(name, result.First, result.Second); diff.Changed() {
		cmd.PrintErr(styles.FormatDiff(diff))
	}
	if !result.Stable {
		return ErrRoundTripUnstable
	}
	return nil
}
