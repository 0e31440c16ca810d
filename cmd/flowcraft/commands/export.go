package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowcraft/export"
	"flowcraft/layout"
)

var (
	exportFormat    string
	exportDirection string
)

var exportCmd = &cobra.Command{
	Use:   "export <diagram_file> [output_file]",
	Short: "Writes a diagram as a Mermaid flowchart or a Graphviz DOT graph",
	Long: `The export command writes the shapes, containers and connectors of a
diagram as text. Containers become subgraphs. Connectors with a free end
cannot be expressed and are left out.

The format is taken from --format, then from the output extension (.mmd,
.mermaid, .dot, .gv). Without an output file the text goes to stdout as
Mermaid unless --format says otherwise.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], ""
		if len(args) == 2 {
			out = args[1]
		}

		format, err := exportFormatFor(out)
		if err != nil {
			return err
		}
		dir := layout.LeftRight
		if exportDirection != "" {
			dir = layout.ParseDirection(exportDirection)
		}
		exp, err := export.NewExporter(format, dir)
		if err != nil {
			return err
		}

		s, err := openSession(in)
		if err != nil {
			return err
		}
		text, err := exp.Export(s.Model())
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		log.Debug("exported diagram",
			zap.String("format", exp.FormatName()),
			zap.Stringer("direction", dir),
			zap.Int("bytes", len(text)))

		if out == "" {
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		}
		if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		okColor.Fprintf(cmd.OutOrStdout(), "✓ exported %s (%s) → %s\n", in, exp.FormatName(), out)
		return nil
	},
}

// exportFormatFor picks the format from the flag or the output extension.
func exportFormatFor(out string) (export.Format, error) {
	if exportFormat != "" {
		return export.ParseFormat(exportFormat)
	}
	if out == "" {
		return export.FormatMermaid, nil
	}
	if f, ok := export.FormatForFile(out); ok {
		return f, nil
	}
	return "", fmt.Errorf("cannot tell the format of %s, use --format", out)
}

func init() {
	AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: mermaid or graphviz (default: from extension)")
	exportCmd.Flags().StringVarP(&exportDirection, "direction", "d", "", "Flow direction written to the output: LR, TB, RL or BT")
}
