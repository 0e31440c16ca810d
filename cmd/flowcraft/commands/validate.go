package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowcraft/shapes"
	"flowcraft/validation"
)

var strict bool

var validateCmd = &cobra.Command{
	Use:   "validate <diagram_file...>",
	Short: "Checks diagram files for broken references",
	Long: `The validate command decodes one or more diagram files and checks ids,
layers, groups, containers and connector endpoints. Problems that loading
would silently repair are reported as well.`,
	Args: cobra.MinimumNArgs(1), // Require at least one file path
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		v := validation.NewValidator(shapes.Default())
		v.SetStrictMode(strict)

		failed := 0
		for _, path := range args {
			doc, err := readDocument(path)
			if err != nil {
				failed++
				errColor.Fprintf(out, "✗ %s\n", path)
				fmt.Fprintf(out, "    %v\n", err)
				continue
			}
			errs := v.Validate(doc)
			log.Debug("validated", zap.String("file", path), zap.Int("problems", len(errs)))
			if len(errs) == 0 {
				okColor.Fprintf(out, "✓ %s\n", path)
				continue
			}
			failed++
			errColor.Fprintf(out, "✗ %s (%d problems)\n", path, len(errs))
			for _, e := range errs {
				fmt.Fprintf(out, "    %s\n", e)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed validation", failed, len(args))
		}
		return nil
	},
}

func init() {
	AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&strict, "strict", "s", false, "Also flag unknown shape types, unknown ports and single-member groups")
}
