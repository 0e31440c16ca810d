package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rerouteOutput string

var rerouteCmd = &cobra.Command{
	Use:   "reroute <diagram_file>",
	Short: "Recomputes every connector path",
	Long: `The reroute command loads a diagram, recomputes the stored path of every
connector with the configured clearance, and writes the result back, or to
the file given with --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		s.Router().RerouteAll()

		dest := args[0]
		if rerouteOutput != "" {
			dest = rerouteOutput
		}
		if err := saveSession(s, dest); err != nil {
			return err
		}
		n := len(s.Model().Connectors())
		log.Info("rerouted", zap.String("file", dest), zap.Int("connectors", n))
		okColor.Fprintf(cmd.OutOrStdout(), "✓ rerouted %d connectors → %s\n", n, dest)
		return nil
	},
}

func init() {
	AddCommand(rerouteCmd)
	rerouteCmd.Flags().StringVarP(&rerouteOutput, "output", "o", "", "Output file (default: overwrite the input)")
}
