package commands

import (
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input_file> <output_file>",
	Short: "Converts a diagram between JSON and msgpack",
	Long: `The convert command loads a diagram and saves it again. The format of each
file follows its extension: .msgpack, .mpk and .mp are msgpack, anything
else is JSON. Loading repairs broken references on the way.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		if err := saveSession(s, args[1]); err != nil {
			return err
		}
		okColor.Fprintf(cmd.OutOrStdout(), "✓ %s → %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	AddCommand(convertCmd)
}
