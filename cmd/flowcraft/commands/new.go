package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	newName  string
	newForce bool
)

var newCmd = &cobra.Command{
	Use:   "new <diagram_file>",
	Short: "Creates an empty diagram with the configured canvas settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil && !newForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		s := newSession()
		if newName != "" {
			s.Model().Name = newName
		}
		if err := saveSession(s, path); err != nil {
			return err
		}
		okColor.Fprintf(cmd.OutOrStdout(), "✓ created %s\n", path)
		return nil
	},
}

func init() {
	AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newName, "name", "n", "", "Diagram name")
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "Overwrite an existing file")
}
