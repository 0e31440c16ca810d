package commands

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"flowcraft/diagram"
)

var statsYAML bool

// Stats summarises the content of one diagram.
type Stats struct {
	File       string         `yaml:"file"`
	Name       string         `yaml:"name"`
	Layers     int            `yaml:"layers"`
	Shapes     int            `yaml:"shapes"`
	Containers int            `yaml:"containers"`
	Connectors int            `yaml:"connectors"`
	Dangling   int            `yaml:"dangling"`
	Groups     int            `yaml:"groups"`
	Types      map[string]int `yaml:"types"`
}

func collectStats(path string, d *diagram.Diagram) Stats {
	st := Stats{
		File:   path,
		Name:   d.Name,
		Layers: len(d.Layers()),
		Shapes: len(d.Shapes()),
		Groups: len(d.Groups()),
		Types:  make(map[string]int),
	}
	for _, s := range d.Shapes() {
		st.Types[s.Type]++
		if d.IsContainer(s) {
			st.Containers++
		}
	}
	for _, c := range d.Connectors() {
		st.Connectors++
		if c.Dangling() {
			st.Dangling++
		}
	}
	return st
}

func printStats(w io.Writer, st Stats) {
	labelColor.Fprintln(w, st.File)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  name\t%s\n", st.Name)
	fmt.Fprintf(tw, "  layers\t%d\n", st.Layers)
	fmt.Fprintf(tw, "  shapes\t%d\n", st.Shapes)
	fmt.Fprintf(tw, "  containers\t%d\n", st.Containers)
	fmt.Fprintf(tw, "  connectors\t%d (%d dangling)\n", st.Connectors, st.Dangling)
	fmt.Fprintf(tw, "  groups\t%d\n", st.Groups)
	tw.Flush()

	// Per-type counts get their own column widths
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	types := make([]string, 0, len(st.Types))
	for t := range st.Types {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(tw, "    %s\t%d\n", t, st.Types[t])
	}
	tw.Flush()
}

var statsCmd = &cobra.Command{
	Use:   "stats <diagram_file...>",
	Short: "Summarises the content of diagram files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var all []Stats
		for _, path := range args {
			s, err := openSession(path)
			if err != nil {
				return err
			}
			all = append(all, collectStats(path, s.Model()))
		}

		if statsYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(all)
		}
		for _, st := range all {
			printStats(out, st)
		}
		return nil
	},
}

func init() {
	AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsYAML, "yaml", false, "Print the summary as YAML")
}
