package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newResourcesCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the resources and their filter keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tPAGE\tFILTERS")
			for _, l := range state.listers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Name(), l.Title(), l.Path(), strings.Join(l.FilterKeys(), ", "))
			}
			return w.Flush()
		},
	}
}
