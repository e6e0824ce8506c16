package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/recolor/internal/lexer"
	"github.com/dshills/recolor/internal/theme"
)

func newLanguagesCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List built-in tokenizers and themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := lexer.DefaultRegistry()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANGUAGE\tEXTENSIONS")
			for _, name := range reg.Languages() {
				tok, _ := reg.GetByLanguage(name)
				fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(tok.FileExtensions(), " "))
			}
			fmt.Fprintf(tw, "\nthemes: %s\n", strings.Join(theme.Names(), ", "))
			return tw.Flush()
		},
	}
}
