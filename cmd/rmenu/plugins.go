package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/spf13/cobra"
)

func newPluginsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "Show configured plugins in declaration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, flags, false)
			if err != nil {
				return err
			}
			defer app.Close()

			plugins := app.cfg.OrderedPlugins()
			if len(plugins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plugins configured.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCACHE\tTIMEOUT\tEXEC")
			for _, p := range plugins {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Cache, p.Timeout(app.cfg.Timeout()), quoteArgs(p.Exec))
			}
			return w.Flush()
		},
	}
}

// quoteArgs joins an argv for display on one line, quoting any argument that
// would otherwise split into several words or rows.
func quoteArgs(args []string) string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsFunc(a, needsQuote) {
			a = strconv.Quote(a)
		}
		out[i] = a
	}
	return strings.Join(out, " ")
}

func needsQuote(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r) || r == '"' || r == '\'' || r == '\\'
}
