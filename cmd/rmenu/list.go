package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/rmenu/internal/model"
	"github.com/alexisbeaulieu97/rmenu/internal/search"
	rmenuerrors "github.com/alexisbeaulieu97/rmenu/pkg/errors"
)

type listOptions struct {
	query  string
	labels bool
}

func newListCmd(flags *rootFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Collect entries from every plugin and print them",
		Long: `Collect entries from the configured plugins, using cached results where
the cache policy allows, and print them one JSON object per line in plugin
declaration order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Only print entries matching this query")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "Print entry labels instead of JSON")

	return cmd
}

func runList(cmd *cobra.Command, flags *rootFlags, opts *listOptions) error {
	app, err := newAppContext(cmd, flags, false)
	if err != nil {
		return err
	}
	defer app.Close()

	plugins, err := app.cfg.Select(flags.run)
	if err != nil {
		return err
	}

	entries, _ := app.scheduler.Collect(cmd.Context(), plugins)

	ix := search.NewIndex(search.Options{
		IgnoreCase:    app.cfg.IgnoreCase,
		Regex:         app.cfg.SearchRegex,
		Fuzzy:         app.cfg.Search.Fuzzy,
		MatchComments: app.cfg.Search.MatchComments,
	})
	ix.SetEntries(entries)

	matches, err := ix.Query(opts.query)
	if err != nil {
		if !errors.Is(err, rmenuerrors.ErrInvalidPattern) {
			return err
		}
		app.log.Warn(err, "query is not a valid pattern, matched literally")
	}

	out := cmd.OutOrStdout()
	if opts.labels {
		for _, m := range matches {
			if _, err := out.Write([]byte(m.Entry.Label() + "\n")); err != nil {
				return err
			}
		}
		return nil
	}

	enc := json.NewEncoder(out)
	for _, m := range matches {
		if err := enc.Encode(listRecord(m.Entry)); err != nil {
			return err
		}
	}
	return nil
}

// listEntry is an entry as printed by list, tagged like plugin output so it
// can be fed back through a plugin.
type listEntry struct {
	Type string `json:"type"`
	model.Entry
}

func listRecord(e model.Entry) listEntry {
	return listEntry{Type: "entry", Entry: e}
}
