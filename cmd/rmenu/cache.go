package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/rmenu/internal/cache"
)

func newCacheCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached plugin results",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show cached plugin results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(cmd, flags)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear [plugin...]",
		Short: "Remove cached results for the named plugins, or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(cmd, flags, args)
		},
	})

	return cmd
}

func runCacheList(cmd *cobra.Command, flags *rootFlags) error {
	app, err := newAppContext(cmd, flags, false)
	if err != nil {
		return err
	}
	defer app.Close()

	records, err := app.store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No cached plugin results.")
		return nil
	}

	session, err := cache.NewRuntimeSession().SessionID()
	if err != nil {
		app.log.Warn(err, "session id unavailable")
	}
	now := time.Now()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLUGIN\tCAPTURED\tENTRIES\tPOLICY\tSTATE")
	for _, rec := range records {
		policy := "-"
		state := "orphaned"
		if p, ok := app.cfg.Plugins[rec.Plugin]; ok {
			policy = p.Cache.String()
			state = "stale"
			if cache.IsValid(rec, p.Cache, now, session) {
				state = "valid"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			rec.Plugin,
			rec.CapturedAt.Local().Format(time.DateTime),
			len(rec.Entries),
			policy,
			state,
		)
	}
	return w.Flush()
}

func runCacheClear(cmd *cobra.Command, flags *rootFlags, names []string) error {
	app, err := newAppContext(cmd, flags, false)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(names) == 0 {
		if err := app.store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared all cached plugin results.")
		return nil
	}

	for _, name := range names {
		if err := app.store.Invalidate(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s.\n", name)
	}
	return nil
}
