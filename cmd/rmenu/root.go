package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/rmenu/internal/launch"
	"github.com/alexisbeaulieu97/rmenu/internal/tui"
)

type rootFlags struct {
	configPath string
	run        []string
	refresh    bool
	verbose    bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "rmenu",
		Short:         "rmenu is a plugin-driven application launcher",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !hasTerminal() {
				return runList(cmd, flags, &listOptions{})
			}
			return runMenu(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to the configuration file")
	pf.StringSliceVarP(&flags.run, "run", "r", nil, "Only run these plugins (repeatable)")
	pf.BoolVar(&flags.refresh, "refresh", false, "Ignore cached plugin results")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVar(&flags.logFile, "log-file", "", "Write logs to this file")

	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newCacheCmd(flags))
	cmd.AddCommand(newPluginsCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// hasTerminal reports whether the menu can be drawn. Tests replace it.
var hasTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// runMenu shows the interactive menu on stderr, leaving stdout to echo actions.
func runMenu(cmd *cobra.Command, flags *rootFlags) error {
	app, err := newAppContext(cmd, flags, true)
	if err != nil {
		return err
	}
	defer app.Close()

	plugins, err := app.cfg.Select(flags.run)
	if err != nil {
		return err
	}

	launcher, err := launch.New(app.cfg.Terminal, launch.WithStdout(cmd.OutOrStdout()), launch.WithLogger(app.log))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	results := app.scheduler.Stream(ctx, plugins)
	sel, err := tui.Run(ctx, tui.Params{
		Config:  app.cfg,
		Plugins: plugins,
		Results: results,
		Cancel:  cancel,
		Logger:  app.log,
	}, os.Stdin, os.Stderr)

	cancel()
	for range results {
	}
	if err != nil {
		return err
	}

	if sel.Action == nil {
		return nil
	}
	if err := launcher.Launch(*sel.Action); err != nil {
		app.log.Error(err, "launch failed")
		return err
	}
	return nil
}
