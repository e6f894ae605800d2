package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wallstreet101/internal/analyzer"
	"github.com/abhisek/wallstreet101/internal/app"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/session"
	"github.com/abhisek/wallstreet101/internal/whatif"
)

// runApp opens the journal, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := setup(cmd, setupOptions{tui: true, journal: true, market: true})
	if err != nil {
		return err
	}
	defer d.Close()

	logger := d.log.Named("tui")
	opts := []session.Option{session.WithLogger(logger)}
	repo := d.eventRepo()
	if repo != nil {
		opts = append(opts, session.WithEventRepo(repo))
	}

	env := &screen.Env{
		Session:   session.New(d.catalog, opts...),
		Market:    d.market,
		Analyzer:  analyzer.New(d.market),
		WhatIf:    whatif.NewCalculator(d.market),
		EventRepo: repo,
		Logger:    logger,
	}
	if err := app.Run(env); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
