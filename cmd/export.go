package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/export"
	"github.com/abhisek/wallstreet101/internal/quiz"
	"github.com/abhisek/wallstreet101/internal/session"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		demo, _ := cmd.Flags().GetBool("demo")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		var ov *session.Overview
		if demo {
			o, err := demoOverview(cmd.Context(), cat)
			if err != nil {
				return fmt.Errorf("demo session: %w", err)
			}
			ov = &o
		}

		if err := export.WriteFile(out, cat, ov); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d modules, %d concepts)\n", out, cat.Len(), cat.TotalCards())
		return nil
	},
}

// demoOverview plays a throwaway session through the first module, passing
// the first tier of every card, and returns the resulting overview.
func demoOverview(ctx context.Context, cat *catalog.Catalog) (session.Overview, error) {
	sess := session.New(cat)
	for {
		if err := sess.StartQuiz(ctx); err != nil {
			return session.Overview{}, err
		}
		v, _ := sess.ActiveQuiz()
		if _, err := sess.SelectOption(ctx, v.Question.Correct); err != nil {
			return session.Overview{}, err
		}
		err := sess.NextCard(ctx)
		if errors.Is(err, quiz.ErrLastCard) {
			break
		}
		if err != nil {
			return session.Overview{}, err
		}
	}
	sess.LeaveQuiz(ctx)
	return sess.Overview(), nil
}

func init() {
	exportCmd.Flags().String("out", "catalog.xlsx", "Output .xlsx path")
	exportCmd.Flags().Bool("demo", false, "Include a Progress sheet from a demo session that completes the first module")
}
