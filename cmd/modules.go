package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wallstreet101/internal/catalog"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Browse the learning modules",
}

var modulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all modules, or the cards of one module",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		slug, _ := cmd.Flags().GetString("module")
		if slug != "" {
			m, err := cat.ModuleBySlug(slug)
			if err != nil {
				return fmt.Errorf("no module found for %q", slug)
			}
			printCards(cmd, m)
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-32s  %5s  %9s\n", "ID", "Name", "Cards", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 68))
		for _, m := range cat.Modules() {
			fmt.Fprintf(out, "%-16s  %-32s  %5d  %9d\n", m.Slug, m.Title(), len(m.Cards), m.TotalQuestions())
		}
		fmt.Fprintf(out, "\n%d modules, %d concepts\n", cat.Len(), cat.TotalCards())
		return nil
	},
}

func printCards(cmd *cobra.Command, m catalog.Module) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", m.Title())
	fmt.Fprintf(out, "%3s  %-28s  %5s  %s\n", "#", "Term", "Tiers", "Chart")
	fmt.Fprintln(out, strings.Repeat("─", 68))
	for i, c := range m.Cards {
		chart := "-"
		if c.Chart != nil {
			chart = fmt.Sprintf("%s (%s)", c.Chart.Symbol, c.Chart.Concept.DisplayName())
		}
		fmt.Fprintf(out, "%3d  %-28s  %5d  %s\n", i+1, catalog.Truncate(c.Term, 25), c.Tiers(), chart)
	}
	fmt.Fprintf(out, "\n%d cards\n", len(m.Cards))
}

func init() {
	modulesListCmd.Flags().String("module", "", "Module ID to list the cards of")
	modulesCmd.AddCommand(modulesListCmd)
}
