package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wallstreet101/internal/catalog"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Answer one module's quiz questions in the terminal (no journal)",
	Long: `Walk through every card of a module and answer one tier of its quiz.

This is a stateless practice mode: no session, no badges, no events.
Useful for reviewing vocabulary or checking catalog content.`,
	RunE: runDrill,
}

func init() {
	drillCmd.Flags().String("module", "", "Module ID (required)")
	drillCmd.Flags().Int("tier", 1, "Quiz tier to ask on each card")
	_ = drillCmd.MarkFlagRequired("module")
}

func runDrill(cmd *cobra.Command, args []string) error {
	slug, _ := cmd.Flags().GetString("module")
	tier, _ := cmd.Flags().GetInt("tier")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	m, err := cat.ModuleBySlug(slug)
	if err != nil {
		return fmt.Errorf("no module found for %q", slug)
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintf(out, "%s: tier %d, %d cards\n\n", m.Title(), tier, len(m.Cards))

	var asked, correct int
	for i, card := range m.Cards {
		q, err := card.Question(tier)
		if err != nil {
			fmt.Fprintf(out, "Card %d (%s): no tier %d question\n\n", i+1, card.Term, tier)
			continue
		}
		asked++

		fmt.Fprintf(out, "── %s (%d/%d) ──\n", card.Term, i+1, len(m.Cards))
		fmt.Fprintln(out, q.Prompt)
		for j, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, o.Text)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		choice, ok := parseChoice(scanner.Text(), q)
		if !ok {
			fmt.Fprintln(out, "(skipped)")
			fmt.Fprintln(out)
			continue
		}

		if q.IsCorrect(choice) {
			correct++
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintln(out, "\033[31m✗ Not quite.\033[0m", q.Options[choice].Reasoning)
		}
		if exp := q.Explanation(); exp != "" {
			fmt.Fprintf(out, "Explanation: %s\n", exp)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", correct, asked)
	return nil
}

// parseChoice reads a 1-based option number or a letter such as "b".
func parseChoice(s string, q catalog.Question) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		if len(s) != 1 || s[0] < 'a' || s[0] > 'z' {
			return 0, false
		}
		i = int(s[0]-'a') + 1
	}
	if !q.ValidOption(i - 1) {
		return 0, false
	}
	return i - 1, true
}
