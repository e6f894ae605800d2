package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wallstreet101/internal/analyzer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Show price, moving averages, RSI and trend for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, setupOptions{market: true})
		if err != nil {
			return err
		}
		defer d.Close()

		r, err := analyzer.New(d.market).Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, r.Title())
		fmt.Fprintf(out, "  %s\n\n", r.PriceLine())
		fmt.Fprintf(out, "  %-14s %s\n", "Market cap", r.MarketCapDisplay())
		fmt.Fprintf(out, "  %-14s %s\n", "P/E ratio", r.PEDisplay())
		fmt.Fprintf(out, "  %-14s %s\n", "50-day MA", optional(r.MA50))
		fmt.Fprintf(out, "  %-14s %s\n", "200-day MA", optional(r.MA200))
		rsi := optional(r.RSI)
		if r.Signal != "" {
			rsi += " (" + string(r.Signal) + ")"
		}
		fmt.Fprintf(out, "  %-14s %s\n", "RSI (14)", rsi)
		fmt.Fprintf(out, "  %-14s %s\n", "52-week high", optional(r.High52))
		fmt.Fprintf(out, "  %-14s %s\n", "52-week low", optional(r.Low52))
		fmt.Fprintf(out, "  %-14s %s\n", "Trend", r.Trend.Label())

		if p := r.Profile; !p.Empty() {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %-14s %s\n", "Sector", orNA(p.Sector))
			fmt.Fprintf(out, "  %-14s %s\n", "Industry", orNA(p.Industry))
			fmt.Fprintf(out, "  %-14s %s\n", "Website", orNA(p.Website))
			if len(p.News) > 0 {
				fmt.Fprintln(out, "\nRecent news")
				for _, n := range p.News {
					fmt.Fprintf(out, "  - %s (%s)\n    %s\n", n.Title, orNA(n.Publisher), n.Link)
				}
			}
		}
		return nil
	},
}

func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func orNA(s string) string {
	if s == "" {
		return analyzer.NotAvailable
	}
	return s
}
