package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/whatif"
)

var whatifCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Replay a past investment up to today",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, _ := cmd.Flags().GetString("symbol")
		startVal, _ := cmd.Flags().GetString("start")
		amount, _ := cmd.Flags().GetInt("amount")

		start, err := time.Parse(whatif.DateLayout, startVal)
		if err != nil {
			return fmt.Errorf("invalid start %q: use YYYY-MM-DD", startVal)
		}

		d, err := setup(cmd, setupOptions{market: true})
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := whatif.NewCalculator(d.market).Calculate(cmd.Context(), whatif.Request{
			Symbol: symbol,
			Start:  start,
			Amount: amount,
		})
		if err != nil {
			return errors.New(whatif.Message(symbol, err))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Summary())
		fmt.Fprintf(out, "  Start price: %s\n", res.StartPrice.StringFixed(2))
		fmt.Fprintf(out, "  End price:   %s\n", res.EndPrice.StringFixed(2))
		fmt.Fprintf(out, "  Shares:      %s\n", res.Shares.StringFixed(4))
		fmt.Fprintf(out, "  Return:      %s\n", res.ROIDisplay())
		return nil
	},
}

func init() {
	d := progress.DefaultWhatIfStart.Format(whatif.DateLayout)
	whatifCmd.Flags().String("symbol", progress.DefaultWhatIfSymbol, "Stock or crypto symbol")
	whatifCmd.Flags().String("start", d, "Investment date (YYYY-MM-DD)")
	whatifCmd.Flags().Int("amount", progress.DefaultWhatIfAmount, "Amount invested in dollars")
}
