package cmd

import (
	"lending/core"
	"lending/pkg/id"

	"github.com/fox-one/pkg/qrcode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "print a pay url for a transfer to the market",
	Long:  "action is one of collateralize, repay, close or liquidate. amount is in ledger units",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		database := provideDatabase()
		defer database.Close()

		markets := provideMarketService(provideMarketStore(database))
		market, err := markets.Configuration(ctx)
		if err != nil {
			cmd.PrintErrln("read market error:", err)
			return
		}

		action, _ := cmd.Flags().GetString("action")
		accountID, _ := cmd.Flags().GetString("account")
		amount, err := decimal.NewFromString(cmd.Flag("amount").Value.String())
		if err != nil || !amount.IsPositive() {
			cmd.PrintErrln("invalid amount")
			return
		}

		transfer, err := core.PayTransfer(market, action, accountID, amount.Truncate(0))
		if err != nil {
			cmd.PrintErrln(err)
			return
		}
		transfer.TraceID = id.GenTraceID()

		url, err := provideWalletService(provideWallet()).PaySchemaURL(ctx, transfer)
		if err != nil {
			cmd.PrintErrln("pay url error:", err)
			return
		}

		cmd.Println("trace:", transfer.TraceID)
		cmd.Println("memo:", transfer.Memo)
		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func init() {
	rootCmd.AddCommand(payCmd)

	payCmd.Flags().StringP("action", "a", "repay", "collateralize, repay, close or liquidate")
	payCmd.Flags().StringP("amount", "q", "", "amount in ledger units")
	payCmd.Flags().String("account", "", "account to liquidate")
}
