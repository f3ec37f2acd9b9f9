package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "market configuration",
}

var initMarketCmd = &cobra.Command{
	Use:   "init",
	Short: "initialize the market with the configured parameters, only once",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		database := provideDatabase()
		defer database.Close()

		markets := provideMarketService(provideMarketStore(database))

		lower, _ := cmd.Flags().GetStringSlice("lower")
		market, err := markets.Init(ctx, lower)
		if err != nil {
			cmd.PrintErrln("init market error:", err)
			return
		}

		data, _ := json.MarshalIndent(market, "", "  ")
		cmd.Println(string(data))
	},
}

var showMarketCmd = &cobra.Command{
	Use:   "show",
	Short: "print the active market configuration",
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

		data, _ := json.MarshalIndent(market, "", "  ")
		cmd.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(initMarketCmd)
	marketCmd.AddCommand(showMarketCmd)

	initMarketCmd.Flags().StringSlice("lower", nil, "accounts granted the lower collateral factor")
}
