package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "vyaparsetu",
		Short: "VyaparSetu decision engine for MSME onboarding",
		Long: `vyaparsetu classifies product descriptions into the ONDC taxonomy, recommends
marketplaces and benchmarks prices for small merchants.

Configuration is read from the environment (and an optional .env file).
Running without a subcommand starts the HTTP and gRPC servers.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(pricingCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(adminTokenCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "vyaparsetu", version)
		},
	}
}
