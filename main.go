package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/Chative-Customer-Service/pkg/config"
	logx "github.com/tanpawarit/Chative-Customer-Service/pkg/logger"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "customer-service",
		Short: "Cross-border ERP customer service inquiry router",
		Long: `Classifies customer inquiries as order, product or general and answers
them with a specialised LLM agent backed by GitHub Models.

Examples:
  customer-service                       # same as "serve"
  customer-service serve
  customer-service ask "Where is my order ORD-12345?"
  customer-service ask                   # interactive session
  customer-service config set-token`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configx.SetEnvFile(envFile)
			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return fmt.Errorf("load log config: %w", err)
			}
			logx.Init(*logCfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default ./.env when present)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
