package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFileFlag string
	rootCmd     = &cobra.Command{
		Use:   "eternactl",
		Short: "Operator CLI for the Eterna story service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFileFlag == "" {
				_ = godotenv.Load()
				return nil
			}
			return godotenv.Load(envFileFlag)
		},
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Load variables from this file instead of ./.env")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
