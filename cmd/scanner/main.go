package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// @title Grocery Barcode Scanner API
// @version 1.0
// @description Barcode lookup, product search and lookup metrics
// @host localhost:8000
// @BasePath /
// @schemes http https
// @securityDefinitions.basic BasicAuth
func main() {
	// a missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "scanner",
		Short:         "Barcode lookup service with event logging and metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
