package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecoshop/backend/internal/app"
)

var searchTimeout time.Duration

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search eco-friendly products once and print them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 2*time.Minute, "overall search timeout")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	products, err := a.Search.Search(ctx, query)
	if err != nil {
		return err
	}

	printProducts(cmd.OutOrStdout(), query, products)
	return nil
}
