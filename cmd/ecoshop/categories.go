package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecoshop/backend/internal/infrastructure/catalog"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [name]",
	Short: "List catalog categories, or the entries of one category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		printCategories(out, cat.Categories())
		return nil
	}

	entries := cat.CategoryProducts(args[0])
	if len(entries) == 0 {
		return fmt.Errorf("unknown category %q", args[0])
	}
	printEntries(out, args[0], entries)
	return nil
}
