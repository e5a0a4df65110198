package cmd

import (
	"fmt"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/inventory"
	"github.com/Another0Noob/fridge-recipes/internal/recommend"
	"github.com/spf13/cobra"
)

var (
	inputFile string
	category  string
	expiring  time.Duration
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend recipes for the ingredients in an inventory file",
	Long: `recommend reads an inventory file (.csv with name,expires,memo columns or
.txt with one ingredient per line) and prints the recipes that fit it.

With --expiring only items that expire within the given duration are used,
so the recommendations use up what goes bad first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("category") {
			category = cfg.Category
		}
		return runRecommend(cmd, inputFile, category, expiring)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVarP(
		&inputFile,
		"input",
		"i",
		"",
		"path to inventory file",
	)
	recommendCmd.MarkFlagRequired("input")

	recommendCmd.Flags().StringVar(&category, "category", "", "only recommend recipes of this category")
	recommendCmd.Flags().DurationVar(&expiring, "expiring", 0, "only use items expiring within this duration (e.g. 72h)")
}

func runRecommend(cmd *cobra.Command, inputPath, category string, expiring time.Duration) error {
	fmt.Println("--- Reading Inventory ---")

	items, err := inventory.Parse(inputPath)
	if err != nil {
		return fmt.Errorf("parse inventory: %w", err)
	}
	fmt.Printf("Got %d items.\n", len(items))

	if expiring > 0 {
		items = inventory.ExpiringWithin(items, time.Now(), expiring)
		fmt.Printf("%d items expire within %s.\n", len(items), expiring)
	}

	ctx := cmd.Context()
	engine := recommend.New(newCache())

	fmt.Println("--- Requesting Recipe Catalog ---")
	if err := engine.Load(ctx); err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}
	fmt.Printf("Got %d recipes.\n", engine.Catalog().Len())

	fmt.Println("--- Matching Recipes ---")
	engine.SetCategory(category)
	engine.SetIngredients(inventory.Names(items)...)

	recipes := engine.Current()
	if category != "" {
		fmt.Printf("Found %d %s recipes.\n", len(recipes), category)
	} else {
		fmt.Printf("Found %d recipes.\n", len(recipes))
	}
	for _, r := range recipes {
		fmt.Printf("%6s  [%s] %s\n", r.Seq, r.Category, r.Name)
	}
	return nil
}
