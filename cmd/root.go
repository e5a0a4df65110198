package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Another0Noob/fridge-recipes/internal/catalog"
	"github.com/Another0Noob/fridge-recipes/internal/config"
	"github.com/Another0Noob/fridge-recipes/internal/logging"
	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fridge-recipes",
	Short: "Recommend recipes from the food safety recipe catalog for what is in your fridge",
	Long: `fridge-recipes downloads the COOKRCP01 recipe catalog and recommends recipes
that use the ingredients you have. A recipe is recommended when at least five
of your ingredients appear in its ingredient list, or when one of them appears
in its name.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		logging.Init(loaded.Log)
		cfg = loaded
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgFile,
		"config",
		"c",
		"",
		"path to config file",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"override the configured log level",
	)
}

// newCache builds the catalog cache over the configured API client.
func newCache() *catalog.Cache {
	return catalog.NewCache(recipeapi.NewClient(cfg.API))
}

// loadCatalog fetches the whole catalog, printing progress the way every
// command does.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	fmt.Println("--- Requesting Recipe Catalog ---")
	cat, err := newCache().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	fmt.Printf("Got %d recipes.\n", cat.Len())
	return cat, nil
}
