package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var outputFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole recipe catalog to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(
		&outputFile,
		"output",
		"o",
		"",
		"output file (default YYYY-MM-DD-recipes.json)",
	)
}

func runExport(cmd *cobra.Command, outputPath string) error {
	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = time.Now().Format("2006-01-02") + "-recipes.json"
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cat.Recipes()); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	fmt.Printf("Wrote %d recipes to %s.\n", cat.Len(), outputPath)
	return nil
}
