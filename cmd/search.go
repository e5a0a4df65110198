package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Fuzzy search recipe names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		term := strings.Join(args, " ")
		hits := cat.Search(term, searchLimit)
		fmt.Printf("%d recipes match %q.\n", len(hits), term)
		for _, r := range hits {
			fmt.Printf("%6s  [%s] %s\n", r.Seq, r.Category, r.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results, 0 for all")
}
