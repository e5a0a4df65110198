package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <seq>",
	Short: "Print one recipe with nutrition and steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		recipe, ok := cat.Get(args[0])
		if !ok {
			return fmt.Errorf("no recipe with sequence %s", args[0])
		}
		printRecipe(os.Stdout, recipe)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func printRecipe(w io.Writer, r recipeapi.Recipe) {
	fmt.Fprintf(w, "%s (%s) [%s]\n", r.Name, r.Seq, r.Category)
	if r.MainImage != "" {
		fmt.Fprintf(w, "Image: %s\n", r.MainImage)
	}

	n := r.Nutrition
	fmt.Fprintln(w, "\nNutrition")
	fmt.Fprintf(w, "  Energy:  %s\n", orNA(n.Energy))
	fmt.Fprintf(w, "  Carbs:   %s\n", orNA(n.Carbs))
	fmt.Fprintf(w, "  Protein: %s\n", orNA(n.Protein))
	fmt.Fprintf(w, "  Fat:     %s\n", orNA(n.Fat))
	fmt.Fprintf(w, "  Sodium:  %s\n", orNA(n.Sodium))

	fmt.Fprintln(w, "\nIngredients")
	fmt.Fprintf(w, "  %s\n", r.Ingredients)

	fmt.Fprintln(w, "\nSteps")
	for _, s := range r.Steps() {
		fmt.Fprintf(w, "  %2d. %s\n", s.Number, s.Text)
		if s.Image != "" {
			fmt.Fprintf(w, "      %s\n", s.Image)
		}
	}
}
