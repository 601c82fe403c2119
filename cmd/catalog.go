package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"grocerystore/catalog"
	"grocerystore/models"
	"grocerystore/thumbnails"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog",
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load <file.json>",
	Short: "Load categories, subcategories and products from a JSON fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		fixture, err := catalog.ReadFixture(file)
		if err != nil {
			return err
		}

		loader := catalog.NewLoader(catalogService(), catalog.NewMediaStore(env.cfg.Media.Root), env.log)
		stats, err := loader.Load(cmd.Context(), fixture, filepath.Dir(args[0]))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d categories, %d subcategories, %d products\n",
			stats.Categories, stats.Subcategories, stats.Products)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogLoadCmd)
}

func catalogService() *catalog.Service {
	deriver := thumbnails.NewDeriver(env.cfg.Media.Root, models.DefaultProductImage, env.log)
	return catalog.NewService(env.db, deriver, env.log)
}
