package cmd

import (
	"fmt"
	"strconv"

	"grocerystore/catalog"

	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage products",
}

var productSetImageCmd = &cobra.Command{
	Use:   "set-image <id> <path>",
	Short: "Replace a product image and regenerate its thumbnails",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid product id %q", args[0])
		}

		image, err := catalog.NewMediaStore(env.cfg.Media.Root).Import(args[1], catalog.ProductImageDir)
		if err != nil {
			return err
		}

		product, err := catalogService().SetProductImage(cmd.Context(), uint(id), image)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Product %d image: %s\n", product.ID, product.Image)
		for _, variant := range []string{product.ImageSmall, product.ImageMedium, product.ImageLarge} {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", variant)
		}
		return nil
	},
}

func init() {
	productCmd.AddCommand(productSetImageCmd)
}
