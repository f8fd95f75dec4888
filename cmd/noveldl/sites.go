package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joelsnl/noveldl/pkg/sources"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List supported novel sites",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range sources.Supported() {
			fmt.Println(name)
		}
	},
}
