// Version command for the cropchain CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navin-oss/CropChain/pkg/cropchain"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cropchain version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cropchain", cropchain.Version)
	},
}
