package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/latticebft/lattice/abci"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lattice",
	Long:  `Print the version number of lattice.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lattice v1.0 (app v%d)\n", abci.AppVersion)
	},
}
