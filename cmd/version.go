package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of SuperCal",
	Long:  `All software has versions. This is SuperCal's.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("SuperCal %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
