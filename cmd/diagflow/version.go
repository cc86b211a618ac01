package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opskit/diagflow/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the diagflow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("diagflow %s\n", version.Get())
	},
}
