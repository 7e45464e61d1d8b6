package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dukerupert/pantrybot/internal/config"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pantrybot %s (%s %s/%s)\n",
				config.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
