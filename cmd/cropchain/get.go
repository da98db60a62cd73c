// Get command prints one batch with its full timeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <batch-id>",
	Short: "Show a batch and its timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		b, err := svc.GetBatch(cmd.Context(), args[0])
		if err != nil {
			fail("get", err)
		}

		printBatch(b)
		if !flagJSON {
			for _, u := range b.Updates {
				fmt.Printf("  %s  %-10s %-20s %s\n",
					u.Timestamp.Format("2006-01-02 15:04:05"), u.Stage, u.Location, u.Actor)
			}
		}
		return nil
	},
}
