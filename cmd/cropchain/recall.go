// Recall command flags a batch as recalled. Admin only, one way.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var recallCmd = &cobra.Command{
	Use:   "recall <batch-id>",
	Short: "Recall a batch (admin only, irreversible)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "recall:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		b, err := svc.Recall(cmd.Context(), caller(), args[0])
		if err != nil {
			fail("recall", err)
		}

		if flagJSON {
			printBatch(b)
		} else {
			fmt.Printf("Recalled %s\n", b.BatchID)
		}
		return nil
	},
}

func init() {
	addCallerFlags(recallCmd)
}
