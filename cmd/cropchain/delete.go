// Delete command removes a batch. Admin only.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <batch-id>",
	Short: "Delete a batch (admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		if err := svc.DeleteBatch(cmd.Context(), caller(), args[0]); err != nil {
			fail("delete", err)
		}

		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	addCallerFlags(deleteCmd)
}
