// Update command appends a timeline entry to an owned batch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/navin-oss/CropChain/pkg/types"
)

var (
	updateStage    string
	updateLocation string
	updateNotes    string
)

var updateCmd = &cobra.Command{
	Use:   "update <batch-id>",
	Short: "Append a timeline update to a batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		b, err := svc.Authorize(cmd.Context(), caller(), args[0])
		if err != nil {
			fail("update", err)
		}

		b, err = svc.AppendUpdate(cmd.Context(), b, types.Update{
			Stage:    updateStage,
			Actor:    flagCallerID,
			Location: updateLocation,
			Notes:    updateNotes,
		})
		if err != nil {
			fail("update", err)
		}

		if flagJSON {
			printBatch(b)
		} else {
			fmt.Printf("Updated %s: stage=%s updates=%d\n", b.BatchID, b.CurrentStage, len(b.Updates))
		}
		return nil
	},
}

func init() {
	addCallerFlags(updateCmd)
	updateCmd.Flags().StringVar(&updateStage, "stage", "", "new stage (farmer, mandi, transport, retailer)")
	updateCmd.Flags().StringVar(&updateLocation, "location", "", "current location")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "free-form notes")

	updateCmd.MarkFlagRequired("stage")
	updateCmd.MarkFlagRequired("location")
}
