// Create command for the cropchain CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/navin-oss/CropChain/internal/ledger"
)

var (
	createCrop    string
	createQty     float64
	createHarvest string
	createOrigin  string
	createQRCode  string
	createNotes   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new produce batch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		harvest, err := time.Parse("2006-01-02", createHarvest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create: invalid --harvest-date %q (expected YYYY-MM-DD)\n", createHarvest)
			os.Exit(exitUserError)
		}

		// The batch belongs to the farmer the caller acts for, or to the
		// caller themselves.
		c := caller()
		farmerID := c.FarmerID
		if farmerID == "" {
			farmerID = c.ID
		}

		svc, store, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		b, err := svc.CreateBatch(cmd.Context(), ledger.CreatePayload{
			FarmerID:    farmerID,
			CropType:    createCrop,
			Quantity:    createQty,
			HarvestDate: harvest,
			Origin:      createOrigin,
			QRCode:      createQRCode,
			Notes:       createNotes,
		})
		if err != nil {
			fail("create", err)
		}

		if flagJSON {
			printBatch(b)
		} else {
			fmt.Printf("Created batch: %s\n", b.BatchID)
		}
		return nil
	},
}

func init() {
	addCallerFlags(createCmd)
	createCmd.Flags().StringVar(&createCrop, "crop", "", "crop type (rice, wheat, corn, tomato)")
	createCmd.Flags().Float64Var(&createQty, "quantity", 0, "quantity in kilograms")
	createCmd.Flags().StringVar(&createHarvest, "harvest-date", "", "harvest date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createOrigin, "origin", "", "origin location")
	createCmd.Flags().StringVar(&createQRCode, "qr-code", "", "opaque QR payload")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "notes for the initial timeline entry")

	createCmd.MarkFlagRequired("crop")
	createCmd.MarkFlagRequired("quantity")
	createCmd.MarkFlagRequired("harvest-date")
	createCmd.MarkFlagRequired("origin")
}
