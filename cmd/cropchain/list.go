// List command queries batches with optional filtering.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/navin-oss/CropChain/internal/sqlite"
	"github.com/navin-oss/CropChain/pkg/types"
)

var (
	listFarmer   string
	listStage    string
	listRecalled bool
	listLimit    int
	listOffset   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List batches, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		filter := sqlite.BatchFilter{
			FarmerID: listFarmer,
			Limit:    listLimit,
			Offset:   listOffset,
		}
		if listStage != "" {
			stage, ok := types.NormalizeStage(listStage)
			if !ok {
				fmt.Fprintf(os.Stderr, "list: unknown stage %q\n", listStage)
				os.Exit(exitUserError)
			}
			filter.Stage = stage
		}
		if cmd.Flags().Changed("recalled") {
			filter.Recalled = &listRecalled
		}

		batches, err := svc.ListBatches(cmd.Context(), filter)
		if err != nil {
			fail("list", err)
		}

		if flagJSON {
			printBatchList(batches)
			return nil
		}
		for _, b := range batches {
			printBatch(b)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFarmer, "farmer", "", "filter by farmer identity")
	listCmd.Flags().StringVar(&listStage, "stage", "", "filter by current stage")
	listCmd.Flags().BoolVar(&listRecalled, "recalled", false, "filter by recall flag")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of batches (0 = all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of batches to skip")
}
