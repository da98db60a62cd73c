// Shared helpers for cropchain CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/navin-oss/CropChain/internal/ledger"
	"github.com/navin-oss/CropChain/internal/sqlite"
	"github.com/navin-oss/CropChain/pkg/types"
)

// Caller identity flags, shared by the commands that mutate batches.
var (
	flagCallerID string
	flagRole     string
	flagFarmerID string
)

// addCallerFlags registers the caller identity flags on a command.
func addCallerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagCallerID, "caller", "", "caller identity (required)")
	cmd.Flags().StringVar(&flagRole, "role", types.RoleFarmer, "caller role (farmer, mandi, retailer, admin)")
	cmd.Flags().StringVar(&flagFarmerID, "farmer-id", "", "alternate farmer identity the caller acts for")
	cmd.MarkFlagRequired("caller")
}

func caller() types.Caller {
	return types.Caller{ID: flagCallerID, Role: flagRole, FarmerID: flagFarmerID}
}

// openService resolves the data directory, opens the store, and wires the
// ledger service. The caller must defer store.Close().
func openService() (*ledger.Service, *sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	return ledger.NewService(store), store, nil
}

// printBatch writes a batch to stdout, as indented JSON under --json or a
// short human-readable line otherwise.
func printBatch(b *types.Batch) {
	if flagJSON {
		out, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "marshal JSON:", err)
			os.Exit(exitSysError)
		}
		fmt.Println(string(out))
		return
	}
	recalled := ""
	if b.IsRecalled {
		recalled = " [RECALLED]"
	}
	fmt.Printf("%s  %s  %s  %gkg  stage=%s  updates=%d%s\n",
		b.BatchID, b.FarmerID, b.CropType, b.Quantity,
		b.CurrentStage, len(b.Updates), recalled)
}

// printBatchList writes a slice of batches as one indented JSON array.
func printBatchList(batches []*types.Batch) {
	out, err := json.MarshalIndent(batches, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}

// fail prints the error and exits with the code its class maps to:
// validation, not-found, forbidden, and already-recalled are user errors;
// everything else is a system error.
func fail(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, err)
	switch {
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrForbidden),
		errors.Is(err, types.ErrAlreadyRecalled):
		os.Exit(exitUserError)
	default:
		os.Exit(exitSysError)
	}
}
