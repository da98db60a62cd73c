// Package types defines the batch and update entities, stage and crop
// enumerations, caller identity, standard errors, and configuration for the
// CropChain supply-chain ledger. It has no dependencies so every layer of
// the system can share it.
package types
