// Package sqlite implements the durable store for the CropChain ledger:
// one row per batch with its update timeline embedded, plus the counters
// table every identifier allocation funnels through.
package sqlite

// Schema DDL. The store is persistent across restarts, so every statement
// is idempotent.
const (
	createCounters = `CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    sequence INTEGER NOT NULL
);`

	createBatches = `CREATE TABLE IF NOT EXISTS batches (
    batch_id TEXT PRIMARY KEY,
    farmer_id TEXT NOT NULL,
    crop_type TEXT NOT NULL,
    quantity REAL NOT NULL,
    harvest_date TEXT NOT NULL,
    origin TEXT NOT NULL,
    current_stage TEXT NOT NULL,
    is_recalled INTEGER NOT NULL DEFAULT 0,
    integrity_hash TEXT NOT NULL,
    qr_code TEXT,
    updates TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createBatchesFarmerIndex = `CREATE INDEX IF NOT EXISTS idx_batches_farmer_id
    ON batches (farmer_id);`

	createBatchesCreatedIndex = `CREATE INDEX IF NOT EXISTS idx_batches_created_at
    ON batches (created_at);`
)

// schemaStatements lists the DDL executed on Open, in order.
var schemaStatements = []string{
	createCounters,
	createBatches,
	createBatchesFarmerIndex,
	createBatchesCreatedIndex,
}
