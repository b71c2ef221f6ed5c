package csvimport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// RowHash computes a deterministic content hash for a parsed row. The row
// map is serialized as JSON, which sorts keys, so two rows with identical
// content always hash the same regardless of column order. Used by the
// staging table's (job, hash) unique constraint to drop duplicate lines.
func RowHash(data map[string]string) string {
	payload, _ := json.Marshal(data)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
