package database

import (
	"context"
	"time"
)

// JustificationRecord is one accepted finality justification, persisted for
// operator auditing (spec SUPPLEMENTED FEATURES: audit log).
type JustificationRecord struct {
	BridgeID    uint64
	BlockNumber uint64
	BlockHash   []byte
	Round       uint64
	SetID       uint64
	AcceptedAt  time.Time
}

// RecordJustification inserts an audit row for an accepted justification.
// Failure to write the audit trail never blocks the bridge state
// transition that already happened against the KV store; callers should log
// the error and continue.
func (c *Client) RecordJustification(ctx context.Context, rec JustificationRecord) error {
	_, err := c.ExecContext(ctx, `
		INSERT INTO justification_audit_log (bridge_id, block_number, block_hash, round, set_id)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.BridgeID, rec.BlockNumber, rec.BlockHash, rec.Round, rec.SetID)
	return err
}

// LatestJustifications returns the most recent audit rows for bridgeID,
// newest first, bounded by limit.
func (c *Client) LatestJustifications(ctx context.Context, bridgeID uint64, limit int) ([]JustificationRecord, error) {
	rows, err := c.QueryContext(ctx, `
		SELECT bridge_id, block_number, block_hash, round, set_id, accepted_at
		FROM justification_audit_log
		WHERE bridge_id = $1
		ORDER BY block_number DESC
		LIMIT $2
	`, bridgeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []JustificationRecord
	for rows.Next() {
		var rec JustificationRecord
		if err := rows.Scan(&rec.BridgeID, &rec.BlockNumber, &rec.BlockHash, &rec.Round, &rec.SetID, &rec.AcceptedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
