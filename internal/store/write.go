package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sound/internal/ir"
)

// ErrFingerprintMismatch is returned when a record's Fingerprint is not the
// content hash of the record.
var ErrFingerprintMismatch = errors.New("inventory fingerprint does not match its content")

// WriteInventory stores a built inventory with its phonemes and realizations.
//
// Uses ON CONFLICT(fingerprint) DO NOTHING for idempotency: writing the same
// content again, even from a different build, is silently ignored and the
// first build id is kept. It reports whether the record was inserted.
//
// The record's fingerprint is recomputed before anything is written; a record
// that was edited after export is rejected with ErrFingerprintMismatch.
func (s *Store) WriteInventory(ctx context.Context, rec ir.InventoryRecord) (bool, error) {
	fp, err := ir.InventoryFingerprint(rec)
	if err != nil {
		return false, fmt.Errorf("write inventory: %w", err)
	}
	if rec.Fingerprint != fp {
		return false, fmt.Errorf("write inventory %s: %w", rec.Accent, ErrFingerprintMismatch)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write inventory: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO inventories
		(fingerprint, accent, table_fingerprint, build_id, skipped, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM inventories))
		ON CONFLICT(fingerprint) DO NOTHING
	`,
		rec.Fingerprint,
		rec.Accent,
		rec.TableFingerprint,
		rec.BuildID,
		rec.Skipped,
	)
	if err != nil {
		return false, fmt.Errorf("write inventory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write inventory: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for _, p := range rec.Phonemes {
		if err := writePhoneme(ctx, tx, rec.Fingerprint, p); err != nil {
			return false, fmt.Errorf("write inventory %s: %w", rec.Accent, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write inventory: commit: %w", err)
	}
	return true, nil
}

func writePhoneme(ctx context.Context, tx *sql.Tx, inventory string, p ir.PhonemeRecord) error {
	bundleJSON, err := marshalBundle(p.Bundle)
	if err != nil {
		return fmt.Errorf("phoneme %s: %w", p.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO phonemes (inventory, idx, id, bundle)
		VALUES (?, ?, ?, ?)
	`, inventory, p.Index, p.ID, bundleJSON)
	if err != nil {
		return fmt.Errorf("phoneme %s: %w", p.ID, err)
	}

	for ord, sym := range p.Symbols {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO realizations (inventory, phoneme_idx, ord, symbol_key, ipa)
			VALUES (?, ?, ?, ?, ?)
		`, inventory, p.Index, ord, sym.Key, sym.IPA)
		if err != nil {
			return fmt.Errorf("phoneme %s symbol %s: %w", p.ID, sym.Key, err)
		}
	}
	return nil
}
