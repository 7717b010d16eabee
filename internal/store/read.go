package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/sound/internal/ir"
)

// InventorySummary describes a stored inventory without its phonemes.
type InventorySummary struct {
	Fingerprint      string `json:"fingerprint"`
	Accent           string `json:"accent"`
	TableFingerprint string `json:"table_fingerprint"`
	BuildID          string `json:"build_id"`
	Skipped          int64  `json:"skipped"`
	Phonemes         int64  `json:"phonemes"`
	Seq              int64  `json:"seq"`
}

const summaryColumns = `
	i.fingerprint, i.accent, i.table_fingerprint, i.build_id, i.skipped,
	(SELECT COUNT(*) FROM phonemes p WHERE p.inventory = i.fingerprint),
	i.seq`

// ListInventories returns every stored inventory in write order.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListInventories(ctx context.Context) ([]InventorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM inventories i
		ORDER BY i.seq ASC, i.fingerprint COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query inventories: %w", err)
	}
	defer rows.Close()

	summaries := []InventorySummary{}
	for rows.Next() {
		var sum InventorySummary
		if err := scanSummary(rows, &sum); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventories: %w", err)
	}
	return summaries, nil
}

// LatestInventory returns the most recently written inventory of an accent
// built from the given table.
// Returns sql.ErrNoRows if there is none.
func (s *Store) LatestInventory(ctx context.Context, accent, tableFingerprint string) (InventorySummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+summaryColumns+`
		FROM inventories i
		WHERE i.accent = ? AND i.table_fingerprint = ?
		ORDER BY i.seq DESC
		LIMIT 1
	`, accent, tableFingerprint)

	var sum InventorySummary
	if err := scanSummary(row, &sum); err != nil {
		return InventorySummary{}, err
	}
	return sum, nil
}

// ReadInventory retrieves a stored inventory by fingerprint.
// Returns sql.ErrNoRows if not found.
//
// The returned record has the same fingerprint it was written with.
func (s *Store) ReadInventory(ctx context.Context, fingerprint string) (ir.InventoryRecord, error) {
	var rec ir.InventoryRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, accent, table_fingerprint, build_id, skipped
		FROM inventories
		WHERE fingerprint = ?
	`, fingerprint).Scan(&rec.Fingerprint, &rec.Accent, &rec.TableFingerprint, &rec.BuildID, &rec.Skipped)
	if err != nil {
		return ir.InventoryRecord{}, err
	}

	phonemes, err := s.readPhonemes(ctx, fingerprint)
	if err != nil {
		return ir.InventoryRecord{}, err
	}
	rec.Phonemes = phonemes
	return rec, nil
}

// PhonemeForSymbol returns the phoneme of a stored inventory that the symbol
// (in its key form, e.g. "p[aspirated]") reduces to.
// Returns sql.ErrNoRows if the symbol is not realized in the inventory.
func (s *Store) PhonemeForSymbol(ctx context.Context, fingerprint, symbolKey string) (ir.PhonemeRecord, error) {
	var idx int64
	err := s.db.QueryRowContext(ctx, `
		SELECT phoneme_idx
		FROM realizations
		WHERE inventory = ? AND symbol_key = ?
	`, fingerprint, symbolKey).Scan(&idx)
	if err != nil {
		return ir.PhonemeRecord{}, err
	}

	phonemes, err := s.queryPhonemes(ctx, `WHERE p.inventory = ? AND p.idx = ?`, fingerprint, idx)
	if err != nil {
		return ir.PhonemeRecord{}, err
	}
	if len(phonemes) == 0 {
		return ir.PhonemeRecord{}, sql.ErrNoRows
	}
	return phonemes[0], nil
}

func (s *Store) readPhonemes(ctx context.Context, fingerprint string) ([]ir.PhonemeRecord, error) {
	return s.queryPhonemes(ctx, `WHERE p.inventory = ?`, fingerprint)
}

// queryPhonemes loads phonemes and their realizations in index order.
func (s *Store) queryPhonemes(ctx context.Context, where string, args ...any) ([]ir.PhonemeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.idx, p.id, p.bundle, r.symbol_key, r.ipa
		FROM phonemes p
		LEFT JOIN realizations r ON r.inventory = p.inventory AND r.phoneme_idx = p.idx
		`+where+`
		ORDER BY p.idx ASC, r.ord ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query phonemes: %w", err)
	}
	defer rows.Close()

	phonemes := []ir.PhonemeRecord{}
	for rows.Next() {
		var (
			idx      int64
			id       string
			bundle   string
			key, ipa sql.NullString
		)
		if err := rows.Scan(&idx, &id, &bundle, &key, &ipa); err != nil {
			return nil, fmt.Errorf("scan phoneme: %w", err)
		}

		if n := len(phonemes); n == 0 || phonemes[n-1].Index != idx {
			b, err := unmarshalBundle(bundle)
			if err != nil {
				return nil, fmt.Errorf("phoneme %s: %w", id, err)
			}
			phonemes = append(phonemes, ir.PhonemeRecord{Index: idx, ID: id, Bundle: b, Symbols: []ir.SymbolRecord{}})
		}
		if key.Valid {
			last := &phonemes[len(phonemes)-1]
			last.Symbols = append(last.Symbols, ir.SymbolRecord{Key: key.String, IPA: ipa.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phonemes: %w", err)
	}
	return phonemes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, sum *InventorySummary) error {
	err := row.Scan(
		&sum.Fingerprint,
		&sum.Accent,
		&sum.TableFingerprint,
		&sum.BuildID,
		&sum.Skipped,
		&sum.Phonemes,
		&sum.Seq,
	)
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		return fmt.Errorf("scan inventory: %w", err)
	}
	return nil
}
