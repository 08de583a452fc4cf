package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

// snapshotStore implements driven.SnapshotStore.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// storedRecord is the JSON form of a domain.Record in the records column.
type storedRecord struct {
	Row    int               `json:"row"`
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

// Get retrieves the snapshot for a sheet.
// Returns nil and no error if nothing is cached.
func (s *snapshotStore) Get(ctx context.Context, sheetKey string) (*domain.Snapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT sheet_key, header_row, headers, records, fetched_at
		FROM snapshots WHERE sheet_key = ?
	`, sheetKey)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Save stores or replaces the snapshot for its sheet.
func (s *snapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.SheetKey == "" {
		return domain.ErrInvalidInput
	}

	headers, err := json.Marshal(snapshot.Table.Headers)
	if err != nil {
		return fmt.Errorf("marshalling headers: %w", err)
	}
	stored := make([]storedRecord, len(snapshot.Table.Records))
	for i, r := range snapshot.Table.Records {
		stored[i] = storedRecord{Row: r.Row, Name: r.Name, Fields: r.Fields}
	}
	records, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshalling records: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO snapshots (sheet_key, header_row, headers, records, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sheet_key) DO UPDATE SET
			header_row = excluded.header_row,
			headers = excluded.headers,
			records = excluded.records,
			fetched_at = excluded.fetched_at
	`, snapshot.SheetKey, snapshot.Table.HeaderRow, string(headers), string(records),
		snapshot.FetchedAt.UTC().Format(sortableTime))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for a sheet.
func (s *snapshotStore) Delete(ctx context.Context, sheetKey string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM snapshots WHERE sheet_key = ?", sheetKey); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// List returns every cached snapshot, ordered by sheet key.
func (s *snapshotStore) List(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT sheet_key, header_row, headers, records, fetched_at
		FROM snapshots ORDER BY sheet_key
	`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.Snapshot //nolint:prealloc // size unknown from query
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

// scanSnapshot decodes one snapshots row. sql.ErrNoRows is returned unwrapped.
func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	var headers, records, fetchedAt string

	if err := row.Scan(&snap.SheetKey, &snap.Table.HeaderRow, &headers, &records, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(headers), &snap.Table.Headers); err != nil {
		return nil, fmt.Errorf("unmarshalling headers: %w", err)
	}
	var stored []storedRecord
	if err := json.Unmarshal([]byte(records), &stored); err != nil {
		return nil, fmt.Errorf("unmarshalling records: %w", err)
	}
	snap.Table.Records = make([]domain.Record, len(stored))
	for i, r := range stored {
		snap.Table.Records[i] = domain.Record{Row: r.Row, Name: r.Name, Fields: r.Fields}
	}

	t, err := time.Parse(sortableTime, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched_at: %w", err)
	}
	snap.FetchedAt = t
	return &snap, nil
}
