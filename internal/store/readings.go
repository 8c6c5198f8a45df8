package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcaamano/fuelmigrate/internal/meter"
	"github.com/rcaamano/fuelmigrate/internal/model"
	embedsql "github.com/rcaamano/fuelmigrate/internal/sql"
)

// BatchDateWindow returns the min and max transaction dates of the staged
// batch; ok is false when the batch has no staged rows.
func (s *Store) BatchDateWindow(ctx context.Context, batchID uuid.UUID) (from, to time.Time, ok bool, err error) {
	var minD, maxD *time.Time
	err = s.pool.QueryRow(ctx, `
		SELECT MIN(transaction_date), MAX(transaction_date)
		FROM ingest.stage_fuel_rows
		WHERE batch_id = $1`,
		batchID,
	).Scan(&minD, &maxD)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("batch date window: %w", err)
	}
	if minD == nil || maxD == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	return *minD, *maxD, true, nil
}

// LatestDieselReadings returns, per formally mapped asset, the most recent
// staged row carrying a meter reading.
func (s *Store) LatestDieselReadings(ctx context.Context, batchID uuid.UUID) (map[int64]meter.ReadingPair, error) {
	rows, err := s.pool.Query(ctx, embedsql.LatestDieselReadings, batchID)
	if err != nil {
		return nil, fmt.Errorf("latest diesel readings: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]meter.ReadingPair)
	for rows.Next() {
		var p meter.ReadingPair
		if err := rows.Scan(&p.AssetID, &p.AssetCode,
			&p.Diesel.Horometer, &p.Diesel.Odometer,
			&p.Diesel.Date, &p.Diesel.SourceRowNumber); err != nil {
			return nil, fmt.Errorf("scan diesel reading: %w", err)
		}
		out[p.AssetID] = p
	}
	return out, rows.Err()
}

// LatestInspectionReadings returns the most recent inspection reading per
// asset inside the date window.
func (s *Store) LatestInspectionReadings(ctx context.Context, assetIDs []int64, from, to time.Time) (map[int64]model.ChecklistReading, error) {
	if len(assetIDs) == 0 {
		return map[int64]model.ChecklistReading{}, nil
	}
	rows, err := s.pool.Query(ctx, embedsql.LatestInspectionReadings, assetIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("latest inspection readings: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]model.ChecklistReading)
	for rows.Next() {
		var assetID int64
		var r model.ChecklistReading
		if err := rows.Scan(&assetID, &r.Date, &r.Horometer, &r.Odometer, &r.Source); err != nil {
			return nil, fmt.Errorf("scan inspection reading: %w", err)
		}
		out[assetID] = r
	}
	return out, rows.Err()
}

// AddInspectionReading records one inspection-sourced meter reading.
// Used by the inspection import job and by tests.
func (s *Store) AddInspectionReading(ctx context.Context, r *model.InspectionReading) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ref.inspection_readings (asset_id, reading_date, horometer, odometer, source)
		VALUES ($1, $2, $3, $4, $5)`,
		r.AssetID, r.Date, r.Horometer, r.Odometer, r.Source,
	)
	if err != nil {
		return fmt.Errorf("add inspection reading: %w", err)
	}
	return nil
}
