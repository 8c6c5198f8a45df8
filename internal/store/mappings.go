package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcaamano/fuelmigrate/internal/model"
	embedsql "github.com/rcaamano/fuelmigrate/internal/sql"
)

// CommitAssetMappings replaces the batch's committed decision set in one
// transaction. Once the batch has reached transaction creation the set is
// frozen and further commits are refused.
func (s *Store) CommitAssetMappings(ctx context.Context, batchID uuid.UUID, decisions []*model.AssetMappingDecision) error {
	b, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	switch b.Status {
	case model.BatchNeedsMeterResolution, model.BatchCompleted:
		return fmt.Errorf("mapping decisions for batch %s are frozen (status %s)", batchID, b.Status)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("commit mappings begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM ingest.name_mappings WHERE batch_id = $1", batchID,
	); err != nil {
		return fmt.Errorf("commit mappings delete previous: %w", err)
	}

	for _, d := range decisions {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("commit mappings: %w", err)
		}
		var excType *string
		if d.Category == model.CategoryException {
			t := string(d.ExceptionType)
			excType = &t
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO ingest.name_mappings
				(batch_id, original_name, unit_name_norm, category, target_asset_id,
				 exception_type, exception_description, owner_info, confidence, notes, decided_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			batchID, d.OriginalName, d.NameNorm, d.Category, d.TargetAssetID,
			excType, d.ExceptionDescription, d.OwnerInfo, d.Confidence, d.Notes, d.DecidedAt,
		); err != nil {
			return fmt.Errorf("commit mapping for %q: %w", d.OriginalName, err)
		}
	}

	return tx.Commit(ctx)
}

// MappingCount returns the number of committed decisions for a batch.
func (s *Store) MappingCount(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM ingest.name_mappings WHERE batch_id = $1", batchID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("mapping count: %w", err)
	}
	return n, nil
}

// CategoryCounts tallies committed decisions by category.
func (s *Store) CategoryCounts(ctx context.Context, batchID uuid.UUID) (model.CategoryCounts, error) {
	var out model.CategoryCounts
	rows, err := s.pool.Query(ctx, embedsql.CategoryCounts, batchID)
	if err != nil {
		return out, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var n int64
		if err := rows.Scan(&cat, &n); err != nil {
			return out, fmt.Errorf("scan category count: %w", err)
		}
		switch model.MappingCategory(cat) {
		case model.CategoryFormal:
			out.Formal = n
		case model.CategoryException:
			out.Exception = n
		case model.CategoryGeneral:
			out.General = n
		case model.CategoryIgnore:
			out.Ignored = n
		}
	}
	return out, rows.Err()
}

// AssetsAfter pages the active asset registry by keyset, ordered by id.
// Satisfies registry.AssetPager.
func (s *Store) AssetsAfter(ctx context.Context, afterID int64, limit int) ([]model.CanonicalAsset, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT asset_id, display_name, code, plant, category, active
		FROM ref.assets
		WHERE active AND asset_id > $1
		ORDER BY asset_id
		LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("assets after %d: %w", afterID, err)
	}
	defer rows.Close()

	var out []model.CanonicalAsset
	for rows.Next() {
		var a model.CanonicalAsset
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.Code, &a.Plant, &a.Category, &a.Active); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
