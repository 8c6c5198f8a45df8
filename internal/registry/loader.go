package registry

import (
	"context"
	"fmt"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

// DefaultChunkSize bounds each registry page fetched for matching.
const DefaultChunkSize = 500

// AssetPager is the read contract against the canonical asset registry:
// keyset pagination over active assets ordered by id.
type AssetPager interface {
	AssetsAfter(ctx context.Context, afterID int64, limit int) ([]model.CanonicalAsset, error)
}

// LoadActiveAssets fetches the full active registry in constant-size chunks
// so fuzzy matching works over an in-memory snapshot without unbounded
// single queries.
func LoadActiveAssets(ctx context.Context, pager AssetPager, chunkSize int) ([]model.CanonicalAsset, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var (
		all     []model.CanonicalAsset
		afterID int64
	)
	for {
		page, err := pager.AssetsAfter(ctx, afterID, chunkSize)
		if err != nil {
			return nil, fmt.Errorf("load assets after id %d: %w", afterID, err)
		}
		all = append(all, page...)
		if len(page) < chunkSize {
			return all, nil
		}
		afterID = page[len(page)-1].ID
	}
}
