package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CanonicalAsset is an existing equipment-registry entity. Read-only to this
// subsystem.
type CanonicalAsset struct {
	ID          int64
	DisplayName string
	Code        string
	Plant       string
	Category    string
	Active      bool
}

// MappingCategory classifies how a free-text unit name resolves.
type MappingCategory string

const (
	CategoryFormal    MappingCategory = "formal"    // maps 1:1 to a registry asset
	CategoryException MappingCategory = "exception" // external/partner/rented unit
	CategoryGeneral   MappingCategory = "general"   // plant-wide consumption
	CategoryIgnore    MappingCategory = "ignore"    // excluded from the ledger
)

// AllMappingCategories lists the valid categories in canonical order.
var AllMappingCategories = []MappingCategory{
	CategoryFormal, CategoryException, CategoryGeneral, CategoryIgnore,
}

// MappingCategoryByName returns the category for the given name, or ok=false.
func MappingCategoryByName(name string) (MappingCategory, bool) {
	for _, c := range AllMappingCategories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// ExceptionType classifies exception assets.
type ExceptionType string

const (
	ExceptionPartner ExceptionType = "partner"
	ExceptionRental  ExceptionType = "rental"
	ExceptionUtility ExceptionType = "utility"
	ExceptionUnknown ExceptionType = "unknown"
)

// AssetMappingDecision records how one distinct unit name in a batch is
// resolved. One decision must exist per distinct name before the batch may
// proceed to transaction creation.
type AssetMappingDecision struct {
	BatchID      uuid.UUID
	OriginalName string
	NameNorm     string

	Category      MappingCategory
	TargetAssetID *int64 // set iff Category == CategoryFormal

	ExceptionType        ExceptionType
	ExceptionDescription string
	OwnerInfo            string

	Confidence float64 // 0..1
	Notes      string
	DecidedAt  time.Time
}

// Validate enforces the decision invariants: target_asset_id is set if and
// only if the category is formal, and exception metadata only accompanies
// exception decisions.
func (d *AssetMappingDecision) Validate() error {
	if _, ok := MappingCategoryByName(string(d.Category)); !ok {
		return fmt.Errorf("unknown mapping category %q for %q", d.Category, d.OriginalName)
	}
	if d.Category == CategoryFormal && d.TargetAssetID == nil {
		return fmt.Errorf("formal decision for %q requires a target asset", d.OriginalName)
	}
	if d.Category != CategoryFormal && d.TargetAssetID != nil {
		return fmt.Errorf("%s decision for %q must not carry a target asset", d.Category, d.OriginalName)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range for %q", d.Confidence, d.OriginalName)
	}
	return nil
}
