package meter

import (
	"github.com/shopspring/decimal"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

// epsilon below which two meter readings are treated as equal. Legacy
// spreadsheets round to two decimals, so anything smaller is noise.
var epsilon = decimal.RequireFromString("0.01")

// ReadingPair joins the imported and inspection-sourced readings for one
// asset within the batch's date window.
type ReadingPair struct {
	AssetID   int64
	AssetCode string
	Diesel    model.DieselReading
	Checklist model.ChecklistReading
}

// Detect compares both sides of a pair and returns a pending MeterConflict,
// or nil when the readings agree within epsilon.
func Detect(p ReadingPair) *model.MeterConflict {
	horoDiff := diff(p.Diesel.Horometer, p.Checklist.Horometer)
	odoDiff := diff(p.Diesel.Odometer, p.Checklist.Odometer)
	if !significant(horoDiff) && !significant(odoDiff) {
		return nil
	}

	// Horometer wins when both diffs are present.
	higher := false
	switch {
	case horoDiff != nil:
		higher = horoDiff.IsPositive()
	case odoDiff != nil:
		higher = odoDiff.IsPositive()
	}

	return &model.MeterConflict{
		AssetID:        p.AssetID,
		AssetCode:      p.AssetCode,
		Diesel:         p.Diesel,
		Checklist:      p.Checklist,
		HorometerDiff:  horoDiff,
		OdometerDiff:   odoDiff,
		IsDieselNewer:  p.Diesel.Date.After(p.Checklist.Date),
		IsDieselHigher: higher,
		Resolution:     model.ResolutionPending,
	}
}

// DetectAll runs Detect over every pair and keeps the conflicts.
func DetectAll(pairs []ReadingPair) []*model.MeterConflict {
	var out []*model.MeterConflict
	for _, p := range pairs {
		if c := Detect(p); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// RecommendDiesel is the advisory heuristic surfaced next to a conflict: a
// newer and higher imported reading is consistent with normal incremental
// usage. Never auto-applied.
func RecommendDiesel(c *model.MeterConflict) bool {
	return c.IsDieselNewer && c.IsDieselHigher
}

func diff(diesel, checklist *decimal.Decimal) *decimal.Decimal {
	if diesel == nil || checklist == nil {
		return nil
	}
	d := diesel.Sub(*checklist)
	return &d
}

func significant(d *decimal.Decimal) bool {
	return d != nil && d.Abs().GreaterThan(epsilon)
}
