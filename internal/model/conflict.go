package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DieselReading is the imported side of a meter conflict: the latest
// meter-bearing fuel row for an asset within the batch.
type DieselReading struct {
	Horometer       *decimal.Decimal
	Odometer        *decimal.Decimal
	Date            time.Time
	SourceRowNumber int64
}

// ChecklistReading is the independently sourced side: the most recent
// inspection reading for the asset within the batch's date window.
type ChecklistReading struct {
	Horometer *decimal.Decimal
	Odometer  *decimal.Decimal
	Date      time.Time
	Source    string
}

// InspectionReading is the inbound contract from the inspection subsystem.
type InspectionReading struct {
	AssetID   int64
	Date      time.Time
	Horometer *decimal.Decimal
	Odometer  *decimal.Decimal
	Source    string
}

// ConflictResolution is the terminal decision for a meter conflict.
type ConflictResolution string

const (
	ResolutionPending       ConflictResolution = "pending"
	ResolutionUseDiesel     ConflictResolution = "use_diesel"
	ResolutionKeepChecklist ConflictResolution = "keep_checklist"
	ResolutionSkip          ConflictResolution = "skip"
)

// MeterConflict records a disagreement between an imported meter reading and
// an inspection-sourced reading for the same asset. Created by the detector;
// mutated only by the resolver; terminal once Resolution != pending.
type MeterConflict struct {
	AssetID   int64
	AssetCode string

	Diesel    DieselReading
	Checklist ChecklistReading

	HorometerDiff *decimal.Decimal
	OdometerDiff  *decimal.Decimal

	IsDieselNewer  bool
	IsDieselHigher bool

	Resolution ConflictResolution
}

// Pending reports whether the conflict still awaits a decision.
func (c *MeterConflict) Pending() bool {
	return c.Resolution == ResolutionPending
}

// PreferenceAction is the remembered default applied to new conflicts.
type PreferenceAction string

const (
	PrefAskEachTime         PreferenceAction = "ask_each_time"
	PrefAlwaysUseDiesel     PreferenceAction = "always_use_diesel"
	PrefAlwaysKeepChecklist PreferenceAction = "always_keep_checklist"
)

// MeterPreference is the session-scoped user setting consulted when
// auto-resolving newly detected conflicts. It is written only by the
// resolver under explicit user action.
type MeterPreference struct {
	DefaultAction PreferenceAction
}

// NewMeterPreference returns a preference that prompts for every conflict.
func NewMeterPreference() *MeterPreference {
	return &MeterPreference{DefaultAction: PrefAskEachTime}
}

// Resolution translates the remembered action into a conflict resolution;
// ok=false when the preference is ask-each-time.
func (p *MeterPreference) Resolution() (ConflictResolution, bool) {
	switch p.DefaultAction {
	case PrefAlwaysUseDiesel:
		return ResolutionUseDiesel, true
	case PrefAlwaysKeepChecklist:
		return ResolutionKeepChecklist, true
	}
	return ResolutionPending, false
}
