package meter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func pair(dieselHoro, checklistHoro string, dieselDate, checklistDate time.Time) ReadingPair {
	return ReadingPair{
		AssetID:   1,
		AssetCode: "EXC-12",
		Diesel: model.DieselReading{
			Horometer:       dec(dieselHoro),
			Date:            dieselDate,
			SourceRowNumber: 42,
		},
		Checklist: model.ChecklistReading{
			Horometer: dec(checklistHoro),
			Date:      checklistDate,
			Source:    "inspection",
		},
	}
}

func TestDetect_NewerAndHigher(t *testing.T) {
	earlier := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	later := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	c := Detect(pair("1500", "1480", later, earlier))
	if c == nil {
		t.Fatal("expected a conflict")
	}
	if !c.HorometerDiff.Equal(decimal.RequireFromString("20")) {
		t.Errorf("horometer diff: got %s, want 20", c.HorometerDiff)
	}
	if !c.IsDieselNewer {
		t.Error("expected is_diesel_newer")
	}
	if !c.IsDieselHigher {
		t.Error("expected is_diesel_higher")
	}
	if c.Resolution != model.ResolutionPending {
		t.Errorf("new conflict must be pending, got %s", c.Resolution)
	}
	if !RecommendDiesel(c) {
		t.Error("newer and higher should recommend the diesel reading")
	}
}

func TestDetect_EqualWithinEpsilonIsNotAConflict(t *testing.T) {
	d := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	if c := Detect(pair("1500", "1500", d, d)); c != nil {
		t.Errorf("exact equality is not a conflict: %+v", c)
	}
	if c := Detect(pair("1500.005", "1500", d, d)); c != nil {
		t.Errorf("sub-epsilon difference is not a conflict: %+v", c)
	}
}

func TestDetect_JustBeyondEpsilon(t *testing.T) {
	d := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	if c := Detect(pair("1500.02", "1500", d, d)); c == nil {
		t.Error("difference beyond epsilon must conflict")
	}
}

func TestDetect_MissingSideProducesNoDiff(t *testing.T) {
	d := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	p := ReadingPair{
		AssetID: 2,
		Diesel:  model.DieselReading{Odometer: dec("5000"), Date: d},
		Checklist: model.ChecklistReading{
			Horometer: dec("1480"),
			Odometer:  dec("4900"),
			Date:      d,
		},
	}
	c := Detect(p)
	if c == nil {
		t.Fatal("expected odometer conflict")
	}
	if c.HorometerDiff != nil {
		t.Error("horometer diff requires both sides")
	}
	if !c.OdometerDiff.Equal(decimal.RequireFromString("100")) {
		t.Errorf("odometer diff: got %s", c.OdometerDiff)
	}
	if !c.IsDieselHigher {
		t.Error("positive odometer diff should mark diesel higher")
	}
}

func TestDetect_HorometerWinsWhenBothDiffsPresent(t *testing.T) {
	d := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	p := ReadingPair{
		AssetID: 3,
		Diesel: model.DieselReading{
			Horometer: dec("1400"), // lower than checklist
			Odometer:  dec("5100"), // higher than checklist
			Date:      d,
		},
		Checklist: model.ChecklistReading{
			Horometer: dec("1480"),
			Odometer:  dec("5000"),
			Date:      d,
		},
	}
	c := Detect(p)
	if c == nil {
		t.Fatal("expected a conflict")
	}
	if c.IsDieselHigher {
		t.Error("horometer is lower, so diesel must not be marked higher")
	}
}

func TestDetectAll_KeepsOnlyConflicts(t *testing.T) {
	d := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	got := DetectAll([]ReadingPair{
		pair("1500", "1480", d, d),
		pair("1500", "1500", d, d),
		pair("2000", "2050", d, d),
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 conflicts, got %d", len(got))
	}
}
