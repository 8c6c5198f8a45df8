package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

type captureCommitter struct {
	calls     int
	committed []*model.AssetMappingDecision
	err       error
}

func (c *captureCommitter) CommitAssetMappings(_ context.Context, _ uuid.UUID, decisions []*model.AssetMappingDecision) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.committed = decisions
	return nil
}

func TestAutoMapHighConfidence_OnlyAboveThreshold(t *testing.T) {
	e := NewEngine(uuid.New(), []string{"Excavadora 12", "Generador 50kW"}, NewMatcher(testAssets()))

	created := e.AutoMapHighConfidence()
	if created != 1 {
		t.Fatalf("created %d decisions, want 1", created)
	}

	decs := e.Decisions()
	if len(decs) != 1 || decs[0].OriginalName != "Excavadora 12" {
		t.Fatalf("unexpected decisions: %+v", decs)
	}
	if decs[0].Category != model.CategoryFormal || decs[0].TargetAssetID == nil || *decs[0].TargetAssetID != 1 {
		t.Errorf("auto-map should be formal to asset 1, got %+v", decs[0])
	}
	if decs[0].Notes != "auto-mapped" {
		t.Errorf("notes: got %q", decs[0].Notes)
	}

	// "Generador 50kW" topped out below the threshold and stays pending.
	unmapped := e.UnmappedNames()
	if len(unmapped) != 1 || unmapped[0] != "Generador 50kW" {
		t.Errorf("unmapped: got %v", unmapped)
	}
}

func TestAutoMapHighConfidence_NeverOverwritesManual(t *testing.T) {
	e := NewEngine(uuid.New(), []string{"Excavadora 12"}, NewMatcher(testAssets()))

	if err := e.SaveDecision(&model.AssetMappingDecision{
		OriginalName: "Excavadora 12",
		Category:     model.CategoryIgnore,
	}); err != nil {
		t.Fatalf("SaveDecision: %v", err)
	}

	if created := e.AutoMapHighConfidence(); created != 0 {
		t.Fatalf("auto-map overwrote a manual decision, created=%d", created)
	}
	if decs := e.Decisions(); decs[0].Category != model.CategoryIgnore {
		t.Errorf("manual decision was replaced: %+v", decs[0])
	}
}

func TestSaveDecision_OverwritesPrevious(t *testing.T) {
	e := NewEngine(uuid.New(), []string{"Camioneta externa"}, NewMatcher(testAssets()))

	first := &model.AssetMappingDecision{
		OriginalName:  "Camioneta externa",
		Category:      model.CategoryException,
		ExceptionType: model.ExceptionRental,
	}
	if err := e.SaveDecision(first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := &model.AssetMappingDecision{
		OriginalName: "Camioneta externa",
		Category:     model.CategoryGeneral,
	}
	if err := e.SaveDecision(second); err != nil {
		t.Fatalf("second save: %v", err)
	}
	decs := e.Decisions()
	if len(decs) != 1 || decs[0].Category != model.CategoryGeneral {
		t.Errorf("re-save should overwrite, got %+v", decs)
	}
}

func TestSaveDecision_RejectsUnknownName(t *testing.T) {
	e := NewEngine(uuid.New(), []string{"Excavadora 12"}, NewMatcher(testAssets()))
	err := e.SaveDecision(&model.AssetMappingDecision{
		OriginalName: "Grua 9",
		Category:     model.CategoryGeneral,
	})
	if err == nil {
		t.Fatal("expected error for name not in batch")
	}
}

func TestSaveDecision_RejectsInvalidDecision(t *testing.T) {
	e := NewEngine(uuid.New(), []string{"Excavadora 12"}, NewMatcher(testAssets()))
	err := e.SaveDecision(&model.AssetMappingDecision{
		OriginalName: "Excavadora 12",
		Category:     model.CategoryFormal, // formal without target asset
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSubmitAll_FailsFastOnMissingNames(t *testing.T) {
	e := NewEngine(uuid.New(), []string{"Excavadora 12", "Camion Volvo FH", "Grua 9"}, NewMatcher(testAssets()))
	e.AutoMapHighConfidence() // maps only the exact matches

	c := &captureCommitter{}
	err := e.SubmitAll(context.Background(), c)

	var unmapped *UnmappedNamesError
	if !errors.As(err, &unmapped) {
		t.Fatalf("expected UnmappedNamesError, got %v", err)
	}
	if len(unmapped.Names) != 1 || unmapped.Names[0] != "Grua 9" {
		t.Errorf("missing names: got %v", unmapped.Names)
	}
	if c.calls != 0 {
		t.Errorf("committer must not be called on precondition failure, calls=%d", c.calls)
	}

	// Fix the gap and retry.
	if err := e.SaveDecision(&model.AssetMappingDecision{
		OriginalName: "Grua 9",
		Category:     model.CategoryIgnore,
	}); err != nil {
		t.Fatalf("SaveDecision: %v", err)
	}
	if err := e.SubmitAll(context.Background(), c); err != nil {
		t.Fatalf("retry after fix: %v", err)
	}
	if len(c.committed) != 3 {
		t.Errorf("committed %d decisions, want 3", len(c.committed))
	}
}

func TestLoadActiveAssets_Chunks(t *testing.T) {
	pager := &fakePager{assets: testAssets()}
	got, err := LoadActiveAssets(context.Background(), pager, 2)
	if err != nil {
		t.Fatalf("LoadActiveAssets: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("loaded %d assets, want 5", len(got))
	}
	if pager.calls != 3 {
		t.Errorf("expected 3 pages of 2, got %d calls", pager.calls)
	}
}

type fakePager struct {
	assets []model.CanonicalAsset
	calls  int
}

func (p *fakePager) AssetsAfter(_ context.Context, afterID int64, limit int) ([]model.CanonicalAsset, error) {
	p.calls++
	var page []model.CanonicalAsset
	for _, a := range p.assets {
		if a.ID > afterID {
			page = append(page, a)
			if len(page) == limit {
				break
			}
		}
	}
	return page, nil
}
