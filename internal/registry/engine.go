package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/normalize"
)

// Committer persists a full decision set atomically.
type Committer interface {
	CommitAssetMappings(ctx context.Context, batchID uuid.UUID, decisions []*model.AssetMappingDecision) error
}

// UnmappedNamesError reports the distinct names still lacking a decision at
// submit time. Nothing is committed when it is returned.
type UnmappedNamesError struct {
	Names []string
}

func (e *UnmappedNamesError) Error() string {
	return fmt.Sprintf("%d unit names have no mapping decision: %s",
		len(e.Names), strings.Join(e.Names, ", "))
}

// Engine drives asset resolution for one batch: it holds the distinct unit
// names observed in the file and the in-progress decision per name. Decisions
// live in memory and are mutable until SubmitAll commits the complete set in
// one shot; partially decided batches never touch the database.
type Engine struct {
	batchID uuid.UUID
	matcher *Matcher

	// key: normalized name
	names     map[string]string // norm -> original as first seen
	decisions map[string]*model.AssetMappingDecision
}

// NewEngine builds an Engine for batchID over the distinct unit names of the
// staged file.
func NewEngine(batchID uuid.UUID, unitNames []string, matcher *Matcher) *Engine {
	e := &Engine{
		batchID:   batchID,
		matcher:   matcher,
		names:     make(map[string]string, len(unitNames)),
		decisions: make(map[string]*model.AssetMappingDecision),
	}
	for _, n := range unitNames {
		norm := normalize.Name(n)
		if norm == "" {
			continue
		}
		if _, ok := e.names[norm]; !ok {
			e.names[norm] = n
		}
	}
	return e
}

// Suggestions ranks registry candidates for one unit name.
func (e *Engine) Suggestions(name string) []Suggestion {
	return e.matcher.Suggestions(name)
}

// UnmappedNames returns the names that still need a decision, sorted for
// stable presentation.
func (e *Engine) UnmappedNames() []string {
	var out []string
	for norm, orig := range e.names {
		if _, ok := e.decisions[norm]; !ok {
			out = append(out, orig)
		}
	}
	sort.Strings(out)
	return out
}

// Decisions returns the current decision set, sorted by original name.
func (e *Engine) Decisions() []*model.AssetMappingDecision {
	out := make([]*model.AssetMappingDecision, 0, len(e.decisions))
	for _, d := range e.decisions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OriginalName < out[j].OriginalName })
	return out
}

// SaveDecision upserts the decision for its original name. Re-saving
// overwrites; names not observed in the batch are rejected.
func (e *Engine) SaveDecision(d *model.AssetMappingDecision) error {
	if err := d.Validate(); err != nil {
		return err
	}
	norm := normalize.Name(d.OriginalName)
	if _, ok := e.names[norm]; !ok {
		return fmt.Errorf("unit name %q was not observed in this batch", d.OriginalName)
	}
	d.BatchID = e.batchID
	d.NameNorm = norm
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now().UTC()
	}
	e.decisions[norm] = d
	return nil
}

// AutoMapHighConfidence creates a formal decision for every undecided name
// whose top suggestion scores at least 0.9. Existing decisions are never
// touched. Returns the number of decisions created.
func (e *Engine) AutoMapHighConfidence() int {
	created := 0
	for norm, orig := range e.names {
		if _, ok := e.decisions[norm]; ok {
			continue
		}
		sugg := e.matcher.Suggestions(orig)
		if len(sugg) == 0 || sugg[0].Score < AutoMapThreshold {
			continue
		}
		assetID := sugg[0].AssetID
		e.decisions[norm] = &model.AssetMappingDecision{
			BatchID:       e.batchID,
			OriginalName:  orig,
			NameNorm:      norm,
			Category:      model.CategoryFormal,
			TargetAssetID: &assetID,
			Confidence:    sugg[0].Score,
			Notes:         "auto-mapped",
			DecidedAt:     time.Now().UTC(),
		}
		created++
	}
	return created
}

// SubmitAll commits the complete decision set. It fails fast with
// *UnmappedNamesError if any distinct name in the batch lacks a decision;
// nothing is written in that case.
func (e *Engine) SubmitAll(ctx context.Context, c Committer) error {
	if missing := e.UnmappedNames(); len(missing) > 0 {
		return &UnmappedNamesError{Names: missing}
	}
	return c.CommitAssetMappings(ctx, e.batchID, e.Decisions())
}
