package meter

import (
	"fmt"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

// Progress is the resolver's cursor position: how many conflicts have been
// decided and how many remain pending. Updated immediately after every
// resolution.
type Progress struct {
	Resolved  int
	Remaining int
}

// Resolver walks the pending conflicts of a batch one at a time. The
// preference object is injected so callers (and tests) control remembered
// defaults per session; the resolver is the only writer of the preference,
// and only under an explicit remember request.
type Resolver struct {
	pref      *model.MeterPreference
	conflicts []*model.MeterConflict

	// OnProgress, when set, fires after every resolution and after every
	// preference pre-apply pass.
	OnProgress func(Progress)
}

// NewResolver builds a Resolver over the detected conflicts. Conflicts
// already covered by a remembered preference are resolved before the user
// ever sees them.
func NewResolver(pref *model.MeterPreference, conflicts []*model.MeterConflict) *Resolver {
	if pref == nil {
		pref = model.NewMeterPreference()
	}
	r := &Resolver{pref: pref, conflicts: conflicts}
	r.applyPreference()
	return r
}

// Add registers newly detected conflicts mid-session, pre-applying any
// remembered preference. An asset already tracked keeps its earlier conflict
// and resolution: re-detection on pipeline resume must not reopen decisions.
func (r *Resolver) Add(conflicts ...*model.MeterConflict) {
	known := make(map[int64]bool, len(r.conflicts))
	for _, c := range r.conflicts {
		known[c.AssetID] = true
	}
	for _, c := range conflicts {
		if known[c.AssetID] {
			continue
		}
		r.conflicts = append(r.conflicts, c)
		known[c.AssetID] = true
	}
	r.applyPreference()
	r.report()
}

// Pending returns the conflicts still awaiting a decision, in detection
// order.
func (r *Resolver) Pending() []*model.MeterConflict {
	var out []*model.MeterConflict
	for _, c := range r.conflicts {
		if c.Pending() {
			out = append(out, c)
		}
	}
	return out
}

// Current returns the conflict to present next: index 0 of the pending list.
func (r *Resolver) Current() (*model.MeterConflict, bool) {
	p := r.Pending()
	if len(p) == 0 {
		return nil, false
	}
	return p[0], true
}

// Done reports whether every conflict has a terminal resolution.
func (r *Resolver) Done() bool {
	return len(r.Pending()) == 0
}

// Progress returns the current cursor position.
func (r *Resolver) Progress() Progress {
	remaining := len(r.Pending())
	return Progress{Resolved: len(r.conflicts) - remaining, Remaining: remaining}
}

// Resolve applies a terminal decision to a conflict. When remember is set
// and the decision is use_diesel or keep_checklist, the session preference
// is updated and every other still-pending conflict resolves to the same
// decision without further prompting. Skip is never remembered.
func (r *Resolver) Resolve(c *model.MeterConflict, decision model.ConflictResolution, remember bool) error {
	if decision == model.ResolutionPending {
		return fmt.Errorf("cannot resolve conflict for asset %s back to pending", c.AssetCode)
	}
	if !c.Pending() {
		return fmt.Errorf("conflict for asset %s is already resolved to %s", c.AssetCode, c.Resolution)
	}
	c.Resolution = decision

	if remember {
		switch decision {
		case model.ResolutionUseDiesel:
			r.pref.DefaultAction = model.PrefAlwaysUseDiesel
		case model.ResolutionKeepChecklist:
			r.pref.DefaultAction = model.PrefAlwaysKeepChecklist
		}
		r.applyPreference()
	}
	r.report()
	return nil
}

// ResolutionByAsset returns the terminal decision per asset id, for feeding
// back into transaction creation.
func (r *Resolver) ResolutionByAsset() map[int64]model.ConflictResolution {
	out := make(map[int64]model.ConflictResolution, len(r.conflicts))
	for _, c := range r.conflicts {
		if !c.Pending() {
			out[c.AssetID] = c.Resolution
		}
	}
	return out
}

func (r *Resolver) applyPreference() {
	res, ok := r.pref.Resolution()
	if !ok {
		return
	}
	for _, c := range r.conflicts {
		if c.Pending() {
			c.Resolution = res
		}
	}
}

func (r *Resolver) report() {
	if r.OnProgress != nil {
		r.OnProgress(r.Progress())
	}
}
