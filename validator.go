package circuitcheck

import (
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"sync"
	"time"
)

// Validator owns the circuit registry and the parent→children index and
// evaluates candidate circuits against them.
//
// Every exported method holds the validator's mutex, so one Validator may
// be shared by concurrent callers; evaluations are serialized and no caller
// observes a partially grafted candidate. For parallel evaluation use
// ValidateBatch, which gives each candidate its own Clone.
type Validator struct {
	mu       sync.Mutex
	cfg      Config
	logger   *slog.Logger
	circuits map[string]Circuit
	children map[string][]string // parent ID → child IDs, insertion order
}

// New builds a Validator with an empty registry. An invalid cfg is rejected
// with ErrConfiguration. A nil logger uses slog.Default().
func New(cfg Config, logger *slog.Logger) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		cfg:      cfg,
		logger:   logger,
		circuits: make(map[string]Circuit),
		children: make(map[string][]string),
	}, nil
}

// Config returns the thresholds the validator was built with.
func (v *Validator) Config() Config {
	return v.cfg
}

// AddCircuit persists a circuit in the registry, replacing any circuit with
// the same ID. The record is validated first (ErrConfiguration).
func (v *Validator) AddCircuit(c Circuit) error {
	if err := c.Validate(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.remove(c.ID)
	v.insertAt(c.clone(), -1)
	v.logger.Debug("circuit added", "circuit_id", c.ID, "parent_id", c.ParentID)
	return nil
}

// RemoveCircuit deletes a persisted circuit. Its children stay registered
// and keep their parent reference.
func (v *Validator) RemoveCircuit(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, _, ok := v.remove(id); !ok {
		return fmt.Errorf("%w: %q", ErrCircuitNotFound, id)
	}
	v.logger.Debug("circuit removed", "circuit_id", id)
	return nil
}

// Circuit returns a copy of a persisted circuit.
func (v *Validator) Circuit(id string) (Circuit, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.circuits[id]
	if !ok {
		return Circuit{}, fmt.Errorf("%w: %q", ErrCircuitNotFound, id)
	}
	return c.clone(), nil
}

// Children returns the IDs of the circuits fed by parentID, in the order
// they were added.
func (v *Validator) Children(parentID string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.children[parentID])
}

// Circuits returns copies of all persisted circuits ordered by ID.
func (v *Validator) Circuits() []Circuit {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Circuit, 0, len(v.circuits))
	for _, id := range slices.Sorted(maps.Keys(v.circuits)) {
		out = append(out, v.circuits[id].clone())
	}
	return out
}

// Len returns the number of persisted circuits.
func (v *Validator) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.circuits)
}

// Clone returns an independent Validator with the same configuration and a
// deep copy of the registry.
func (v *Validator) Clone() *Validator {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := &Validator{
		cfg:      v.cfg,
		logger:   v.logger,
		circuits: make(map[string]Circuit, len(v.circuits)),
		children: make(map[string][]string, len(v.children)),
	}
	for id, c := range v.circuits {
		out.circuits[id] = c.clone()
	}
	for parent, kids := range v.children {
		out.children[parent] = slices.Clone(kids)
	}
	return out
}

// AnalyzeFaultCurrent runs the fault-current analysis on a persisted
// circuit.
func (v *Validator) AnalyzeFaultCurrent(id string, upstreamHint, transformerZ float64) (FaultResult, error) {
	c, err := v.Circuit(id)
	if err != nil {
		return FaultResult{}, err
	}
	return AnalyzeFaultCurrent(c, upstreamHint, transformerZ, v.cfg)
}

// Validate grafts candidate into the registry, evaluates it, and removes it
// again. The returned checks are, in order: Conductor Ampacity, Voltage
// Drop, Parent Circuit Loading (when the parent is registered), Current THD
// and, when enabled, Fault Interrupting Capacity.
//
// The registry is restored on every return path, including analyzer errors.
// A persisted circuit sharing the candidate's ID is put back as it was.
func (v *Validator) Validate(candidate Circuit) (checks []ConstraintCheck, err error) {
	start := time.Now()
	defer func() {
		evaluationDuration.WithLabelValues("validate").Observe(time.Since(start).Seconds())
		recordChecks("validate", checks, err)
	}()

	if err = candidate.Validate(); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	g := v.graft(candidate.clone())
	defer g.release()

	ev, err := v.evaluate(candidate.ID)
	if err != nil {
		v.logger.Warn("validation failed", "circuit_id", candidate.ID, "error", err)
		return nil, err
	}

	v.logger.Info("circuit validated",
		"circuit_id", candidate.ID,
		"status", OverallStatusOf(ev.checks),
		"critical", CountSeverity(ev.checks, SeverityCritical),
		"warning", CountSeverity(ev.checks, SeverityWarning),
	)
	return ev.checks, nil
}

// evaluation is everything computed for one grafted candidate.
type evaluation struct {
	checks   []ConstraintCheck
	thermal  ThermalResult
	voltage  VoltageDropResult
	harmonic HarmonicResult
	fault    FaultResult
	load     LoadProfile
}

// evaluate runs the analyzers on a circuit that is already in the registry.
// Caller holds v.mu.
func (v *Validator) evaluate(id string) (evaluation, error) {
	c := v.circuits[id]
	var ev evaluation
	var err error

	if ev.thermal, err = AnalyzeThermal(c, v.cfg); err != nil {
		return ev, fmt.Errorf("thermal analysis of %q: %w", id, err)
	}
	ev.checks = append(ev.checks, ampacityCheck(ev.thermal, v.cfg))

	if ev.voltage, err = AnalyzeVoltageDrop(c, v.cfg); err != nil {
		return ev, fmt.Errorf("voltage drop analysis of %q: %w", id, err)
	}
	ev.checks = append(ev.checks, voltageDropCheck(ev.voltage, v.cfg))

	if c.ParentID != "" {
		loading, ok, err := v.parentLoading(c.ParentID)
		if err != nil {
			return ev, err
		}
		if ok {
			ev.checks = append(ev.checks, parentLoadingCheck(loading, v.cfg))
		}
	}

	ev.harmonic = AnalyzeHarmonics(c.Loads, v.cfg)
	ev.checks = append(ev.checks, thdCheck(ev.harmonic, v.cfg))

	if ev.fault, err = AnalyzeFaultCurrent(c, v.cfg.UpstreamFaultCurrent, v.cfg.TransformerImpedance, v.cfg); err != nil {
		return ev, fmt.Errorf("fault current analysis of %q: %w", id, err)
	}
	if v.cfg.CheckFaultCurrent {
		ev.checks = append(ev.checks, faultCheck(ev.fault, c.Protection.InterruptingRating, v.cfg))
	}

	ev.load = Aggregate(c.Loads, true)
	return ev, nil
}

// parentLoading recomputes the parent's thermal analysis over the loads of
// all its current children and returns the loading in percent of its
// derated ampacity. ok is false when the parent is not registered.
// Caller holds v.mu.
func (v *Validator) parentLoading(parentID string) (loading float64, ok bool, err error) {
	t, ok, err := v.parentThermal(parentID)
	if !ok || err != nil {
		return 0, ok, err
	}
	switch {
	case t.DesignCurrent == 0:
		return 0, true, nil
	case t.DeratedAmpacity == 0:
		return math.Inf(1), true, nil
	}
	return t.DesignCurrent / t.DeratedAmpacity * 100, true, nil
}

// parentThermal runs the thermal analysis of a registered parent with its
// own loads replaced by those of its children. Caller holds v.mu.
func (v *Validator) parentThermal(parentID string) (ThermalResult, bool, error) {
	parent, ok := v.circuits[parentID]
	if !ok {
		return ThermalResult{}, false, nil
	}

	var loads []Load
	for _, id := range v.children[parentID] {
		if child, found := v.circuits[id]; found {
			loads = append(loads, child.Loads...)
		}
	}
	parent.Loads = loads

	t, err := AnalyzeThermal(parent, v.cfg)
	if err != nil {
		return ThermalResult{}, true, fmt.Errorf("thermal analysis of parent %q: %w", parentID, err)
	}
	return t, true, nil
}

// graftHandle undoes one temporary insertion.
type graftHandle struct {
	v       *Validator
	id      string
	prev    Circuit
	prevIdx int
	hadPrev bool
}

// graft inserts c into the registry and hierarchy, displacing any persisted
// circuit with the same ID. The returned handle's release must be deferred
// by the caller. Caller holds v.mu.
func (v *Validator) graft(c Circuit) *graftHandle {
	h := &graftHandle{v: v, id: c.ID}
	if prev, idx, ok := v.remove(c.ID); ok {
		h.prev, h.prevIdx, h.hadPrev = prev, idx, true
	}
	v.insertAt(c, -1)
	v.logger.Debug("candidate grafted", "circuit_id", c.ID, "parent_id", c.ParentID, "displaced", h.hadPrev)
	return h
}

// release removes the grafted candidate and restores what it displaced.
func (h *graftHandle) release() {
	h.v.remove(h.id)
	if h.hadPrev {
		h.v.insertAt(h.prev, h.prevIdx)
	}
	h.v.logger.Debug("candidate released", "circuit_id", h.id, "restored", h.hadPrev)
}

// insertAt registers c and places it at position idx of its parent's child
// list; idx < 0 appends. Caller holds v.mu.
func (v *Validator) insertAt(c Circuit, idx int) {
	v.circuits[c.ID] = c
	if c.ParentID == "" {
		return
	}
	kids := v.children[c.ParentID]
	if idx < 0 || idx > len(kids) {
		idx = len(kids)
	}
	v.children[c.ParentID] = slices.Insert(kids, idx, c.ID)
}

// remove unregisters id and returns the circuit and its former position in
// its parent's child list (-1 without a parent). Caller holds v.mu.
func (v *Validator) remove(id string) (Circuit, int, bool) {
	c, ok := v.circuits[id]
	if !ok {
		return Circuit{}, -1, false
	}
	delete(v.circuits, id)

	idx := -1
	if c.ParentID != "" {
		kids := v.children[c.ParentID]
		if idx = slices.Index(kids, id); idx >= 0 {
			kids = slices.Delete(kids, idx, idx+1)
		}
		if len(kids) == 0 {
			delete(v.children, c.ParentID)
		} else {
			v.children[c.ParentID] = kids
		}
	}
	return c, idx, true
}
