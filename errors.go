package circuitcheck

import "errors"

// Error kinds surfaced by the engine. Callers test for them with errors.Is;
// the wrapped message carries the offending size, identity or field.
var (
	// ErrUnknownWireSize means a circuit references a conductor size that is
	// not in the wire table. Fatal to any analysis of that circuit.
	ErrUnknownWireSize = errors.New("unknown wire size")

	// ErrCircuitNotFound means an operation referenced a circuit identity
	// that is not in the registry.
	ErrCircuitNotFound = errors.New("circuit not found")

	// ErrConfiguration means a threshold or record value is outside its valid
	// range (negative length, temperature below absolute zero, ...).
	// Rejected at construction, never clamped during evaluation.
	ErrConfiguration = errors.New("invalid configuration")
)
