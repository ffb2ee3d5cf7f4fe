// Package obligation implements the constraint-driven subject analyzer:
// it extracts per-subject resolution demands and gates, aggregates density
// and lateral-dynamics metrics, and computes the stretto feasibility
// matrix.
package obligation

import "bachgen/tick"

// Type is the obligation taxonomy.
type Type int

const (
	LeadingTone Type = iota
	Seventh
	LeapResolve
	CadenceStable
	CadenceApproach
	ImitationEntry
	ImitationDistance
	StrongBeatHarm
	InvariantRecovery
)

// Strength classifies how strictly an obligation must be honored.
type Strength int

const (
	Structural Strength = iota
	Soft
)

// Node is a single obligation extracted from subject analysis.
type Node struct {
	ID                      int
	Type                    Type
	OriginTick              int
	StartTick               int
	DeadlineTick            int
	Direction               int // -1, 0, +1
	VoiceMask               uint8
	Strength                Strength
	RequiredIntervalSemis   int
	RequireStrongBeat       bool
	Conflicts               []int
	Satisfies               []int
}

// IsDebt is true iff the node's type is neither StrongBeatHarm (a gate) nor
// InvariantRecovery.
func (n Node) IsDebt() bool {
	return n.Type != StrongBeatHarm && n.Type != InvariantRecovery
}

// ActiveAt reports whether t lies in the node's [StartTick, DeadlineTick]
// window. It does not check IsDebt, so gate nodes report true too.
func (n Node) ActiveAt(t int) bool {
	return n.StartTick <= t && t <= n.DeadlineTick
}

// beatTicks is one beat (480 ticks).
const beatTicks = tick.Beat
