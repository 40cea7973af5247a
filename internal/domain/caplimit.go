package domain

// CapLimitStatus tracks the capacity-limit state of a subsector within a
// single period across redistribution passes. Once a share has been pinned to
// its limit it must stay there for the rest of the period's passes, so the
// state only moves forward: Unlimited -> LimitPending -> LimitApplied.
type CapLimitStatus int

const (
	// CapUnlimited means the share is under its effective limit.
	CapUnlimited CapLimitStatus = iota
	// CapLimitPending means the current pass found the share over its limit
	// and the cap has not been applied yet.
	CapLimitPending
	// CapLimitApplied means the share has been pinned to its limit and is
	// excluded from further redistribution.
	CapLimitApplied
)

func (s CapLimitStatus) String() string {
	switch s {
	case CapUnlimited:
		return "unlimited"
	case CapLimitPending:
		return "limit-pending"
	case CapLimitApplied:
		return "limit-applied"
	}
	return "unknown"
}
