package model

// LifecycleState is the soft-delete lifecycle of a record. Rows are never
// hard-deleted; instead they move to StateInactive and every read path
// filters on StateActive. Modeled as a tagged state rather than a boolean so
// that additional states (e.g. pending moderation) stay an explicit variant.
type LifecycleState string

const (
	StateActive   LifecycleState = "active"
	StateInactive LifecycleState = "inactive"
)

// IsActive reports whether the record is in the active state.
func (s LifecycleState) IsActive() bool {
	return s == StateActive
}
