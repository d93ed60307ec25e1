package domain

// Lifecycle marks an entity as live or terminally closed. Closing never
// deletes a row; historical referential integrity is preserved.
type Lifecycle string

const (
	// LifecycleActive marks a live entity.
	LifecycleActive Lifecycle = "active"

	// LifecycleClosed marks a soft-deleted entity. Terminal.
	LifecycleClosed Lifecycle = "closed"
)

// Closed reports whether the entity reached its terminal state.
func (l Lifecycle) Closed() bool {
	return l == LifecycleClosed
}
