package game

// CollisionKey identifies one obstacle the ball can be in contact with.
type CollisionKey struct {
	Obstacle ObstacleKind
	Index    int
}

// CollisionTracker remembers which contacts were active on the previous step
// so a contact that lasts several steps is reported as beginning only once.
// It is owned by a single Simulation and is not safe for concurrent use.
type CollisionTracker struct {
	active map[CollisionKey]bool
}

// NewCollisionTracker creates a new, empty collision tracker.
func NewCollisionTracker() *CollisionTracker {
	return &CollisionTracker{active: make(map[CollisionKey]bool)}
}

// BeginCollision registers a contact and reports whether it is new.
func (ct *CollisionTracker) BeginCollision(key CollisionKey) bool {
	if ct.active[key] {
		return false
	}
	ct.active[key] = true
	return true
}

// EndCollision forgets a contact.
func (ct *CollisionTracker) EndCollision(key CollisionKey) {
	delete(ct.active, key)
}

// IsColliding reports whether key was in contact on the last observed step.
func (ct *CollisionTracker) IsColliding(key CollisionKey) bool {
	return ct.active[key]
}

// Observe marks Began on each event of the current step and ends every
// contact that did not recur.
func (ct *CollisionTracker) Observe(events []CollisionEvent) {
	seen := make(map[CollisionKey]bool, len(events))
	for i := range events {
		key := CollisionKey{Obstacle: events[i].Obstacle, Index: events[i].Index}
		seen[key] = true
		events[i].Began = ct.BeginCollision(key)
	}
	for key := range ct.active {
		if !seen[key] {
			ct.EndCollision(key)
		}
	}
}

// ClearAll removes all currently tracked collisions.
func (ct *CollisionTracker) ClearAll() {
	ct.active = make(map[CollisionKey]bool)
}
