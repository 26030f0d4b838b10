package task

// Allocator hands out stable, reusable task IDs.
//
// It keeps a monotonically advancing candidate counter plus the set of IDs
// currently held by active tasks. Released IDs become eligible for reuse only
// when the counter has not yet advanced past them; uniqueness among active
// tasks is the invariant, smallest-free-ID is not.
type Allocator struct {
	next int
	used map[int]bool
}

// NewAllocator returns an allocator whose first candidate is 1.
func NewAllocator() *Allocator {
	return &Allocator{next: 1, used: make(map[int]bool)}
}

// Next returns the smallest unused candidate at or beyond the counter, marks
// it used, and advances the counter past it.
func (a *Allocator) Next() int {
	for a.used[a.next] {
		a.next++
	}
	id := a.next
	a.used[id] = true
	a.next++
	return id
}

// Mark records an ID seen in the file as used and keeps the counter beyond it.
func (a *Allocator) Mark(id int) {
	a.used[id] = true
	if id >= a.next {
		a.next = id + 1
	}
}

// Release frees an ID when its task is completed or deleted. The ID is
// reusable by a future Next only while the counter has not advanced past it.
func (a *Allocator) Release(id int) {
	delete(a.used, id)
}

// InUse reports whether an ID is currently held by an active task.
func (a *Allocator) InUse(id int) bool {
	return a.used[id]
}
