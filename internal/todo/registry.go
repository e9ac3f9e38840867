package todo

import "fmt"

// Registry is the set of live tasks keyed by ID. It is not safe for
// concurrent use; the controller loop owns it.
type Registry struct {
	items map[string]Item
}

func NewRegistry(items ...Item) *Registry {
	r := &Registry{items: make(map[string]Item, len(items))}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

// Add inserts item, failing if its ID is already present.
func (r *Registry) Add(item Item) error {
	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("add %q: %w", item.ID, ErrDuplicateID)
	}
	r.items[item.ID] = item
	return nil
}

// Upsert inserts or replaces item.
func (r *Registry) Upsert(item Item) {
	r.items[item.ID] = item
}

func (r *Registry) Remove(id string) error {
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

func (r *Registry) Get(id string) (Item, bool) {
	it, ok := r.items[id]
	return it, ok
}

func (r *Registry) Len() int {
	return len(r.items)
}

// All returns the items in no particular order.
func (r *Registry) All() []Item {
	out := make([]Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	return out
}

// Sorted returns the items ordered by Compare.
func (r *Registry) Sorted() []Item {
	out := r.All()
	Sort(out)
	return out
}

// DrainFinished removes every finished item and returns them sorted.
func (r *Registry) DrainFinished() []Item {
	var drained []Item
	for id, it := range r.items {
		if it.Finished {
			drained = append(drained, it)
			delete(r.items, id)
		}
	}
	Sort(drained)
	return drained
}
