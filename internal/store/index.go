package store

import "container/list"

// lruIndex is the doubly-linked recency list (C2). It stores *Entry
// pointers directly as list.Element values, so unlinking an entry is
// O(1) via the element pointer it carries rather than a second map
// lookup — the same list+index idiom the teacher uses in its sharded
// LRU, specialized to a single non-sharded list.
type lruIndex struct {
	l *list.List
}

func newLRUIndex() *lruIndex {
	return &lruIndex{l: list.New()}
}

// pushFront inserts e at the head (most recently touched).
func (idx *lruIndex) pushFront(e *Entry) {
	e.elem = idx.l.PushFront(e)
}

// touch moves e to the head; called on every hit and every reload.
func (idx *lruIndex) touch(e *Entry) {
	if e.elem == nil {
		return
	}
	idx.l.MoveToFront(e.elem)
}

// unlink removes e from the list; a pure list operation with no
// bookkeeping of its own.
func (idx *lruIndex) unlink(e *Entry) {
	if e.elem == nil {
		return
	}
	idx.l.Remove(e.elem)
	e.elem = nil
}

// back returns the coldest entry, or nil if the list is empty.
func (idx *lruIndex) back() *Entry {
	el := idx.l.Back()
	if el == nil {
		return nil
	}
	return el.Value.(*Entry)
}

// prev returns the entry just toward head of e, captured before e is
// potentially unlinked by the caller.
func (idx *lruIndex) prev(e *Entry) *Entry {
	if e.elem == nil {
		return nil
	}
	el := e.elem.Prev()
	if el == nil {
		return nil
	}
	return el.Value.(*Entry)
}

func (idx *lruIndex) len() int { return idx.l.Len() }
