package document

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 100

type snapshot struct {
	doc *Document
	sel Selection
}

// History is a linear undo log. Entries are immutable snapshots, so undo and
// redo only move pointers between the two stacks.
type History struct {
	limit  int
	done   []snapshot
	undone []snapshot
}

func newHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// push records the state being replaced by a new edit and drops the redo branch.
func (h *History) push(s snapshot) {
	h.done = append(h.done, s)
	if len(h.done) > h.limit {
		h.done = h.done[len(h.done)-h.limit:]
	}
	h.undone = nil
}

func (h *History) undo(current snapshot) (snapshot, bool) {
	if len(h.done) == 0 {
		return snapshot{}, false
	}
	prev := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, current)
	return prev, true
}

func (h *History) redo(current snapshot) (snapshot, bool) {
	if len(h.undone) == 0 {
		return snapshot{}, false
	}
	next := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, current)
	return next, true
}

func (h *History) CanUndo() bool { return len(h.done) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Depth returns the number of undo and redo entries.
func (h *History) Depth() (undo, redo int) {
	return len(h.done), len(h.undone)
}
