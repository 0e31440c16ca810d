// Package history records model mutations as commands and replays them for undo and redo.
package history

import "go.uber.org/zap"

// Command is a reversible model mutation.
// Execute and Undo must be safe to call repeatedly in alternation.
type Command interface {
	Execute()
	Undo()
	Label() string
}

// DefaultBatchLabel names a batch closed without a label.
const DefaultBatchLabel = "Batch"

// History manages the undo and redo stacks of one diagram session
type History struct {
	undoStack []Command
	redoStack []Command

	batch      []Command // Commands accumulated by the open batch
	batchDepth int       // Nested BeginBatch calls, 0 when no batch is open

	limit    int // Maximum undo depth, 0 for unlimited
	onChange func()
	logger   *zap.Logger
}

// Option configures a History.
type Option func(*History)

// WithLimit caps the undo stack; the oldest entries are dropped first.
func WithLimit(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.limit = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates an empty history
func New(opts ...Option) *History {
	h := &History{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnChange registers the listener notified whenever the stacks change.
func (h *History) OnChange(fn func()) {
	h.onChange = fn
}

func (h *History) notify() {
	if h.onChange != nil {
		h.onChange()
	}
}

// Execute applies cmd and makes it the newest undo step.
// Inside a batch the command is applied and accumulated instead.
func (h *History) Execute(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Execute()
	if h.batchDepth > 0 {
		h.batch = append(h.batch, cmd)
		return
	}
	h.push(cmd)
	h.logger.Debug("command executed", zap.String("label", cmd.Label()), zap.Int("undo_depth", len(h.undoStack)))
	h.notify()
}

// Record stores a command whose effect is already applied to the model
func (h *History) Record(cmd Command) {
	if cmd == nil {
		return
	}
	if h.batchDepth > 0 {
		h.batch = append(h.batch, cmd)
		return
	}
	h.push(cmd)
	h.logger.Debug("command recorded", zap.String("label", cmd.Label()), zap.Int("undo_depth", len(h.undoStack)))
	h.notify()
}

// push adds cmd to the undo stack and invalidates redo history.
func (h *History) push(cmd Command) {
	h.undoStack = append(h.undoStack, cmd)
	if h.limit > 0 && len(h.undoStack) > h.limit {
		drop := len(h.undoStack) - h.limit
		for i := 0; i < drop; i++ {
			h.undoStack[i] = nil
		}
		h.undoStack = h.undoStack[drop:]
	}
	h.redoStack = nil
}

// Undo reverts the newest undo step. No-op when there is none.
func (h *History) Undo() {
	if len(h.undoStack) == 0 {
		return
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	cmd.Undo()
	h.redoStack = append(h.redoStack, cmd)
	h.logger.Debug("undo", zap.String("label", cmd.Label()))
	h.notify()
}

// Redo re-applies the newest redo step. No-op when there is none.
func (h *History) Redo() {
	if len(h.redoStack) == 0 {
		return
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	h.logger.Debug("redo", zap.String("label", cmd.Label()))
	h.notify()
}

// CanUndo returns true if undo is possible
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is possible
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// BeginBatch opens an accumulation window. Nested calls join the open batch,
// which closes with the matching outermost EndBatch.
func (h *History) BeginBatch() {
	if h.batchDepth == 0 {
		h.batch = nil
	}
	h.batchDepth++
}

// InBatch reports whether a batch is open.
func (h *History) InBatch() bool {
	return h.batchDepth > 0
}

// EndBatch closes the batch and pushes its commands as one undo step.
// An empty batch is dropped; a single command is pushed as is.
func (h *History) EndBatch(label string) {
	if h.batchDepth == 0 {
		return
	}
	h.batchDepth--
	if h.batchDepth > 0 {
		return
	}

	cmds := h.batch
	h.batch = nil
	switch len(cmds) {
	case 0:
		return
	case 1:
		h.push(cmds[0])
	default:
		if label == "" {
			label = DefaultBatchLabel
		}
		h.push(NewComposite(label, cmds))
	}
	h.logger.Debug("batch closed", zap.String("label", label), zap.Int("commands", len(cmds)))
	h.notify()
}

// CancelBatch reverts every command of the open batch in reverse order and
// discards it. The undo and redo stacks are left untouched.
func (h *History) CancelBatch() {
	if h.batchDepth == 0 {
		return
	}
	for i := len(h.batch) - 1; i >= 0; i-- {
		h.batch[i].Undo()
	}
	h.logger.Debug("batch cancelled", zap.Int("commands", len(h.batch)))
	h.batch = nil
	h.batchDepth = 0
	h.notify()
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.notify()
}

// Labels returns the labels of the undo and redo stacks, newest first.
func (h *History) Labels() (undo, redo []string) {
	for i := len(h.undoStack) - 1; i >= 0; i-- {
		undo = append(undo, h.undoStack[i].Label())
	}
	for i := len(h.redoStack) - 1; i >= 0; i-- {
		redo = append(redo, h.redoStack[i].Label())
	}
	return undo, redo
}

// Stats returns the depth of the undo and redo stacks
func (h *History) Stats() (undo, redo int) {
	return len(h.undoStack), len(h.redoStack)
}
