// Package editor wires the diagram model, command history, connector router
// and snap engine into the editing operations an interaction layer calls.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"flowcraft/diagram"
	"flowcraft/history"
	"flowcraft/routing"
	"flowcraft/shapes"
	"flowcraft/snap"
)

// Session is one open diagram with its undo history.
type Session struct {
	model    *diagram.Diagram
	history  *history.History
	router   *routing.Router
	snap     *snap.Engine
	registry *shapes.Registry
	logger   *zap.Logger

	defaults diagram.SettingsPatch // Applied to every new diagram

	// Interaction state
	drag   *dragState
	resize *resizeState
	rotate *rotateState

	hasChanges bool // Track unsaved changes
}

type options struct {
	registry     *shapes.Registry
	logger       *zap.Logger
	clearance    float64
	threshold    float64
	historyLimit int
	settings     diagram.SettingsPatch
}

// Option configures a Session.
type Option func(*options)

// WithRegistry sets the shape registry used for catalog lookups and new shapes.
func WithRegistry(r *shapes.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger sets the logger shared by every component of the session.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClearance sets the connector port clearance.
func WithClearance(c float64) Option {
	return func(o *options) { o.clearance = c }
}

// WithSnapThreshold sets the drag and resize snap threshold.
func WithSnapThreshold(t float64) Option {
	return func(o *options) { o.threshold = t }
}

// WithHistoryLimit caps the number of undo steps kept. Zero keeps all.
func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}

// WithSettings sets the canvas settings applied to new diagrams.
func WithSettings(p diagram.SettingsPatch) Option {
	return func(o *options) { o.settings = p }
}

// New creates a session editing an empty diagram.
func New(opts ...Option) *Session {
	o := options{registry: shapes.Default(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.registry == nil {
		o.registry = shapes.Default()
	}

	model := diagram.New(diagram.WithCatalog(o.registry), diagram.WithLogger(o.logger.Named("diagram")))
	s := &Session{
		model:    model,
		history:  history.New(history.WithLimit(o.historyLimit), history.WithLogger(o.logger.Named("history"))),
		router:   routing.New(model, routing.WithClearance(o.clearance), routing.WithLogger(o.logger.Named("routing"))),
		snap:     snap.New(snap.WithThreshold(o.threshold), snap.WithLogger(o.logger.Named("snap"))),
		registry: o.registry,
		logger:   o.logger,
		defaults: o.settings,
	}
	model.Subscribe(diagram.Changed, func(diagram.Event) { s.hasChanges = true })
	s.NewDiagram()
	return s
}

// Model returns the diagram being edited.
func (s *Session) Model() *diagram.Diagram { return s.model }

// History returns the undo history.
func (s *Session) History() *history.History { return s.history }

// Router returns the connector router.
func (s *Session) Router() *routing.Router { return s.router }

// Snap returns the snap engine.
func (s *Session) Snap() *snap.Engine { return s.snap }

// Registry returns the shape registry.
func (s *Session) Registry() *shapes.Registry { return s.registry }

// HasChanges reports whether the diagram changed since it was created, loaded or saved.
func (s *Session) HasChanges() bool { return s.hasChanges }

// NewDiagram discards the current diagram and its history.
func (s *Session) NewDiagram() {
	s.abortInteraction()
	s.model.Clear()
	s.model.UpdateSettings(s.defaults)
	s.history.Clear()
	s.hasChanges = false
}

// LoadJSON replaces the diagram with a JSON document and clears the history.
// The current diagram is kept when the document does not decode.
func (s *Session) LoadJSON(data []byte) error {
	return s.load(data, s.model.LoadJSON)
}

// LoadMsgpack replaces the diagram with a msgpack snapshot and clears the history.
func (s *Session) LoadMsgpack(data []byte) error {
	return s.load(data, s.model.LoadMsgpack)
}

func (s *Session) load(data []byte, decode func([]byte) error) error {
	s.abortInteraction()
	if err := decode(data); err != nil {
		return fmt.Errorf("load diagram: %w", err)
	}
	s.history.Clear()
	s.hasChanges = false
	s.logger.Info("diagram loaded",
		zap.String("diagram", s.model.ID),
		zap.Int("shapes", len(s.model.Shapes())),
		zap.Int("connectors", len(s.model.Connectors())))
	return nil
}

// SaveJSON encodes the diagram and clears the unsaved changes flag.
func (s *Session) SaveJSON() ([]byte, error) {
	data, err := s.model.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("save diagram: %w", err)
	}
	s.hasChanges = false
	return data, nil
}

// SaveMsgpack encodes the diagram as a msgpack snapshot and clears the
// unsaved changes flag.
func (s *Session) SaveMsgpack() ([]byte, error) {
	data, err := s.model.MarshalMsgpack()
	if err != nil {
		return nil, fmt.Errorf("save diagram: %w", err)
	}
	s.hasChanges = false
	return data, nil
}

// Undo reverts the last step. An interaction in progress is cancelled first.
func (s *Session) Undo() {
	s.abortInteraction()
	s.history.Undo()
}

// Redo reapplies the last undone step.
func (s *Session) Redo() {
	s.abortInteraction()
	s.history.Redo()
}

// CanUndo returns true if undo is possible
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo returns true if redo is possible
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

func (s *Session) abortInteraction() {
	s.CancelDrag()
	s.CancelResize()
	s.CancelRotate()
}
