package editor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modsmith/shapeforge/internal/shape"
	"github.com/modsmith/shapeforge/internal/shapefile"
)

// Session owns exactly one collection and its edit history. All mutation goes
// through Apply/Undo/Redo; every operation either leaves the collection
// exactly as it was or transitions it once to the new valid state.
//
// A session is single-threaded by contract: the host serializes calls into
// it, so no locking happens here.
type Session struct {
	id         uuid.UUID
	collection *shape.Collection
	history    *History
	logger     *zap.Logger
}

// NewSession creates a session over an empty collection.
//
// Precondition: logger must be non-nil.
func NewSession(logger *zap.Logger, historyLimit int) *Session {
	return &Session{
		id:         uuid.New(),
		collection: shape.NewCollection(),
		history:    NewHistory(historyLimit),
		logger:     logger,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Import parses and builds text and, on success, replaces the session's
// collection and discards all history. On any error the current collection
// and history are left untouched.
func (s *Session) Import(text string) ([]shapefile.Warning, error) {
	collection, warnings, err := shapefile.ParseAndBuild(text)
	if err != nil {
		s.logger.Warn("import rejected",
			zap.String("session", s.id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	s.collection = collection
	s.history.Reset()
	s.logger.Info("imported collection",
		zap.String("session", s.id.String()),
		zap.Int("shapes", len(collection.Shapes)),
		zap.Int("warnings", len(warnings)),
	)
	return warnings, nil
}

// Export renders the current collection to shape-file text.
func (s *Session) Export() string {
	s.logger.Info("exported collection",
		zap.String("session", s.id.String()),
		zap.Int("shapes", len(s.collection.Shapes)),
	)
	return shapefile.Render(s.collection)
}

// Apply executes cmd. A rejected command leaves the collection untouched;
// a successful one truncates any redo entries.
func (s *Session) Apply(cmd Command) error {
	if err := s.history.Apply(s.collection, cmd); err != nil {
		s.logger.Warn("edit rejected",
			zap.String("session", s.id.String()),
			zap.String("command", cmd.Name()),
			zap.Error(err),
		)
		return err
	}
	s.logger.Debug("edit applied",
		zap.String("session", s.id.String()),
		zap.String("command", cmd.Name()),
	)
	return nil
}

// Undo reverses the most recent applied command.
func (s *Session) Undo() error {
	if err := s.history.Undo(s.collection); err != nil {
		return err
	}
	s.logger.Debug("undo", zap.String("session", s.id.String()))
	return nil
}

// Redo re-applies the most recently undone command.
func (s *Session) Redo() error {
	if err := s.history.Redo(s.collection); err != nil {
		return err
	}
	s.logger.Debug("redo", zap.String("session", s.id.String()))
	return nil
}

// CanUndo reports whether there is anything to undo.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether there is anything to redo.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Snapshot returns a deep copy of the current collection for read-only use
// by rendering layers. Mutating the copy never affects the session.
func (s *Session) Snapshot() *shape.Collection {
	return s.collection.Clone()
}
