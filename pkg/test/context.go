package test

import (
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Args is the parsed argument bag shared by a session.
type Args map[string]any

// Session carries session-wide identity. One Session is shared by every unit
// of a discovery invocation and is never modified by discovery.
type Session struct {
	ID         string
	WorkDir    string
	ResultsDir string
	Logger     *slog.Logger
	Args       Args
	Debug      bool
}

// NewSession builds a session; a nil logger falls back to slog.Default.
func NewSession(id, workDir string, logger *slog.Logger, args Args) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	if args == nil {
		args = Args{}
	}

	return &Session{
		ID:      id,
		WorkDir: workDir,
		Logger:  logger,
		Args:    args,
	}
}

// Log returns the session logger or the default logger.
func (s *Session) Log() *slog.Logger {
	if s == nil || s.Logger == nil {
		return slog.Default()
	}

	return s.Logger
}

// TypeInfo describes the discovered type a unit was built from.
type TypeInfo struct {
	Name    string
	Package string
	File    string
	Line    int
}

// Context is the per-unit wrapper around the shared session.
type Context struct {
	Session  *Session
	Module   string
	TypeName string
	Type     TypeInfo
	Method   string
	UnitID   uuid.UUID
}

// NewContext creates the context of a single (type, method) unit.
func NewContext(session *Session, module string, typ TypeInfo, method string) *Context {
	return &Context{
		Session:  session,
		Module:   module,
		TypeName: typ.Name,
		Type:     typ,
		Method:   method,
		UnitID:   uuid.New(),
	}
}

// QualifiedName is the module-qualified type name.
func (c *Context) QualifiedName() string {
	return c.Module + "." + c.TypeName
}

// ID is the unit identifier: module-qualified type name plus method.
func (c *Context) ID() string {
	if c.Method == "" {
		return c.QualifiedName()
	}

	return c.QualifiedName() + "." + c.Method
}

// TestID is the short form used in logs: last module segment, type, method.
func (c *Context) TestID() string {
	parts := []string{path.Base(c.Module)}
	if c.TypeName != "" {
		parts = append(parts, c.TypeName)
	}

	if c.Method != "" {
		parts = append(parts, c.Method)
	}

	return strings.Join(parts, ".")
}

// Logger returns the session logger annotated with the unit identity.
func (c *Context) Logger() *slog.Logger {
	return c.Session.Log().With("test", c.TestID(), "unit", c.UnitID.String())
}
