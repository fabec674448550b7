package session

// =============================================================================
// Test Stub for Error Injection
//
// Stub wraps a pure Sessions (usually a Double) and lets tests inject
// errors into individual operations. Keeping error injection out of the
// Double keeps the Double a drop-in replacement for tmux.
// =============================================================================

// Stub wraps a Sessions implementation and allows injecting errors.
type Stub struct {
	Sessions

	CreateErr  error
	KillErr    error
	LiteralErr error
	KeyErr     error
	CaptureErr error
}

// NewStub creates a new stub wrapping the given Sessions implementation.
func NewStub(wrapped Sessions) *Stub {
	return &Stub{Sessions: wrapped}
}

// Create returns CreateErr if set, otherwise delegates.
func (s *Stub) Create(id ID, window string) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	return s.Sessions.Create(id, window)
}

// Kill returns KillErr if set, otherwise delegates.
func (s *Stub) Kill(id ID) error {
	if s.KillErr != nil {
		return s.KillErr
	}
	return s.Sessions.Kill(id)
}

// SendLiteral returns LiteralErr if set, otherwise delegates.
func (s *Stub) SendLiteral(id ID, text string) error {
	if s.LiteralErr != nil {
		return s.LiteralErr
	}
	return s.Sessions.SendLiteral(id, text)
}

// SendKey returns KeyErr if set, otherwise delegates.
func (s *Stub) SendKey(id ID, key string) error {
	if s.KeyErr != nil {
		return s.KeyErr
	}
	return s.Sessions.SendKey(id, key)
}

// Capture returns CaptureErr if set, otherwise delegates.
func (s *Stub) Capture(id ID, lines int) (string, error) {
	if s.CaptureErr != nil {
		return "", s.CaptureErr
	}
	return s.Sessions.Capture(id, lines)
}
