package domain

// Session is the persisted login of one browser or terminal. The zero value is
// the absent session.
type Session struct {
	Token    string
	Username string
}

// Present reports whether both entries are set. A half-written session (only one
// entry stored) counts as absent.
func (s Session) Present() bool {
	return s.Token != "" && s.Username != ""
}

// AuthState is the UI-facing view of a Session. It is derived, never persisted.
type AuthState struct {
	IsAuthenticated bool
	Username        string
}

// StateOf derives the AuthState for a session.
func StateOf(s Session) AuthState {
	if !s.Present() {
		return AuthState{}
	}
	return AuthState{IsAuthenticated: true, Username: s.Username}
}
