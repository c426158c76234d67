package models

// Session is the process-wide authenticated identity. It is created once by
// session bootstrap (or login), destroyed on logout, and never partially
// updated except for User on profile edits.
type Session struct {
	// User is the authenticated account, nil when anonymous.
	User *User

	// Token is the opaque bearer token presented to the ledger service.
	Token string
}

// Authenticated reports whether the session carries a resolved identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil && s.Token != ""
}
