package domain

type UserID string

// Session is the authenticated identity handle obtained from the identity
// provider. It lives only for the duration of a sign-in; nothing here is
// persisted.
type Session struct {
	UID         UserID
	DisplayName string
	PhotoURL    string
	Email       string
}
