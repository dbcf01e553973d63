package domain

// DefaultSyncTimeMillis is the client sync interval stamped onto freshly
// created profiles.
const DefaultSyncTimeMillis = 30 * 1000

// UserProfile is the per-account record of board ownership. ID equals the
// session UID of the owning user. Boards holds bare board ids, never
// embedded board documents.
type UserProfile struct {
	ID            UserID    `json:"id"`
	Boards        []BoardID `json:"boards"`
	SelectedBoard BoardID   `json:"selectedBoard"`
	SyncTime      int64     `json:"syncTime,omitempty"`
}

// OwnsBoard reports whether id is a member of the profile's board list.
func (p *UserProfile) OwnsBoard(id BoardID) bool {
	for _, b := range p.Boards {
		if b == id {
			return true
		}
	}
	return false
}
