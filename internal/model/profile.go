package model

// Placeholders used when no profile is available.
const (
	AnonymousDisplayName = "匿名ユーザー"
	AnonymousUserID      = "anonymous"
)

// Profile is the identity supplied by the messenger or HTTP caller.
type Profile struct {
	DisplayName string `json:"display_name"`
	UserID      string `json:"user_id"`
}

// IsAnonymous checks whether the profile carries the placeholder user id.
func (p Profile) IsAnonymous() bool {
	return p.UserID == AnonymousUserID
}
