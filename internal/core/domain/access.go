package domain

import "time"

type UserID string
type ContentID string
type ClientID string

// Permission is a capability carried by an access token.
type Permission string

const (
	PermissionView     Permission = "view"
	PermissionDownload Permission = "download"
)

// KnownPermissions is the fixed capability set tokens may be issued with.
var KnownPermissions = map[Permission]bool{
	PermissionView:     true,
	PermissionDownload: true,
}

// IssuedToken is what the token service hands back on issuance. The token
// string itself is self-describing and tamper-evident; the remaining fields
// are returned alongside for the caller's convenience.
type IssuedToken struct {
	Token         string
	SubjectUserID UserID
	ContentID     ContentID
	Permissions   []Permission
	IssuedAt      time.Time
	ExpiresAt     time.Time
	Watermark     string
}

// HasPermission reports whether perm is in the issued permission set.
func (t *IssuedToken) HasPermission(perm Permission) bool {
	for _, p := range t.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
