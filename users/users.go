package users

import (
	"encoding/json"
	"strings"
)

// Role is the LABit account role carried in the access token and the /auth/me payload
type Role string

const (
	RoleUser       Role = "USER"        // Regular reader / commenter
	RoleAdmin      Role = "ADMIN"       // Can manage posts, navigation and assets
	RoleSuperAdmin Role = "SUPER_ADMIN" // Admin who can also manage other admins
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ParseRole normalises a role string; the backend sometimes prefixes roles with "ROLE_"
func ParseRole(s string) Role {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	if !r.Valid() {
		return RoleUser
	}
	return r
}

// UnmarshalJSON accepts "ROLE_ADMIN" style values from the backend
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// Profile is the read-only view of the signed in user
type Profile struct {
	ID           int64  `json:"id"`                     // LABit user ID
	Nickname     string `json:"nickname,omitempty"`     // Display name (Kakao nickname by default)
	Email        string `json:"email,omitempty"`        // May be empty when Kakao consent was not given
	ProfileImage string `json:"profileImage,omitempty"` // Avatar URL
	Role         Role   `json:"role,omitempty"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleSuperAdmin)
}

func (p *Profile) IsSuperAdmin() bool {
	return p != nil && p.Role == RoleSuperAdmin
}

// Clone returns a copy so callers cannot mutate a stored profile
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
