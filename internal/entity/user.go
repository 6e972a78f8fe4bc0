package entity

import "strings"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"` // user, admin
	CreatedAt string `json:"createdAt,omitempty"`
}

func (u User) Valid() bool {
	return strings.TrimSpace(u.ID) != ""
}

func (u User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// DisplayName falls back to the email's local part when no name is set.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}
