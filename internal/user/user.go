package user

import "strings"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an entry of the credential table. Password holds a bcrypt hash.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// Identity is the authenticated user context. Its ID partitions every record
// kept for the user.
type Identity struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: DisplayName(u.Email), Role: u.Role}
}

// DisplayName is the capitalized local part of an email address.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return ""
	}
	return strings.ToUpper(local[:1]) + local[1:]
}
