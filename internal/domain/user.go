package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleUser      Role = "user"
)

// Roles lists every role bucket in display order.
var Roles = []Role{RoleAdmin, RoleOrganizer, RoleUser}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleUser:
		return true
	default:
		return false
	}
}

type User struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        Role      `json:"role"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// NewUser is the admin "add user" form.
type NewUser struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        Role   `json:"role" validate:"required,oneof=admin organizer user"`
}

// Buckets maps each role to its users. Every email appears in exactly one
// bucket.
type Buckets map[Role][]User

// Clone copies the map and its slices and fills in empty buckets for every role.
func (b Buckets) Clone() Buckets {
	out := make(Buckets, len(Roles))
	for _, role := range Roles {
		out[role] = append([]User{}, b[role]...)
	}
	for role, users := range b {
		if _, ok := out[role]; !ok {
			out[role] = append([]User{}, users...)
		}
	}
	return out
}

// All flattens the buckets in role order.
func (b Buckets) All() []User {
	var all []User
	for _, role := range Roles {
		all = append(all, b[role]...)
	}
	return all
}

// Find looks a user up by email, case-insensitively.
func (b Buckets) Find(email string) (User, bool) {
	email = strings.TrimSpace(email)
	for _, users := range b {
		for _, u := range users {
			if strings.EqualFold(u.Email, email) {
				return u, true
			}
		}
	}
	return User{}, false
}

func (b Buckets) Contains(email string) bool {
	_, ok := b.Find(email)
	return ok
}

// Move returns new buckets with the user removed from every bucket and
// appended to role with its Role field updated. The receiver is not modified.
// found is false when no user has the email; the result then equals a clone.
func (b Buckets) Move(email string, role Role) (moved Buckets, found bool) {
	user, found := b.Find(email)

	moved = make(Buckets, len(Roles))
	for _, r := range Roles {
		moved[r] = []User{}
	}
	for r, users := range b {
		kept := make([]User, 0, len(users))
		for _, u := range users {
			if !strings.EqualFold(u.Email, strings.TrimSpace(email)) {
				kept = append(kept, u)
			}
		}
		moved[r] = kept
	}

	if found {
		user.Role = role
		moved[role] = append(moved[role], user)
	}
	return moved, found
}
