package auth

import (
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleAdmin
}

// User is an account. A user may hold several roles; they are stored as a
// comma separated list.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"size:128" json:"fullName"`
	Roles        string    `gorm:"size:64;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) RoleList() []string {
	if u.Roles == "" {
		return []string{}
	}
	return strings.Split(u.Roles, ",")
}

func (u *User) HasRole(r Role) bool {
	return slices.Contains(u.RoleList(), string(r))
}

func (u *User) SetRoles(roles ...Role) {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		if !slices.Contains(names, string(r)) {
			names = append(names, string(r))
		}
	}
	u.Roles = strings.Join(names, ",")
}
