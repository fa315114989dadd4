package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleLandlord UserRole = "LANDLORD"
	RoleTenant   UserRole = "TENANT"
)

var roleRank = map[UserRole]int{
	RoleTenant:   1,
	RoleLandlord: 2,
	RoleAdmin:    3,
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	TenantID     *string   `json:"tenant_id,omitempty"`
	LandlordID   *string   `json:"landlord_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeRole upper-cases and trims a role name.
func NormalizeRole(role UserRole) UserRole {
	return UserRole(strings.ToUpper(strings.TrimSpace(string(role))))
}

func IsValidRole(role UserRole) bool {
	_, ok := roleRank[role]
	return ok
}

// HasAtLeast reports whether role sits at or above required in the
// TENANT < LANDLORD < ADMIN ordering.
func HasAtLeast(role, required UserRole) bool {
	have, ok := roleRank[role]
	if !ok {
		return false
	}
	return have >= roleRank[required]
}
