package core

import (
	"strings"
)

// rolePrefixes are local part prefixes that identify functional mailboxes
var rolePrefixes = []string{
	"admin",
	"info",
	"support",
	"sales",
	"contact",
	"help",
	"noreply",
	"no-reply",
	"service",
	"team",
	"hello",
	"webmaster",
	"postmaster",
	"abuse",
}

const (
	MsgRoleBased    = "Role-based address (not personal)"
	MsgNotRoleBased = "Not a role-based address"
)

// DetectRole reports whether the local part starts with a role prefix.
// Matching is case-insensitive and anchored: "admin123" matches, "myadmin" does not.
func DetectRole(email string) RoleResult {
	local, _ := splitAddress(email)
	local = strings.ToLower(local)

	for _, prefix := range rolePrefixes {
		if strings.HasPrefix(local, prefix) {
			return RoleResult{IsRole: true, Message: MsgRoleBased}
		}
	}

	return RoleResult{IsRole: false, Message: MsgNotRoleBased}
}
