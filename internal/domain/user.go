package domain

import (
	"fmt"
	"strings"
)

// Role enumerates user roles.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleAgent    Role = "Agent"
	RoleReporter Role = "Reporter"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleReporter:
		return true
	}
	return false
}

// ParseRole resolves a role name, ignoring case.
func ParseRole(name string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleAgent, RoleReporter} {
		if strings.EqualFold(string(r), strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", name)
}

// Permission is a single named capability.
type Permission uint32

const (
	PermCreateTicket Permission = 1 << iota
	PermEditAllTickets
	PermEditAssignedTickets
	PermEditOwnTickets
	PermDeleteTicket
	PermViewAllTickets
	PermViewAssignedTickets
	PermViewOwnTickets
	PermCommentTickets
	PermCommentOwnTickets
	PermManageUsers
	PermViewReports
)

var permissionNames = []struct {
	perm Permission
	name string
}{
	{PermCreateTicket, "create_ticket"},
	{PermEditAllTickets, "edit_all_tickets"},
	{PermEditAssignedTickets, "edit_assigned_tickets"},
	{PermEditOwnTickets, "edit_own_tickets"},
	{PermDeleteTicket, "delete_ticket"},
	{PermViewAllTickets, "view_all_tickets"},
	{PermViewAssignedTickets, "view_assigned_tickets"},
	{PermViewOwnTickets, "view_own_tickets"},
	{PermCommentTickets, "comment_tickets"},
	{PermCommentOwnTickets, "comment_own_tickets"},
	{PermManageUsers, "manage_users"},
	{PermViewReports, "view_reports"},
}

func (p Permission) String() string {
	for _, entry := range permissionNames {
		if entry.perm == p {
			return entry.name
		}
	}
	return fmt.Sprintf("Permission(%d)", uint32(p))
}

// ParsePermission resolves a permission name. Unknown names are an error.
func ParsePermission(name string) (Permission, error) {
	for _, entry := range permissionNames {
		if entry.name == name {
			return entry.perm, nil
		}
	}
	return 0, fmt.Errorf("unknown permission %q", name)
}

// PermissionSet is a set of permissions encoded as a bitmask.
type PermissionSet uint32

// NewPermissionSet builds a set from individual permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	var set PermissionSet
	for _, p := range perms {
		set |= PermissionSet(p)
	}
	return set
}

// ParsePermissionSet builds a set from names, failing on the first unknown one.
func ParsePermissionSet(names []string) (PermissionSet, error) {
	var set PermissionSet
	for _, name := range names {
		p, err := ParsePermission(name)
		if err != nil {
			return 0, err
		}
		set |= PermissionSet(p)
	}
	return set, nil
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	return p != 0 && s&PermissionSet(p) == PermissionSet(p)
}

// Names lists the set's permission names in declaration order.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(permissionNames))
	for _, entry := range permissionNames {
		if s.Has(entry.perm) {
			names = append(names, entry.name)
		}
	}
	return names
}

// User is the acting subject of dashboard operations.
type User struct {
	Email       string
	Name        string
	Role        Role
	Permissions PermissionSet
}
