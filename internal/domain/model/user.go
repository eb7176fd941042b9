// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package model

// User represents a user account with a denormalized copy of group
// membership. The password value is opaque to this service; hashing and
// session mechanics live elsewhere.
type User struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Groups   []GroupRef `json:"groups"`
}

// UpsertGroup inserts the group reference or updates the name of an
// existing entry with the same id. Returns true when an entry was replaced.
func (u *User) UpsertGroup(ref GroupRef) bool {
	for i := range u.Groups {
		if u.Groups[i].ID == ref.ID {
			u.Groups[i] = ref
			return true
		}
	}
	u.Groups = append(u.Groups, ref)
	return false
}

// RemoveGroup removes the group reference with the given id. Returns true
// when an entry was removed.
func (u *User) RemoveGroup(id string) bool {
	for i := range u.Groups {
		if u.Groups[i].ID == id {
			u.Groups = append(u.Groups[:i], u.Groups[i+1:]...)
			return true
		}
	}
	return false
}

// HasGroup reports whether the user holds a reference to the given group id.
func (u *User) HasGroup(id string) bool {
	for i := range u.Groups {
		if u.Groups[i].ID == id {
			return true
		}
	}
	return false
}
