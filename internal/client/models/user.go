package models

import "strings"

// User is the locally cached account identity. A zero User means no
// session: the diary works cache-only.
type User struct {
	ID    string
	Email string
	Name  string
}

// Anonymous reports whether there is no signed-in account.
func (u *User) Anonymous() bool {
	return u == nil || u.ID == ""
}

// DisplayName returns the stored name, falling back to the local part of
// the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
