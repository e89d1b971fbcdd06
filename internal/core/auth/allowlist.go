package auth

import (
	"strings"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// AllowList is the legacy static set of privileged email addresses. It
// predates role-based tokens and is kept alive for the migration window:
// an address on the list is granted admin on every surface, including role
// mutation, with no linked user identity.
type AllowList []string

// NewAllowList builds the list from a comma-separated value, falling back
// to a single address when the list is empty. Entries are normalized once.
func NewAllowList(csv, fallback string) AllowList {
	var list AllowList
	for _, e := range strings.Split(csv, ",") {
		if n := domain.NormalizeEmail(e); n != "" {
			list = append(list, n)
		}
	}
	if len(list) == 0 {
		if n := domain.NormalizeEmail(fallback); n != "" {
			list = AllowList{n}
		}
	}
	return list
}

// Contains reports whether email is on the list, case-insensitively.
func (l AllowList) Contains(email string) bool {
	n := domain.NormalizeEmail(email)
	if n == "" {
		return false
	}
	for _, e := range l {
		if e == n {
			return true
		}
	}
	return false
}

// First returns the first configured address, used as the notification
// recipient for monthly reports. Empty when the list is empty.
func (l AllowList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
