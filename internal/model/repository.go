// Package model contains domain types for the prwatch application.
// These types are independent of any external GitHub library.
package model

import (
	"fmt"
	"strings"
)

// RepositoryRef identifies a watched repository as an owner/name pair.
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the canonical "owner/name" form.
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// MalformedRepoError indicates a repository reference that does not split
// into exactly two non-empty path segments.
type MalformedRepoError struct {
	Input string
}

func (e *MalformedRepoError) Error() string {
	return fmt.Sprintf("malformed repository reference %q: expected owner/name", e.Input)
}

// ParseRepositoryRef parses an "owner/name" string into a RepositoryRef.
// It returns a MalformedRepoError for anything that is not exactly two
// non-empty segments.
func ParseRepositoryRef(s string) (RepositoryRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepositoryRef{}, &MalformedRepoError{Input: s}
	}
	return RepositoryRef{Owner: parts[0], Name: parts[1]}, nil
}
