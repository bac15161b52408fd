package store

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("record not found")

// NotFoundError names the missing row. errors.Is(err, ErrNotFound) holds for it.
type NotFoundError struct {
	Kind Kind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Kind, e.ID, ErrNotFound.Error())
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Violation is one broken relational invariant found while loading.
type Violation struct {
	Kind   Kind
	Key    string
	Field  string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s[%s].%s: %s", v.Kind, v.Key, v.Field, v.Reason)
}

// IntegrityError carries every violation found in a snapshot. Load returns it
// instead of a Store, so no report ever runs over inconsistent data.
type IntegrityError struct {
	Violations []Violation
}

func (e *IntegrityError) Error() string {
	const shown = 5
	parts := make([]string, 0, shown)
	for i, v := range e.Violations {
		if i == shown {
			break
		}
		parts = append(parts, v.String())
	}
	msg := fmt.Sprintf("integrity check failed with %d violation(s): %s", len(e.Violations), strings.Join(parts, "; "))
	if len(e.Violations) > shown {
		msg += fmt.Sprintf("; and %d more", len(e.Violations)-shown)
	}
	return msg
}
