// Package errs holds the error kinds shared by the service and HTTP
// layers: validation failures keyed by field, forbidden-role failures,
// and missing entities. Handlers translate them to status codes.
package errs

import (
	"fmt"
	"sort"
	"strings"
)

// Validation reports one or more broken input invariants, keyed by the
// offending field. Always recoverable by the caller correcting input.
type Validation struct {
	Fields map[string]string
}

func NewValidation(field, message string) *Validation {
	return &Validation{Fields: map[string]string{field: message}}
}

func (v *Validation) Add(field, message string) *Validation {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	v.Fields[field] = message
	return v
}

func (v *Validation) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for field, msg := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// Forbidden means the actor lacks the required role for the target
// campaign. Never retryable without a role change.
type Forbidden struct {
	Message string
}

func NewForbidden(message string) *Forbidden {
	return &Forbidden{Message: message}
}

func (f *Forbidden) Error() string {
	return f.Message
}

// NotFound means a referenced entity is absent.
type NotFound struct {
	Resource string
}

func NewNotFound(resource string) *NotFound {
	return &NotFound{Resource: resource}
}

func (n *NotFound) Error() string {
	return n.Resource + " not found"
}
