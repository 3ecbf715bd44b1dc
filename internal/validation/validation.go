package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Errors collects user-facing validation messages keyed by field name
// (or by the offending item for batch operations, e.g. an invitee
// username). It is built up before any persistence happens.
type Errors map[string][]string

func New() Errors {
	return make(Errors)
}

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Any reports whether at least one message was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Merge copies all messages from other into e.
func (e Errors) Merge(other Errors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

// Error implements error with a deterministic field order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[field], ", "))
	}
	return b.String()
}
