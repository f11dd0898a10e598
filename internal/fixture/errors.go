package fixture

import "fmt"

// ParseError reports a malformed fixture record.
type ParseError struct {
	Kind   string
	ID     int
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("fixture %s#%d: %s", e.Kind, e.ID, e.Reason)
	}
	return fmt.Sprintf("fixture %s#%d: %s: %s", e.Kind, e.ID, e.Field, e.Reason)
}

func parseErr(kind string, id int, field, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, ID: id, Field: field, Reason: fmt.Sprintf(format, args...)}
}
