package internal

import (
	"fmt"
	"strings"
)

// Column is one column as the backend's catalogue reports it. Type is
// lower-cased before comparison.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// SchemaError lists how a table differs from the layout the store expects.
type SchemaError struct {
	Table      string
	Missing    []string
	Mismatched []string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "table %s does not match the expected layout", e.Table)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "; missing columns: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Mismatched) > 0 {
		fmt.Fprintf(&b, "; mismatched columns: %s", strings.Join(e.Mismatched, ", "))
	}
	return b.String()
}

// CheckColumns compares the columns found for table against want. Extra
// columns are tolerated. Differences are reported in the order of want, so
// the message is stable across runs.
func CheckColumns(table string, want []Column, have []Column) error {
	found := make(map[string]Column, len(have))
	for _, c := range have {
		found[c.Name] = c
	}

	schemaErr := &SchemaError{Table: table}
	for _, w := range want {
		got, ok := found[w.Name]
		if !ok {
			schemaErr.Missing = append(schemaErr.Missing, w.Name)
			continue
		}
		if gotType := strings.ToLower(got.Type); gotType != w.Type {
			schemaErr.Mismatched = append(schemaErr.Mismatched,
				fmt.Sprintf("%s (type %s, want %s)", w.Name, gotType, w.Type))
		}
		if got.Nullable != w.Nullable {
			schemaErr.Mismatched = append(schemaErr.Mismatched,
				fmt.Sprintf("%s (nullable=%t, want %t)", w.Name, got.Nullable, w.Nullable))
		}
	}

	if len(schemaErr.Missing) == 0 && len(schemaErr.Mismatched) == 0 {
		return nil
	}
	return schemaErr
}
