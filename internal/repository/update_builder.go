package repository

import (
	"fmt"
	"strings"

	"github.com/tripgrid/backoffice/internal/domain"
)

// UpdateBuilder collects SET assignments for a partial parent update. Only
// allowlisted columns are accepted; anything else is a validation error
// raised before a transaction ever opens.
type UpdateBuilder struct {
	allowed map[string]bool
	columns []string
	args    []interface{}
}

func NewUpdateBuilder(allowed ...string) *UpdateBuilder {
	m := make(map[string]bool, len(allowed))
	for _, col := range allowed {
		m[col] = true
	}
	return &UpdateBuilder{allowed: m}
}

func (b *UpdateBuilder) Set(column string, value interface{}) error {
	if !b.allowed[column] {
		return domain.Validationf("field %q is not updatable", column)
	}
	b.columns = append(b.columns, column)
	b.args = append(b.args, value)
	return nil
}

func (b *UpdateBuilder) Empty() bool {
	return len(b.columns) == 0
}

// Clause renders "col = $n, ..." with placeholders numbered from start,
// and returns the matching argument slice.
func (b *UpdateBuilder) Clause(start int) (string, []interface{}) {
	parts := make([]string, len(b.columns))
	for i, col := range b.columns {
		parts[i] = fmt.Sprintf("%s = $%d", col, start+i)
	}
	return strings.Join(parts, ", "), b.args
}
