package repositories

import (
	"fmt"
	"strings"

	"github.com/insightlane/sales-engine/pkg/models"
)

// conditionBuilder accumulates predicate/parameter pairs and renders them as
// a WHERE clause with positional placeholders. Values are never interpolated
// into the SQL text.
type conditionBuilder struct {
	conds []string
	args  []interface{}
}

// add appends one predicate. The column/operator pair is always a literal
// from this package, never user input.
func (b *conditionBuilder) add(column, op string, arg interface{}) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf("%s %s $%d", column, op, len(b.args)))
}

// addSubstring appends a case-insensitive substring match on column.
func (b *conditionBuilder) addSubstring(column, value string) {
	b.args = append(b.args, "%"+value+"%")
	b.conds = append(b.conds, fmt.Sprintf("LOWER(%s) LIKE LOWER($%d)", column, len(b.args)))
}

// addDateRange appends bounds for whichever sides of the range are set.
func (b *conditionBuilder) addDateRange(r models.DateRange) {
	if !r.Start.IsZero() {
		b.add("date", ">=", r.Start)
	}
	if !r.End.IsZero() {
		b.add("date", "<=", r.End)
	}
}

// whereClause renders the accumulated predicates, or an empty string when
// there are none.
func (b *conditionBuilder) whereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// nextPlaceholder returns the placeholder for one more appended argument,
// used for LIMIT/OFFSET after the predicates are rendered.
func (b *conditionBuilder) nextPlaceholder(arg interface{}) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}
