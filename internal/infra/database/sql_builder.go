package database

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-leads/internal/query"
)

const leadColumns = `id, first_name, last_name, email, phone, company, source, stage,
	value, probability, notes, assigned_to, created_at, updated_at`

// columns maps JSON field names to table columns.
var columns = map[string]string{
	"id":          "id",
	"firstName":   "first_name",
	"lastName":    "last_name",
	"email":       "email",
	"phone":       "phone",
	"company":     "company",
	"source":      "source",
	"stage":       "stage",
	"value":       "value",
	"probability": "probability",
	"notes":       "notes",
	"assignedTo":  "assigned_to",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

var numericColumns = map[string]bool{
	"value": true, "probability": true, "created_at": true, "updated_at": true,
}

// args collects positional parameters.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// buildWhere renders the filter as a WHERE clause. An empty filter yields "".
func buildWhere(f query.Filter, a *args) string {
	var conds []string

	if f.Search != "" {
		p := a.add("%" + escapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf(
			"(first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR email ILIKE %[1]s OR company ILIKE %[1]s)", p))
	}
	if f.Stage != nil {
		conds = append(conds, "stage = "+a.add(string(*f.Stage)))
	}
	if f.Source != nil {
		conds = append(conds, "source = "+a.add(string(*f.Source)))
	}
	if f.AssignedTo != "" {
		conds = append(conds, "assigned_to = "+a.add(f.AssignedTo))
	}
	if f.MinValue != nil {
		conds = append(conds, "value >= "+a.add(*f.MinValue))
	}
	if f.MaxValue != nil {
		conds = append(conds, "value <= "+a.add(*f.MaxValue))
	}
	if f.StartDate != nil {
		conds = append(conds, "created_at >= "+a.add(*f.StartDate))
	}
	if f.EndDate != nil {
		conds = append(conds, "created_at <= "+a.add(*f.EndDate))
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// buildOrderBy sorts text by byte order ("C" collation) to match the other
// stores, and always breaks ties on id ascending.
func buildOrderBy(s query.Sort) string {
	col, ok := columns[string(s.Field)]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if s.Direction == query.Desc {
		dir = "DESC"
	}

	expr := pq.QuoteIdentifier(col)
	if !numericColumns[col] {
		expr += ` COLLATE "C"`
	}
	return fmt.Sprintf(` ORDER BY %s %s, id COLLATE "C" ASC`, expr, dir)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
