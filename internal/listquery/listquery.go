// Package listquery translates the query string of a list endpoint into
// the where/order/limit/offset fragments every list handler composes the
// same way: enum filters, a createdAt date range, free-text search across
// a fixed field set, ordering and paging.
package listquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
)

const (
	DefaultLimit = 10

	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

// Page holds offset/limit taken verbatim from the query string. No upper
// bound is enforced on limit; callers can request arbitrarily large pages.
type Page struct {
	Offset int
	Limit  int
}

// OrderTerm is one field/direction pair of the requested ordering.
type OrderTerm struct {
	Field     string
	Direction string
}

// Condition is a single where fragment with its bind arguments. An empty
// Query means "always true" and is skipped on Apply.
type Condition struct {
	Query string
	Args  []any
}

// Paginate extracts offset/limit, defaulting to (0, 10). Negative or
// malformed values fall back to the defaults.
func Paginate(c *gin.Context) Page {
	page := Page{Offset: 0, Limit: DefaultLimit}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			page.Offset = v
		}
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			page.Limit = v
		}
	}
	return page
}

// Order extracts the order[field]=ASC|DESC map, preserving one term per
// key. Omitting the parameter yields exactly [{createdAt DESC}]. An
// unknown direction is a validation error.
func Order(c *gin.Context) ([]OrderTerm, error) {
	orderMap := c.QueryMap("order")
	if len(orderMap) == 0 {
		return []OrderTerm{{Field: "createdAt", Direction: DirectionDesc}}, nil
	}
	terms := make([]OrderTerm, 0, len(orderMap))
	for field, dir := range orderMap {
		normalized := strings.ToUpper(strings.TrimSpace(dir))
		if normalized != DirectionAsc && normalized != DirectionDesc {
			return nil, apierr.Newf(apierr.InvalidPayload, "invalid order direction %q", dir).
				WithData([]gin.H{{"field": field, "reason": "direction must be ASC or DESC"}})
		}
		terms = append(terms, OrderTerm{Field: field, Direction: normalized})
	}
	return terms, nil
}

// TransformMultiQuery normalizes a scalar-or-array query value into an
// array so one code path handles both ?status=a and ?status=a&status=b.
func TransformMultiQuery(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case string:
		return []string{v}
	default:
		return []string{fmt.Sprint(v)}
	}
}

// FilterRange builds an IN predicate: the field value must match one of
// the supplied values.
func FilterRange(field string, values []string) Condition {
	if len(values) == 0 {
		return Condition{}
	}
	args := make([]any, 0, 1)
	args = append(args, values)
	return Condition{Query: columnName(field) + " IN ?", Args: args}
}

// DateRange bounds a timestamp column by from/to epoch milliseconds. A
// missing bound is left open on that side.
func DateRange(field string, fromMillis, toMillis int64) Condition {
	col := columnName(field)
	switch {
	case fromMillis > 0 && toMillis > 0:
		return Condition{
			Query: col + " >= to_timestamp(?) AND " + col + " <= to_timestamp(?)",
			Args:  []any{float64(fromMillis) / 1000, float64(toMillis) / 1000},
		}
	case fromMillis > 0:
		return Condition{Query: col + " >= to_timestamp(?)", Args: []any{float64(fromMillis) / 1000}}
	case toMillis > 0:
		return Condition{Query: col + " <= to_timestamp(?)", Args: []any{float64(toMillis) / 1000}}
	default:
		return Condition{}
	}
}

// PrepareQuery builds the free-text predicate: an OR of case-insensitive
// substring matches across fields, or an OR of exact matches when the
// term parses as a non-zero number. An empty term yields an always-true
// predicate.
func PrepareQuery(text string, fields []string) Condition {
	if strings.TrimSpace(text) == "" || len(fields) == 0 {
		return Condition{}
	}
	n, numErr := strconv.ParseFloat(text, 64)
	isNumber := numErr == nil && n != 0

	parts := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, field := range fields {
		col := columnName(field)
		if isNumber {
			parts = append(parts, col+"::text = ?")
			args = append(args, text)
		} else {
			parts = append(parts, col+" ILIKE ?")
			args = append(args, "%"+text+"%")
		}
	}
	return Condition{Query: "(" + strings.Join(parts, " OR ") + ")", Args: args}
}

// Params is the normalized filter/sort/page descriptor a list handler
// feeds to the repository.
type Params struct {
	Page       Page
	Order      []OrderTerm
	Conditions []Condition
}

// Options declares what a given list endpoint filters on.
type Options struct {
	// TextFields are the columns searched by the free-text ?query= term.
	TextFields []string
	// Filters maps query parameter names to the columns they constrain
	// with IN predicates (enum-valued filters like status).
	Filters map[string]string
	// DateField is the column bounded by ?from=&?to= (epoch millis).
	// Empty means no date range filtering for this endpoint.
	DateField string
}

// Parse reads the request query string into a Params descriptor
// according to opts. Every list endpoint goes through here.
func Parse(c *gin.Context, opts Options) (Params, error) {
	order, err := Order(c)
	if err != nil {
		return Params{}, err
	}
	params := Params{Page: Paginate(c), Order: order}

	for param, column := range opts.Filters {
		if values := TransformMultiQuery(queryValues(c, param)); len(values) > 0 {
			params.Conditions = append(params.Conditions, FilterRange(column, values))
		}
	}

	if opts.DateField != "" {
		from := parseMillis(c.Query("from"))
		to := parseMillis(c.Query("to"))
		if cond := DateRange(opts.DateField, from, to); cond.Query != "" {
			params.Conditions = append(params.Conditions, cond)
		}
	}

	if cond := PrepareQuery(c.Query("query"), opts.TextFields); cond.Query != "" {
		params.Conditions = append(params.Conditions, cond)
	}

	return params, nil
}

// ApplyFilters attaches only the where fragments, for count queries.
func (p Params) ApplyFilters(db *gorm.DB) *gorm.DB {
	for _, cond := range p.Conditions {
		if cond.Query == "" {
			continue
		}
		db = db.Where(cond.Query, cond.Args...)
	}
	return db
}

// Apply attaches where, order and paging fragments.
func (p Params) Apply(db *gorm.DB) *gorm.DB {
	db = p.ApplyFilters(db)
	for _, term := range p.Order {
		db = db.Order(columnName(term.Field) + " " + term.Direction)
	}
	return db.Offset(p.Page.Offset).Limit(p.Page.Limit)
}

func queryValues(c *gin.Context, param string) any {
	values, ok := c.GetQueryArray(param)
	if !ok || len(values) == 0 {
		return nil
	}
	if len(values) == 1 {
		return values[0]
	}
	return values
}

func parseMillis(raw string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// columnName maps a client-facing camelCase field to its snake_case
// column, dropping any character that could escape the identifier.
func columnName(field string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range field {
		switch {
		case r >= 'A' && r <= 'Z':
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevLower = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.':
			b.WriteRune(r)
			prevLower = r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		default:
			prevLower = false
		}
	}
	return b.String()
}
