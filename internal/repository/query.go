package repository

import (
    "net/url"
    "regexp"
    "sort"
    "strconv"
    "strings"
)

// Pagination defaults for list endpoints.  The page size default is a
// deliberate, documented choice: page 1, ten records, hard cap 100.
// Invalid or missing numeric parameters resolve to these defaults
// instead of failing the request.
const (
    DefaultPageSize = 10
    MaxPageSize     = 100
)

// Control keys stripped from the raw query before filtering.
var reservedParams = map[string]struct{}{
    "page":   {},
    "sort":   {},
    "limit":  {},
    "fields": {},
}

// bracketOp matches the field[operator]=value filtering convention,
// e.g. price[gte]=100.
var bracketOp = regexp.MustCompile(`^(.+)\[(gte|gt|lte|lt)\]$`)

// sqlOps maps bracket operator names to SQL comparison operators.
var sqlOps = map[string]string{
    "gte": ">=",
    "gt":  ">",
    "lte": "<=",
    "lt":  "<",
}

// Condition is a single field comparison.  Op is a SQL comparison
// operator; all conditions of a query combine with AND.
type Condition struct {
    Field string // API field name (resolved to a column at render time)
    Op    string // one of =, >=, >, <=, <
    Value any    // string, or float64 after numeric coercion
}

// SortKey is one component of a composite ordering.
type SortKey struct {
    Field string
    Desc  bool
}

// ListQuery translates an untrusted flat key-value request (the HTTP
// query string) into a structured read.  It is an immutable value:
// every transformation returns a derived copy, never mutating the
// receiver or the raw input, so a partially-built query can be shared
// and extended safely.  The conventional chain is
//
//	NewListQuery().Filter(p).Sort(p).LimitFields(p).Paginate(p)
//
// but the transformations are independent and compose in any order.
// Field names are not trusted: rendering resolves them against a
// per-repository ColumnSet and silently drops anything unknown.
type ListQuery struct {
    conds  []Condition
    sorts  []SortKey
    fields []string
    page   int
    limit  int
}

// NewListQuery returns a query for the first page with the default
// page size, no filters, default ordering and full projection.
func NewListQuery() ListQuery {
    return ListQuery{page: 1, limit: DefaultPageSize}
}

// clone detaches the slice fields so derived values never alias the
// receiver's backing arrays.
func (q ListQuery) clone() ListQuery {
    q.conds = append([]Condition(nil), q.conds...)
    q.sorts = append([]SortKey(nil), q.sorts...)
    q.fields = append([]string(nil), q.fields...)
    return q
}

// Filter adds one condition per non-reserved parameter.  Keys using
// the bracket convention field[gte|gt|lte|lt]=value become range
// comparisons; plain keys become equality checks.  Numeric-looking
// values are coerced to numbers, everything else stays a string.
// Keys are processed in sorted order, and a condition identical to
// one already present is skipped, so filtering with the same input
// twice yields the same query shape as filtering once.
func (q ListQuery) Filter(params url.Values) ListQuery {
    out := q.clone()
    keys := make([]string, 0, len(params))
    for k := range params {
        if _, reserved := reservedParams[k]; reserved {
            continue
        }
        keys = append(keys, k)
    }
    sort.Strings(keys)
    for _, k := range keys {
        v := params.Get(k)
        var cond Condition
        if m := bracketOp.FindStringSubmatch(k); m != nil {
            cond = Condition{Field: m[1], Op: sqlOps[m[2]], Value: coerce(v)}
        } else {
            cond = Condition{Field: k, Op: "=", Value: coerce(v)}
        }
        if !out.hasCond(cond) {
            out.conds = append(out.conds, cond)
        }
    }
    return out
}

// hasCond reports whether an identical condition is already present.
// Filter only ever produces string or float64 values, so the struct
// comparison is safe.
func (q ListQuery) hasCond(c Condition) bool {
    for _, existing := range q.conds {
        if existing == c {
            return true
        }
    }
    return false
}

// Where adds a programmatic equality condition.  Handlers use it to
// scope lists to the authenticated user, outside of anything the
// client controls.
func (q ListQuery) Where(field string, value any) ListQuery {
    out := q.clone()
    out.conds = append(out.conds, Condition{Field: field, Op: "=", Value: value})
    return out
}

// Sort sets the result ordering from a comma-separated list of field
// names, each optionally prefixed with '-' for descending, applied
// left to right as a composite key.  Without a sort parameter the
// default ordering (creation time descending) applies at render time.
func (q ListQuery) Sort(params url.Values) ListQuery {
    out := q.clone()
    raw := params.Get("sort")
    if raw == "" {
        return out
    }
    out.sorts = nil
    for _, part := range strings.Split(raw, ",") {
        part = strings.TrimSpace(part)
        if part == "" {
            continue
        }
        key := SortKey{Field: part}
        if strings.HasPrefix(part, "-") {
            key = SortKey{Field: part[1:], Desc: true}
        }
        if key.Field != "" {
            out.sorts = append(out.sorts, key)
        }
    }
    return out
}

// LimitFields restricts the projection to the comma-separated list in
// the fields parameter.  Without it, all fields are returned except
// columns a ColumnSet marks as internal metadata.
func (q ListQuery) LimitFields(params url.Values) ListQuery {
    out := q.clone()
    raw := params.Get("fields")
    if raw == "" {
        return out
    }
    out.fields = nil
    for _, f := range strings.Split(raw, ",") {
        if f = strings.TrimSpace(f); f != "" {
            out.fields = append(out.fields, f)
        }
    }
    return out
}

// Paginate reads page and limit.  Non-numeric or non-positive values
// fall back to page 1 and the default page size; the page size is
// capped at MaxPageSize.
func (q ListQuery) Paginate(params url.Values) ListQuery {
    out := q.clone()
    out.page = 1
    if n, err := strconv.Atoi(params.Get("page")); err == nil && n > 0 {
        out.page = n
    }
    out.limit = DefaultPageSize
    if n, err := strconv.Atoi(params.Get("limit")); err == nil && n > 0 {
        out.limit = n
    }
    if out.limit > MaxPageSize {
        out.limit = MaxPageSize
    }
    return out
}

// coerce converts numeric-looking values to float64 so comparisons
// against numeric columns behave numerically rather than as string
// collation.
func coerce(s string) any {
    if f, err := strconv.ParseFloat(s, 64); err == nil {
        return f
    }
    return s
}

// ----- rendering against a column whitelist -----

// Column kinds drive how raw scanned values are converted before
// being returned to the client.
const (
    kindText = iota
    kindNumber
    kindTime
    kindJSON
)

type column struct {
    field  string // API field name
    name   string // SQL column name
    kind   int
    hidden bool // excluded from the default projection
}

// ColumnSet is the whitelist of fields a repository exposes to the
// query builder.  Filtering, sorting and projection all resolve
// through it, so a client can never reference a column that was not
// registered here.
type ColumnSet struct {
    cols  []column
    index map[string]int
}

// NewColumnSet returns an empty whitelist.
func NewColumnSet() *ColumnSet {
    return &ColumnSet{index: map[string]int{}}
}

func (s *ColumnSet) add(c column) *ColumnSet {
    s.index[c.field] = len(s.cols)
    s.cols = append(s.cols, c)
    return s
}

// Text registers a string column under the given API field name.
func (s *ColumnSet) Text(field, name string) *ColumnSet {
    return s.add(column{field: field, name: name, kind: kindText})
}

// Number registers a numeric column.
func (s *ColumnSet) Number(field, name string) *ColumnSet {
    return s.add(column{field: field, name: name, kind: kindNumber})
}

// Time registers a timestamp column.
func (s *ColumnSet) Time(field, name string) *ColumnSet {
    return s.add(column{field: field, name: name, kind: kindTime})
}

// JSON registers a column holding a JSON document.
func (s *ColumnSet) JSON(field, name string) *ColumnSet {
    return s.add(column{field: field, name: name, kind: kindJSON})
}

// Hidden marks the most recently registered column as internal
// metadata: selectable on request, excluded from the default
// projection.
func (s *ColumnSet) Hidden() *ColumnSet {
    if len(s.cols) > 0 {
        s.cols[len(s.cols)-1].hidden = true
    }
    return s
}

func (s *ColumnSet) lookup(field string) (column, bool) {
    i, ok := s.index[field]
    if !ok {
        return column{}, false
    }
    return s.cols[i], true
}

// Projection resolves the query's field selection against the
// whitelist.  It returns the columns to select, in registration
// order for the default projection or request order for an explicit
// one.  An explicit selection naming only unknown fields falls back
// to the default.
func (q ListQuery) Projection(s *ColumnSet) []column {
    if len(q.fields) > 0 {
        out := make([]column, 0, len(q.fields))
        for _, f := range q.fields {
            if c, ok := s.lookup(f); ok {
                out = append(out, c)
            }
        }
        if len(out) > 0 {
            return out
        }
    }
    out := make([]column, 0, len(s.cols))
    for _, c := range s.cols {
        if !c.hidden {
            out = append(out, c)
        }
    }
    return out
}

// SelectClause renders the projected column list.
func (q ListQuery) SelectClause(s *ColumnSet) string {
    proj := q.Projection(s)
    names := make([]string, len(proj))
    for i, c := range proj {
        names[i] = c.name
    }
    return strings.Join(names, ", ")
}

// WhereClause renders the filter conditions as an AND-joined SQL
// fragment with placeholder args.  Conditions on unknown fields are
// dropped.  An empty string means no WHERE clause is needed.
func (q ListQuery) WhereClause(s *ColumnSet) (string, []any) {
    parts := make([]string, 0, len(q.conds))
    args := make([]any, 0, len(q.conds))
    for _, c := range q.conds {
        col, ok := s.lookup(c.Field)
        if !ok {
            continue
        }
        parts = append(parts, col.name+" "+c.Op+" ?")
        args = append(args, c.Value)
    }
    return strings.Join(parts, " AND "), args
}

// OrderClause renders the composite sort key.  Unknown sort fields
// are dropped; when nothing usable remains the default ordering is
// creation time descending (when the whitelist registers createdAt).
func (q ListQuery) OrderClause(s *ColumnSet) string {
    parts := make([]string, 0, len(q.sorts))
    for _, k := range q.sorts {
        col, ok := s.lookup(k.Field)
        if !ok {
            continue
        }
        dir := " ASC"
        if k.Desc {
            dir = " DESC"
        }
        parts = append(parts, col.name+dir)
    }
    if len(parts) == 0 {
        if col, ok := s.lookup("createdAt"); ok {
            return col.name + " DESC"
        }
        return ""
    }
    return strings.Join(parts, ", ")
}

// LimitOffset returns the LIMIT and OFFSET values for the requested
// page.
func (q ListQuery) LimitOffset() (limit, offset int) {
    return q.limit, (q.page - 1) * q.limit
}

// Page reports the page and page size the query resolves to, for
// echoing back in list responses.
func (q ListQuery) Page() (page, size int) {
    return q.page, q.limit
}
