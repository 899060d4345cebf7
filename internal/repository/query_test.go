package repository

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testColumns mirrors the shape of the room whitelist: a mix of
// kinds, with updatedAt hidden from the default projection.
func testColumns() *ColumnSet {
	return NewColumnSet().
		Number("id", "id").
		Text("name", "name").
		Number("price", "price").
		Text("location", "location").
		Time("createdAt", "created_at").
		Time("updatedAt", "updated_at").Hidden()
}

func params(s string) url.Values {
	v, err := url.ParseQuery(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestFilterEqualityAndBrackets(t *testing.T) {
	cols := testColumns()
	q := NewListQuery().Filter(params("location=Paris&price[gte]=100&price[lt]=300"))

	where, args := q.WhereClause(cols)
	assert.Equal(t, "location = ? AND price >= ? AND price < ?", where)
	require.Len(t, args, 3)
	assert.Equal(t, "Paris", args[0])
	assert.Equal(t, float64(100), args[1])
	assert.Equal(t, float64(300), args[2])
}

func TestFilterCoercesNumbers(t *testing.T) {
	cols := testColumns()
	q := NewListQuery().Filter(params("id=7&name=42nd-street"))

	_, args := q.WhereClause(cols)
	require.Len(t, args, 2)
	assert.Equal(t, float64(7), args[0])
	// Not numeric-looking, stays a string.
	assert.Equal(t, "42nd-street", args[1])
}

func TestFilterDropsUnknownAndReservedKeys(t *testing.T) {
	cols := testColumns()
	q := NewListQuery().Filter(params("location=Rome&secretColumn=x&page=3&sort=-price&limit=5&fields=name"))

	where, args := q.WhereClause(cols)
	assert.Equal(t, "location = ?", where)
	assert.Equal(t, []any{"Rome"}, args)
}

func TestFilterDeterministicOrder(t *testing.T) {
	cols := testColumns()
	// url.Values iteration order is random; the rendered clause must
	// not be.
	for i := 0; i < 20; i++ {
		q := NewListQuery().Filter(params("name=a&location=b&price=3&id=1"))
		where, _ := q.WhereClause(cols)
		assert.Equal(t, "id = ? AND location = ? AND name = ? AND price = ?", where)
	}
}

func TestWhereScopesOutsideClientInput(t *testing.T) {
	cols := NewColumnSet().
		Number("id", "id").
		Number("userId", "user_id").
		Time("createdAt", "created_at")

	// A client trying to read someone else's rows: the programmatic
	// scope is appended after, so both conditions apply (AND).
	q := NewListQuery().Filter(params("userId=999")).Where("userId", uint64(7))
	where, args := q.WhereClause(cols)
	assert.Equal(t, "user_id = ? AND user_id = ?", where)
	assert.Equal(t, []any{float64(999), uint64(7)}, args)
}

func TestSortCompositeAndDescending(t *testing.T) {
	cols := testColumns()
	q := NewListQuery().Sort(params("sort=-price,name"))
	assert.Equal(t, "price DESC, name ASC", q.OrderClause(cols))
}

func TestSortUnknownFieldsFallBackToDefault(t *testing.T) {
	cols := testColumns()
	q := NewListQuery().Sort(params("sort=nosuch"))
	assert.Equal(t, "created_at DESC", q.OrderClause(cols))

	q = NewListQuery()
	assert.Equal(t, "created_at DESC", q.OrderClause(cols))
}

func TestProjectionDefaultSkipsHidden(t *testing.T) {
	cols := testColumns()
	q := NewListQuery()
	assert.Equal(t, "id, name, price, location, created_at", q.SelectClause(cols))
}

func TestProjectionExplicitFields(t *testing.T) {
	cols := testColumns()
	q := NewListQuery().LimitFields(params("fields=price,name"))
	// Request order, not registration order.
	assert.Equal(t, "price, name", q.SelectClause(cols))

	// A hidden column is selectable when asked for by name.
	q = NewListQuery().LimitFields(params("fields=updatedAt"))
	assert.Equal(t, "updated_at", q.SelectClause(cols))
}

func TestProjectionAllUnknownFallsBack(t *testing.T) {
	cols := testColumns()
	q := NewListQuery().LimitFields(params("fields=bogus,alsoBogus"))
	assert.Equal(t, "id, name, price, location, created_at", q.SelectClause(cols))
}

func TestPaginateDefaultsAndCap(t *testing.T) {
	cases := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, DefaultPageSize, 0},
		{"page=3&limit=20", 3, 20, 40},
		{"page=0&limit=0", 1, DefaultPageSize, 0},
		{"page=-2&limit=-5", 1, DefaultPageSize, 0},
		{"page=abc&limit=xyz", 1, DefaultPageSize, 0},
		{"limit=100000", 1, MaxPageSize, 0},
		{"page=2", 2, DefaultPageSize, DefaultPageSize},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			q := NewListQuery().Paginate(params(tc.query))
			page, size := q.Page()
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLimit, size)
			limit, offset := q.LimitOffset()
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestImmutability(t *testing.T) {
	cols := testColumns()
	base := NewListQuery().Filter(params("location=Paris"))

	// Derive two different queries from the same base.
	withPrice := base.Filter(params("price[gte]=50"))
	withScope := base.Where("id", 9)

	baseWhere, _ := base.WhereClause(cols)
	priceWhere, _ := withPrice.WhereClause(cols)
	scopeWhere, _ := withScope.WhereClause(cols)

	assert.Equal(t, "location = ?", baseWhere)
	assert.Equal(t, "location = ? AND price >= ?", priceWhere)
	assert.Equal(t, "location = ? AND id = ?", scopeWhere)
}

func TestTransformationsComposeInAnyOrder(t *testing.T) {
	cols := testColumns()
	p := params("location=Paris&sort=-price&fields=name,price&page=2&limit=5")

	a := NewListQuery().Filter(p).Sort(p).LimitFields(p).Paginate(p)
	b := NewListQuery().Paginate(p).LimitFields(p).Sort(p).Filter(p)

	aw, aa := a.WhereClause(cols)
	bw, ba := b.WhereClause(cols)
	assert.Equal(t, aw, bw)
	assert.Equal(t, aa, ba)
	assert.Equal(t, a.OrderClause(cols), b.OrderClause(cols))
	assert.Equal(t, a.SelectClause(cols), b.SelectClause(cols))
	al, ao := a.LimitOffset()
	bl, bo := b.LimitOffset()
	assert.Equal(t, al, bl)
	assert.Equal(t, ao, bo)
}

func TestRepeatedTransformationIsIdempotent(t *testing.T) {
	cols := testColumns()
	p := params("location=Paris&price[gte]=100&sort=-price&page=3&limit=7")

	once := NewListQuery().Filter(p).Sort(p).Paginate(p)
	twice := once.Filter(p).Sort(p).Paginate(p)

	ow, oa := once.WhereClause(cols)
	tw, ta := twice.WhereClause(cols)
	assert.Equal(t, "location = ? AND price >= ?", ow)
	assert.Equal(t, ow, tw)
	assert.Equal(t, []any{"Paris", float64(100)}, oa)
	assert.Equal(t, oa, ta)

	assert.Equal(t, once.OrderClause(cols), twice.OrderClause(cols))
	op, os := once.Page()
	tp, ts := twice.Page()
	assert.Equal(t, op, tp)
	assert.Equal(t, os, ts)
}

func TestFilterChangedValueStillApplies(t *testing.T) {
	cols := testColumns()
	// Only exact duplicates are skipped; a different value for the
	// same field adds a second condition.
	q := NewListQuery().Filter(params("price[gte]=100")).Filter(params("price[gte]=200"))
	where, args := q.WhereClause(cols)
	assert.Equal(t, "price >= ? AND price >= ?", where)
	assert.Equal(t, []any{float64(100), float64(200)}, args)
}

func TestBracketOpRejectsUnknownOperators(t *testing.T) {
	cols := testColumns()
	// price[like] is not a recognized operator; the whole key fails
	// the whitelist lookup and the condition is dropped.
	q := NewListQuery().Filter(params("price[like]=abc"))
	where, args := q.WhereClause(cols)
	assert.Empty(t, where)
	assert.Empty(t, args)
}
