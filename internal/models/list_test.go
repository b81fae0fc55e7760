package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQueryResetsPage(t *testing.T) {
	q := NewListQuery(10, Filters{"status": StringFilter("all")}).WithPage(3)
	assert.Equal(t, 3, q.Page)

	searched := q.WithSearch("awa")
	assert.Equal(t, 1, searched.Page)
	assert.Equal(t, 3, q.Page)

	filtered := q.WithFilters(Filters{"status": StringFilter("active")})
	assert.Equal(t, 1, filtered.Page)
	assert.Equal(t, "all", q.Filters["status"].String())
}

func TestFilterValueJSON(t *testing.T) {
	var f Filters
	require.NoError(t, json.Unmarshal([]byte(`{"status":"all","pendingWithdrawal":true,"minAge":18,"city":null}`), &f))

	assert.True(t, f["status"].IsAll())
	flag, ok := f["pendingWithdrawal"].Bool()
	assert.True(t, ok)
	assert.True(t, flag)
	assert.Equal(t, "18", f["minAge"].String())
	assert.True(t, f["city"].IsAll())

	out, err := json.Marshal(Filters{"pendingWithdrawal": BoolFilter(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pendingWithdrawal":false}`, string(out))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 2, TotalPages(20, 10))
}

func TestOperationHelpers(t *testing.T) {
	assert.Equal(t, OpMarkRead, ParseOperationKind("Mark-Read"))
	active, ok := Operation{Kind: OpBlock}.TargetActive()
	assert.True(t, ok)
	assert.False(t, active)
	_, ok = Operation{Kind: OpDelete}.TargetActive()
	assert.False(t, ok)
}
