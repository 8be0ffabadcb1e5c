package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestFromContext_Defaults(t *testing.T) {
	q := FromContext(queryContext(t, ""))
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PerPage)
	assert.Equal(t, 0, q.Offset())
}

func TestFromContext_ClampsAndIgnoresGarbage(t *testing.T) {
	q := FromContext(queryContext(t, "page=3&perPage=500"))
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 100, q.PerPage)
	assert.Equal(t, 200, q.Offset())

	q = FromContext(queryContext(t, "page=-1&perPage=abc"))
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PerPage)
}

func TestStructure_TotalPages(t *testing.T) {
	cases := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
	}
	for _, tc := range cases {
		r := Structure([]int{}, tc.total, Query{Page: 1, PerPage: tc.perPage})
		assert.Equal(t, tc.want, r.TotalPages, "total=%d perPage=%d", tc.total, tc.perPage)
	}
}

func TestStructure_NilRecordsBecomeEmptySlice(t *testing.T) {
	r := Structure[string](nil, 0, Query{Page: 1, PerPage: 10})
	assert.NotNil(t, r.Records)
	assert.Empty(t, r.Records)
}
