package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=3&limit=500", nil)

	p := Parse(c)
	require.Equal(t, 3, p.Page)
	require.Equal(t, MaxLimit, p.Limit)
	require.Equal(t, 200, p.Offset)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=-1&limit=abc", nil)
	p = Parse(c)
	require.Equal(t, Params{Page: 1, Limit: DefaultLimit, Offset: 0}, p)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	require.Equal(t, []int{1, 2}, Slice(items, New(1, 2)))
	require.Equal(t, []int{5}, Slice(items, New(3, 2)))
	require.Empty(t, Slice(items, New(4, 2)))
	require.Empty(t, Slice([]int{}, New(1, 20)))
}
