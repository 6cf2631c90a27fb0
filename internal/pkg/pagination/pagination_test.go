package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Params{Page: 1, PageSize: DefaultPageSize}, Params{}.Normalize())
	assert.Equal(t, Params{Page: 3, PageSize: MaxPageSize}, Params{Page: 3, PageSize: 1000}.Normalize())
	assert.Equal(t, 40, Params{Page: 3, PageSize: 20}.Offset())
}

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=2&pageSize=5", nil)

	assert.Equal(t, Params{Page: 2, PageSize: 5}, FromQuery(c))
}
