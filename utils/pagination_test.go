package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 10},
		{"?page=3&limit=20", 3, 20},
		{"?page=0&limit=-5", 1, 10},
		{"?page=abc&limit=xyz", 1, 10},
		{"?limit=500", 1, 100},
		{"?page=9223372036854775807&limit=100", MaxPage, 100},
		{"?page=99999999999999999999", 1, 10},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/books"+tc.query, nil)

			page, limit := PageParams(c, 10, 100)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.limit, limit)
		})
	}
}
