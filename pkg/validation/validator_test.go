package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type section struct {
	Title string `json:"title" binding:"required"`
}

type payload struct {
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required,pwd"`
	Role     string    `json:"role" binding:"omitempty,role"`
	Price    int64     `json:"price" binding:"tokens"`
	Sections []section `json:"sections" binding:"omitempty,dive"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var p payload
	return c.ShouldBindJSON(&p)
}

func TestToDetails(t *testing.T) {
	Init()

	require.NoError(t, bind(t, `{"email":"a@b.co","password":"secret1","role":"teacher","price":0}`))

	details := ToDetails(bind(t, `{"email":"nope","password":"123","role":"admin","price":-1,"sections":[{"title":""}]}`))
	assert.Equal(t, map[string]string{
		"email":             "must be a valid email address",
		"password":          "must be at least 6 characters",
		"role":              "must be one of: teacher student",
		"price":             "must not be negative",
		"sections[0].title": "is required",
	}, details)

	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(bind(t, `{"email": nope}`)))
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(bind(t, `{"price":"free"}`)))
	assert.Nil(t, ToDetails(nil))
}
