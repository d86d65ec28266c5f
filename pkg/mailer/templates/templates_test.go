package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EnrollmentReceipt(t *testing.T) {
	data := NewEnrollmentReceiptData("Marketplace", "Sam", "sam@example.com",
		WithCourse("c1", "Go <Basics>"),
		WithParties("Sam", "Tina"),
		WithPayment("tx1", 30, 70),
		WithTime(time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)),
	)

	subject, text, html, err := Render(EnrollmentReceipt, data)
	require.NoError(t, err)
	assert.Equal(t, "You are enrolled in Go <Basics>", subject)
	assert.Contains(t, text, "tx1")
	assert.Contains(t, html, "Go &lt;Basics&gt;")
	assert.NotContains(t, html, "<Basics>")
}

func TestRender_CourseSaleDefaults(t *testing.T) {
	_, text, _, err := Render(CourseSale, map[string]any{"CourseTitle": "Go", "Amount": 30})
	require.NoError(t, err)
	assert.Contains(t, text, "Hi there,")
	assert.Contains(t, text, "A student enrolled")
	assert.Contains(t, text, "Course Marketplace")
	assert.NotContains(t, text, "Date:")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("password_reset", nil)
	require.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, 5, defaultFn("x", 5))
	assert.Equal(t, "y", defaultFn("x", "y"))
}

func TestNewBaseEmailData(t *testing.T) {
	d := NewBaseEmailData("App", CourseSale, "Tina", "tina@example.com", WithPayment("tx", 10, 40))
	assert.Equal(t, "tina@example.com", d.RecipientEmail)
	assert.Equal(t, CourseSale, d.Type)
	assert.Equal(t, int64(40), d.Balance)
	assert.Empty(t, d.Time)
}
