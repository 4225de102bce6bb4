package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, dst any) error {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBind(dst)
}

func TestParseValidationErrors_UsesWireNames(t *testing.T) {
	UseWireFieldNames()

	var req models.LoginRequest
	err := bindJSON(t, `{"email":"not-an-email"}`, &req)
	require.Error(t, err)

	got := ParseValidationErrors(err)
	assert.ElementsMatch(t, []ValidationError{
		{Field: "email", Message: "Invalid email format"},
		{Field: "password", Message: "password is required"},
	}, got)
}

func TestParseValidationErrors_BulkStatusRequired(t *testing.T) {
	UseWireFieldNames()

	var req appointmentBulkRequest
	err := bindJSON(t, `{"action":"status"}`, &req)
	require.Error(t, err)

	got := ParseValidationErrors(err)
	require.Len(t, got, 1)
	assert.Equal(t, "status", got[0].Field)
	assert.Equal(t, "status is required for this action", got[0].Message)
}

func TestParseValidationErrors_NumericBounds(t *testing.T) {
	UseWireFieldNames()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=0&pageSize=500", http.NoBody)

	var params listParams
	err := c.ShouldBindQuery(&params)
	require.Error(t, err)

	assert.ElementsMatch(t, []ValidationError{
		{Field: "page", Message: "page must be at least 1"},
		{Field: "pageSize", Message: "pageSize must be at most 100"},
	}, ParseValidationErrors(err))
}

func TestParseValidationErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, ParseValidationErrors(assert.AnError))
}
