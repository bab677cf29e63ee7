package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

// Importing the package must not touch the backend. The gateway is wired on
// the first handler call, after main has loaded the environment; wiring it at
// package init would resolve MONGODB_URI before godotenv runs.
func TestServicesNotWiredAtInit(t *testing.T) {
	assert.Nil(t, gw)
	assert.Nil(t, feed)
	assert.Nil(t, notifications)
	assert.Nil(t, comments)
	assert.Nil(t, profiles)
	assert.Nil(t, resolutions)
}

func TestCurrentUserIDMissingIdentity(t *testing.T) {
	c, w := testContext()

	id, ok := currentUserID(c)
	assert.False(t, ok)
	assert.Equal(t, primitive.NilObjectID, id)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUserIDInvalidHex(t *testing.T) {
	c, w := testContext()
	c.Set("user_id", "not-a-hex-id")

	_, ok := currentUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrentUserIDValid(t *testing.T) {
	want := primitive.NewObjectID()
	c, _ := testContext()
	c.Set("user_id", want.Hex())

	id, ok := currentUserID(c)
	require.True(t, ok)
	assert.Equal(t, want, id)
}

func TestIssueIDParamInvalid(t *testing.T) {
	c, w := testContext()
	c.Params = gin.Params{{Key: "id", Value: "garbage"}}

	_, ok := issueIDParam(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &services.ValidationError{Fields: []services.FieldError{{Field: "title", Message: "too short"}}}, http.StatusBadRequest},
		{"not authenticated", services.ErrNotAuthenticated, http.StatusUnauthorized},
		{"submission in flight", services.ErrSubmissionInFlight, http.StatusConflict},
		{"conflict", gateway.ErrConflict, http.StatusConflict},
		{"not found", gateway.ErrNotFound, http.StatusNotFound},
		{"unavailable wrapped", fmt.Errorf("%w: connection refused", gateway.ErrUnavailable), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := testContext()
			respondServiceError(c, tc.err)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}
