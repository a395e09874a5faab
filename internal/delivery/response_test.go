package delivery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_api/internal/domain"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSuccessEnvelope(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, "Loaded", gin.H{"id": "abc"})
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data    map[string]string `json:"data"`
		Message string            `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Loaded", body.Message)
	assert.Equal(t, "abc", body.Data["id"])
}

func TestErrorEnvelopeOmitsData(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		BadRequest(c, "Invalid request body")
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid request body", body["message"])
	assert.NotContains(t, body, "data")
}

func TestFromErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{fmt.Errorf("%w: cart is empty", domain.ErrBadRequest), http.StatusBadRequest, "cart is empty"},
		{fmt.Errorf("%w: invalid session token", domain.ErrUnauthorized), http.StatusUnauthorized, "invalid session token"},
		{fmt.Errorf("%w: order belongs to another shop", domain.ErrForbidden), http.StatusForbidden, "order belongs to another shop"},
		{fmt.Errorf("%w: order not found", domain.ErrNotFound), http.StatusNotFound, "order not found"},
		{fmt.Errorf("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		w := performRequest(func(c *gin.Context) {
			FromError(c, tc.err)
		})

		assert.Equal(t, tc.wantStatus, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.wantMsg, body["message"])
	}
}
