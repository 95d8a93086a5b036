package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemUsesRegisteredMediaType(t *testing.T) {
	rec := httptest.NewRecorder()
	Problem(rec, http.StatusNotFound, "Not Found", "no such cart")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"title":"Not Found"`)
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"home","nmae":"typo"}`))
	var p payload
	err := DecodeJSON(req, &p)
	assert.Error(t, err, "misspelled fields must not be silently dropped")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"home"}`))
	require.NoError(t, DecodeJSON(req, &p))
	assert.Equal(t, "home", p.Name)
}
