package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tj/assert"
)

func TestSerperSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))

		body, _ := io.ReadAll(r.Body)

		var req map[string]any
		_ = json.Unmarshal(body, &req)
		assert.Equal(t, "quantization", req["q"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic": [{"title": "Quantization explained", "link": "https://example.com/a", "snippet": "Smaller weights"}],
			"news": [{"title": "New 2-bit model", "link": "https://example.com/b", "snippet": "Fresh", "date": "1 hour ago"}]
		}`))
	}))
	defer srv.Close()

	search := NewSerperSearch(WithSerperAPIKey("secret"), WithSerperURL(srv.URL))
	results, err := search.Search(context.Background(), "quantization")

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "New 2-bit model", results[0].Title)
	assert.Equal(t, "1 hour ago", results[0].Date)
}

func TestSerperSearchDisabled(t *testing.T) {
	search := NewSerperSearch(WithSerperAPIKey(""))

	assert.False(t, search.Enabled())

	_, err := search.Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestSerperSearchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewSerperSearch(WithSerperAPIKey("secret"), WithSerperURL(srv.URL)).Search(context.Background(), "x")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
