package foodlookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ReturnsBestMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi/search.pl", r.URL.Path)
		assert.Equal(t, "dark chocolate", r.URL.Query().Get("search_terms"))
		assert.Equal(t, "1", r.URL.Query().Get("page_size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "products": [
    {
      "code": "3017620422003",
      "product_name": "Dark Chocolate 70%",
      "image_url": "https://img.example/choc.jpg",
      "nutriments": {"carbohydrates_100g": 34.5}
    }
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	got, err := c.Search(context.Background(), "dark chocolate")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "3017620422003", got.Code)
	assert.Equal(t, "Dark Chocolate 70%", got.Name)
	assert.Equal(t, "https://img.example/choc.jpg", got.Image)
	require.NotNil(t, got.Carbs)
	assert.InDelta(t, 34.5, *got.Carbs, 0.001)
}

func TestSearch_NoMatchIsNil(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": []}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	got, err := c.Search(context.Background(), "no such food")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSearch_SkipsNamelessProducts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "products": [
    {"code": "111", "product_name": "  "},
    {"code": "222", "product_name": "Rye Bread", "nutriments": {"carbohydrates_100g": "48"}}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	got, err := c.Search(context.Background(), "bread")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "222", got.Code)
	require.NotNil(t, got.Carbs)
	assert.InDelta(t, 48.0, *got.Carbs, 0.001)
}

func TestSearch_MissingCarbsIsNil(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "products": [{"code": "333", "product_name": "Mystery Snack", "nutriments": {}}]
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	got, err := c.Search(context.Background(), "mystery")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Carbs)
}

func TestSearch_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
