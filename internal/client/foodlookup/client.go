package foodlookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

// Product is one food item as returned by the lookup: the external
// product code, a display name, an optional image URL and the grams of
// carbohydrate per 100g when the database knows it.
type Product struct {
	Code  string
	Name  string
	Image string
	Carbs *float64
}

// Client queries the OpenFoodFacts search API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Search returns the best match for a free-text query, or nil when the
// database has no product for it.
func (c *Client) Search(ctx context.Context, query string) (*Product, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	u := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=1",
		base, url.QueryEscape(strings.TrimSpace(query)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create food search request: %w", err)
	}
	req.Header.Set("User-Agent", "glucolog/1.0 (+https://github.com/avolkova/glucolog)")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute food search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read food search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("food search request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode food search response: %w", err)
	}

	for _, p := range parsed.Products {
		name := strings.TrimSpace(p.ProductName)
		if name == "" {
			continue
		}
		return &Product{
			Code:  productCode(p),
			Name:  name,
			Image: strings.TrimSpace(p.ImageURL),
			Carbs: carbsPer100g(p.Nutriments),
		}, nil
	}
	return nil, nil
}

func productCode(p offProduct) string {
	if code := strings.TrimSpace(p.Code); code != "" {
		return code
	}
	return strings.TrimSpace(p.ID)
}

// carbsPer100g reads the carbohydrates_100g nutriment, which
// OpenFoodFacts serves as either a number or a string. A missing or
// unparseable value is nil, never zero.
func carbsPer100g(n map[string]any) *float64 {
	switch t := n["carbohydrates_100g"].(type) {
	case float64:
		return &t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

type offProduct struct {
	ID          string         `json:"_id"`
	Code        string         `json:"code"`
	ProductName string         `json:"product_name"`
	ImageURL    string         `json:"image_url"`
	Nutriments  map[string]any `json:"nutriments"`
}

type searchResponse struct {
	Products []offProduct `json:"products"`
}
