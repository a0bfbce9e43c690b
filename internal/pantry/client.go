// Package pantry is the client for the household-data service: meals,
// recipes, grocery list and inventory live there. Every call is a plain
// request/response with a client-side timeout below the platform's turn
// deadline; there are no retries.
package pantry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
)

// ErrNotFound is returned when the service reports the entity absent.
var ErrNotFound = errors.New("not found")

// PinResult is the outcome of a PIN verification.
type PinResult struct {
	Valid         bool   `json:"valid"`
	HouseholdCode string `json:"household_code,omitempty"`
}

// AddItemRequest describes a grocery item to add.
type AddItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Store    string `json:"store,omitempty"`
	Category string `json:"category,omitempty"`
}

// AddItemResult is the outcome of a grocery add.
type AddItemResult struct {
	Success bool   `json:"success"`
	ItemID  string `json:"item_id,omitempty"`
}

// MarkAsLowResult is the outcome of a mark-as-low request. Exactly one
// of the three shapes applies: marked, ambiguous (matches), or not
// found (none of the flags set).
type MarkAsLowResult struct {
	Success             bool                `json:"success"`
	NeedsDisambiguation bool                `json:"needs_disambiguation"`
	Matches             []models.ItemMatch  `json:"matches,omitempty"`
	MarkedItem          *models.GroceryItem `json:"marked_item,omitempty"`
	Source              string              `json:"source,omitempty"`
}

// Service is the household-data interface the dialogue flows consume.
// Tests swap in a fake.
type Service interface {
	VerifyPin(ctx context.Context, pin string) (*PinResult, error)
	GetMeals(ctx context.Context, householdCode string) ([]models.Meal, error)
	GetRecipe(ctx context.Context, householdCode, mealID string) (*models.Recipe, error)
	GetGroceryList(ctx context.Context, householdCode, store string) ([]models.GroceryItem, error)
	AddGroceryItem(ctx context.Context, householdCode string, item AddItemRequest) (*AddItemResult, error)
	RemoveGroceryItem(ctx context.Context, householdCode, name string) error
	MarkAsLow(ctx context.Context, householdCode, name, itemID string) (*MarkAsLowResult, error)
}

// Compile-time interface check.
var _ Service = (*Client)(nil)

// Client implements Service over HTTPS.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a pantry client with a fixed request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// VerifyPin checks a 4-digit household PIN.
func (c *Client) VerifyPin(ctx context.Context, pin string) (*PinResult, error) {
	var result PinResult
	body := map[string]string{"pin": pin}
	if err := c.do(ctx, http.MethodPost, "/v1/pin/verify", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMeals returns the household's meal list.
func (c *Client) GetMeals(ctx context.Context, householdCode string) ([]models.Meal, error) {
	var meals []models.Meal
	path := fmt.Sprintf("/v1/households/%s/meals", url.PathEscape(householdCode))
	if err := c.do(ctx, http.MethodGet, path, nil, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// GetRecipe returns the full recipe for a meal.
func (c *Client) GetRecipe(ctx context.Context, householdCode, mealID string) (*models.Recipe, error) {
	var recipe models.Recipe
	path := fmt.Sprintf("/v1/households/%s/meals/%s/recipe",
		url.PathEscape(householdCode), url.PathEscape(mealID))
	if err := c.do(ctx, http.MethodGet, path, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetGroceryList returns the grocery list, optionally filtered by store.
func (c *Client) GetGroceryList(ctx context.Context, householdCode, store string) ([]models.GroceryItem, error) {
	var items []models.GroceryItem
	path := fmt.Sprintf("/v1/households/%s/grocery", url.PathEscape(householdCode))
	if store != "" {
		path += "?store=" + url.QueryEscape(store)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddGroceryItem adds one item to the grocery list.
func (c *Client) AddGroceryItem(ctx context.Context, householdCode string, item AddItemRequest) (*AddItemResult, error) {
	var result AddItemResult
	path := fmt.Sprintf("/v1/households/%s/grocery", url.PathEscape(householdCode))
	if err := c.do(ctx, http.MethodPost, path, item, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveGroceryItem removes an item from the grocery list by name.
func (c *Client) RemoveGroceryItem(ctx context.Context, householdCode, name string) error {
	path := fmt.Sprintf("/v1/households/%s/grocery?name=%s",
		url.PathEscape(householdCode), url.QueryEscape(name))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// MarkAsLow marks an inventory item as running low. When itemID is set
// the reference is already disambiguated.
func (c *Client) MarkAsLow(ctx context.Context, householdCode, name, itemID string) (*MarkAsLowResult, error) {
	var result MarkAsLowResult
	body := map[string]string{"name": name}
	if itemID != "" {
		body["item_id"] = itemID
	}
	path := fmt.Sprintf("/v1/households/%s/inventory/low", url.PathEscape(householdCode))
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("pantry request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("pantry returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse pantry response: %w", err)
	}
	return nil
}
