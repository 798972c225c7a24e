// Package f1api reads the season schedule and championship tables from f1api.dev.
package f1api

import (
	"context"
	"fmt"

	"github.com/aaron/pitwall/internal/upstream"
)

const DefaultBaseURL = "https://f1api.dev/api"

// Getter is the subset of *upstream.Client used here.
type Getter interface {
	GetJSON(ctx context.Context, url string, v any) error
}

// Client wraps the f1api.dev endpoints.
type Client struct {
	baseURL string
	http    Getter
}

// NewClient creates a client for baseURL; an empty baseURL selects DefaultBaseURL.
func NewClient(http Getter, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, http: http}
}

// Season fetches every race of the current season.
func (c *Client) Season(ctx context.Context) (*SeasonResponse, error) {
	var out SeasonResponse
	if err := c.http.GetJSON(ctx, upstream.BuildURL(c.baseURL, "/current", nil), &out); err != nil {
		return nil, fmt.Errorf("fetch season: %w", err)
	}
	return &out, nil
}

// Next fetches the next race of the current season.
func (c *Client) Next(ctx context.Context) (*NextResponse, error) {
	var out NextResponse
	if err := c.http.GetJSON(ctx, upstream.BuildURL(c.baseURL, "/current/next", nil), &out); err != nil {
		return nil, fmt.Errorf("fetch next race: %w", err)
	}
	return &out, nil
}

// Drivers fetches the current drivers championship.
func (c *Client) Drivers(ctx context.Context) (*DriversChampionship, error) {
	var out DriversChampionship
	if err := c.http.GetJSON(ctx, upstream.BuildURL(c.baseURL, "/current/drivers-championship", nil), &out); err != nil {
		return nil, fmt.Errorf("fetch drivers championship: %w", err)
	}
	return &out, nil
}

// Constructors fetches the current constructors championship.
func (c *Client) Constructors(ctx context.Context) (*ConstructorsChampionship, error) {
	var out ConstructorsChampionship
	if err := c.http.GetJSON(ctx, upstream.BuildURL(c.baseURL, "/current/constructors-championship", nil), &out); err != nil {
		return nil, fmt.Errorf("fetch constructors championship: %w", err)
	}
	return &out, nil
}
