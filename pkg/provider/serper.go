package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v3/client"
)

const serperURL = "https://google.serper.dev/search"

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
}

/*
SerperSearch queries the Serper Google search API.
*/
type SerperSearch struct {
	conn    *client.Client
	apiKey  string
	url     string
	results int
}

type SerperSearchOption func(*SerperSearch)

func NewSerperSearch(options ...SerperSearchOption) *SerperSearch {
	search := &SerperSearch{
		conn:    client.New().SetTimeout(30 * time.Second),
		apiKey:  os.Getenv("SERPER_API_KEY"),
		url:     serperURL,
		results: 10,
	}

	for _, option := range options {
		option(search)
	}

	return search
}

func WithSerperAPIKey(key string) SerperSearchOption {
	return func(search *SerperSearch) {
		search.apiKey = key
	}
}

func WithSerperURL(url string) SerperSearchOption {
	return func(search *SerperSearch) {
		search.url = url
	}
}

func (search *SerperSearch) Enabled() bool {
	return search.apiKey != ""
}

func (search *SerperSearch) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if !search.Enabled() {
		return nil, fmt.Errorf("serper search needs SERPER_API_KEY")
	}

	resp, err := search.conn.Post(search.url, client.Config{
		Ctx: ctx,
		Header: map[string]string{
			"X-API-KEY":    search.apiKey,
			"Content-Type": "application/json",
		},
		Body: map[string]any{
			"q":   query,
			"num": search.results,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("serper search failed: %w", err)
	}

	defer resp.Close()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("serper search answered with status %d", resp.StatusCode())
	}

	var out struct {
		Organic []SearchResult `json:"organic"`
		News    []SearchResult `json:"news"`
	}

	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode serper response: %w", err)
	}

	return append(out.News, out.Organic...), nil
}
