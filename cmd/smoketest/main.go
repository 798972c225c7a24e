// smoketest hits every endpoint of a running server and prints a summary.
// Used after starting the container:
//
//	go run ./cmd/smoketest -url http://localhost:4463
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type check struct {
	path string
	// list is the JSON array to count, empty for non-JSON responses.
	list        string
	contentType string
}

var checks = []check{
	{path: "/f1/next_race/", list: "race", contentType: "application/json"},
	{path: "/f1/next_race/season", list: "races", contentType: "application/json"},
	{path: "/f1/drivers_standings/", list: "drivers", contentType: "application/json"},
	{path: "/f1/constructors_standings/", list: "constructors", contentType: "application/json"},
	{path: "/f1/pit_stops/", list: "drivers", contentType: "application/json"},
	{path: "/f1/next_map/", contentType: "image/svg+xml"},
}

func run(client *http.Client, base string, c check) error {
	resp, err := client.Get(base + c.path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			fmt.Printf("  close response body: %v\n", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status: want 200, got %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, c.contentType) {
		return fmt.Errorf("Content-Type: want %s, got %s", c.contentType, ct)
	}

	if c.list == "" {
		fmt.Printf("  %d bytes, Cache-Control: %s\n", len(body), resp.Header.Get("Cache-Control"))
		return nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON object: %w", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(doc[c.list], &items); err != nil {
		return fmt.Errorf("%q is not an array: %w", c.list, err)
	}
	var expires string
	_ = json.Unmarshal(doc["cache_expires"], &expires)
	fmt.Printf("  %d %s, cache expires %s\n", len(items), c.list, expires)
	return nil
}

func main() {
	base := flag.String("url", "http://localhost:4463", "Base URL of the server")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Minute}
	var failed int
	for _, c := range checks {
		fmt.Println(c.path)
		if err := run(client, *base, c); err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			failed++
		}
		fmt.Println()
	}
	if failed > 0 {
		fmt.Printf("%d of %d endpoints failed\n", failed, len(checks))
		os.Exit(1)
	}
	fmt.Printf("All %d endpoints OK\n", len(checks))
}
