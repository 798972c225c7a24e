// loadtest sends a burst of requests at one route to observe the /f1 rate limit.
//
//	go run ./cmd/loadtest
//	go run ./cmd/loadtest -url http://localhost:4463 -n 80 -client 10.0.0.7
package main

import (
	"flag"
	"fmt"
	"net/http"
	"sort"
	"time"
)

func main() {
	url := flag.String("url", "http://localhost:4463", "Base URL of the server")
	path := flag.String("path", "/f1/next_race/", "Route to request")
	n := flag.Int("n", 80, "Number of requests to send")
	delay := flag.Duration("delay", 50*time.Millisecond, "Delay between requests")
	clientIP := flag.String("client", "", "X-Forwarded-For value, to act as a distinct client")
	flag.Parse()

	target := *url + *path
	fmt.Printf("Load test: %d requests to %s\n", *n, target)
	fmt.Println("Expect: the first RATE_LIMIT requests (default 60) succeed, the rest get 429")
	fmt.Println()

	client := &http.Client{Timeout: 2 * time.Minute}
	statuses := make(map[int]int)
	var failed int
	var firstLimited int
	var retryAfter string
	latencies := make([]time.Duration, 0, *n)

	for i := 1; i <= *n; i++ {
		req, err := http.NewRequest(http.MethodGet, target, nil)
		if err != nil {
			fmt.Printf("build request: %v\n", err)
			return
		}
		if *clientIP != "" {
			req.Header.Set("X-Forwarded-For", *clientIP)
		}

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("Request %d: %v\n", i, err)
			failed++
			time.Sleep(*delay)
			continue
		}
		latencies = append(latencies, time.Since(start))
		statuses[resp.StatusCode]++
		if resp.StatusCode == http.StatusTooManyRequests && firstLimited == 0 {
			firstLimited = i
			retryAfter = resp.Header.Get("Retry-After")
		}
		if err := resp.Body.Close(); err != nil {
			fmt.Printf("close response body: %v\n", err)
		}
		time.Sleep(*delay)
	}

	codes := make([]int, 0, len(statuses))
	for code := range statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	fmt.Println("Results:")
	for _, code := range codes {
		fmt.Printf("  %d %s: %d\n", code, http.StatusText(code), statuses[code])
	}
	if failed > 0 {
		fmt.Printf("  transport errors: %d\n", failed)
	}
	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		fmt.Printf("  latency p50 %v, max %v\n", latencies[len(latencies)/2], latencies[len(latencies)-1])
	}
	fmt.Println()

	if firstLimited > 0 {
		fmt.Printf("Rate limited from request %d (Retry-After: %ss).\n", firstLimited, retryAfter)
	} else {
		fmt.Println("No 429s observed. The limit may exceed the requests sent, or it is disabled.")
	}
}
