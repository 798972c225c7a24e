package upstream

import (
	"net/url"
	"strings"
)

// BuildURL joins base and path and appends params as a query string.
func BuildURL(base, path string, params url.Values) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(params) == 0 {
		return u
	}
	return u + "?" + params.Encode()
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
