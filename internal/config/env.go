package config

import "strings"

// envMappings maps environment variables to koanf paths. Unlisted variables
// are ignored.
var envMappings = map[string]string{
	"timezone":           "schedule.timezone",
	"event_detail":       "schedule.event_detail",
	"http_host":          "server.host",
	"http_port":          "server.port",
	"read_timeout":       "server.read_timeout",
	"write_timeout":      "server.write_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"f1api_url":          "upstream.f1api_url",
	"openf1_url":         "upstream.openf1_url",
	"upstream_timeout":   "upstream.timeout",
	"user_agent":         "upstream.user_agent",
	"cache_grace":        "expiry.grace",
	"rate_limit":         "rate_limit.requests",
	"rate_limit_window":  "rate_limit.window",
	"disable_rate_limit": "rate_limit.disabled",
	"cors_origins":       "cors.origins",
	"log_level":          "logging.level",
	"log_format":         "logging.format",
	"log_caller":         "logging.caller",
}

func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}
