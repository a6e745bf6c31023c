// Package config loads the sitelist TOML configuration.
//
// # Resolution
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/sitelist/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. Empty or whitespace-only values keep their defaults
//  5. SITELIST_ENDPOINT, when set, replaces the endpoint
//
// Paths beginning with ~ are expanded against the user's home directory and
// made absolute.
//
// # Validation
//
// Load only parses. Validate checks the result: the endpoint must be an
// absolute http or https URL (reported as fetch.ErrInvalidEndpoint so callers
// can treat it like the pipeline does), and the remaining fields are checked
// with validator struct tags. The redis driver needs redis_addr and the s3
// driver needs s3_bucket.
//
// # Example
//
//	endpoint = "https://example.com/websites_info.json"
//	timeout = "15s"
//
//	[cache]
//	driver = "sqlite"
//	dir = "~/.cache/sitelist"
//
//	[log]
//	level = "debug"
package config
