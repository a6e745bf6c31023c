// Package app provides the orchestration layer for sitelist.
//
// # Overview
//
// This package wires together configuration, logging, the offline cache, the
// fetch pipeline, the collection store and the UI. It is the composition
// root: every dependency is built here from the loaded config.
//
// # Architecture
//
// Every entry point goes through the same setup:
//
//  1. Load config from ~/.config/sitelist/config.toml (or --config)
//  2. Validate it; a malformed endpoint stops here
//  3. Build the zap logger (file for the TUI, stderr otherwise)
//  4. Open the blob store selected by [cache] driver
//  5. Build the fetch pipeline and its Prometheus metrics
//
// # Data Flow
//
//	┌──────────────┐
//	│   setup()    │
//	└──────┬───────┘
//	       ├─────> config.Load / Validate
//	       ├─────> logger.New
//	       ├─────> blob.Open          fs|memory|sqlite|redis|s3
//	       └─────> fetch.New          network + write-through + fallback
//
//	Run:        state.New ─> ui.Run (blocks)
//	List:       state.New ─> FetchWebsites ─> SortByName / SetSearchText ─> print
//	ShowCache:  pipeline.LoadCached
//	ClearCache: pipeline.ClearCache
//
// On exit the metrics registry is written to [log] metrics_file when set.
//
// # Error Handling
//
// Fatal errors are returned to the caller: unreadable config, invalid
// config, a cache backend that cannot be opened. For List, a fetch that
// ends without any records (no network and no usable offline copy) is also
// returned, carrying the fetch error code so the CLI can print its message.
package app
