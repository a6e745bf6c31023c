// Package state holds the collection view shared by the UI and the CLI.
//
// # Overview
//
// Store owns the fetched websites, the favorites set, the search text and
// the favorites-only flag. The UI reads it through Snapshot, DerivedView or
// View and mutates it through the exported operations. Every method takes the
// store's RWMutex, so a fetch completing on a background goroutine never
// tears a read.
//
// # Fetch Lifecycle
//
//	FetchWebsites(ctx)
//	→ IsLoading = true, LastError = nil   (synchronously)
//	→ fetcher.Fetch(ctx)                  (background goroutine)
//	→ success: Websites replaced, LastError = nil
//	→ failure: Websites kept, LastError = err
//	→ done channel closed
//
// Each call takes a sequence number. A completion whose number is not higher
// than the last applied one is dropped, so an older request that finishes
// late can never overwrite newer data. IsLoading clears only when the most
// recently issued fetch completes.
//
// # Derived View
//
// DerivedView is recomputed on every call from the stored records: the
// favorites-only filter applies first, then a case-insensitive substring
// match of the search text against name and description. Relative order of
// the stored records is preserved. SortByName reorders the stored records
// themselves, so the sort survives until the next successful fetch.
//
// # Offline Tracking
//
// ConsecutiveFailures counts fetches in a row that did not produce fresh
// network data, whether they failed outright or were served from the offline
// cache. IsOffline reports two or more.
package state
