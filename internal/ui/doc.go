// Package ui provides the terminal user interface for sitelist.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds only presentation state
// (selection, scroll offset, search box, viewports, theme); the collection
// itself lives in state.Store. After every action the model pulls a fresh
// snapshot and derived view with Store.View, so what is drawn always matches
// the store.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, commands and Run
//   - list.go: header, status line and the website list
//   - detail.go: glamour-rendered detail pane
//   - search.go: live search box
//   - logs.go: the sitelist log file, formatted by logtail
//   - help.go, keys.go: key bindings and help overlay
//   - theme.go: Light and Dark palettes
//
// # Event Flow
//
//  1. Init sends startFetchMsg
//  2. startFetch calls Store.FetchWebsites, which marks the store loading
//  3. waitFetchCmd blocks on the returned channel and emits fetchedMsg
//  4. fetchedMsg refreshes the snapshot; the spinner stops on its next tick
//
// # Key Bindings
//
//   - j/k, g/G, pgup/pgdown: Move through the list
//   - enter: Details for the selected website
//   - o: Open the website in the browser
//   - /: Search names and descriptions (esc clears)
//   - f: Toggle favorite
//   - F: Show favorites only
//   - s: Sort by name
//   - r: Refresh
//   - R: Clear favorites and filter, then refresh
//   - l: Log view
//   - T: Switch theme (persisted in prefs)
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui
