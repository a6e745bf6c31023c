package state

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/five82/sitelist/internal/fetch"
	"github.com/five82/sitelist/internal/logger"
	"github.com/five82/sitelist/internal/website"
)

// Fetcher produces the website list. *fetch.Pipeline satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) (fetch.Result, error)
}

// Snapshot represents the collection state available to the UI.
type Snapshot struct {
	Websites          []website.Website
	IsLoading         bool
	LastError         error
	SearchText        string
	Favorites         map[string]struct{}
	ShowFavoritesOnly bool

	Stale               bool // last applied result came from the offline cache
	Sorted              bool
	LastUpdated         time.Time
	ConsecutiveFailures int // fetches in a row that did not reach the network
}

// IsOffline returns true when the source has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store owns the collection state. All methods are safe for concurrent use.
type Store struct {
	fetcher Fetcher
	log     logger.Logger

	mu       sync.RWMutex
	snapshot Snapshot
	issued   uint64
	applied  uint64
}

// New builds a Store backed by fetcher.
func New(fetcher Fetcher, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		fetcher:  fetcher,
		log:      log,
		snapshot: Snapshot{Favorites: map[string]struct{}{}},
	}
}

// FetchWebsites marks the store as loading, clears the last error and runs one
// fetch in the background. The returned channel closes once the result has
// been applied or discarded as stale.
func (s *Store) FetchWebsites(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.snapshot.IsLoading = true
	s.snapshot.LastError = nil
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		res, err := s.fetcher.Fetch(ctx)
		s.apply(seq, res, err)
	}()
	return done
}

func (s *Store) apply(seq uint64, res fetch.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq == s.issued {
		s.snapshot.IsLoading = false
	}
	if seq <= s.applied {
		s.log.Debug("discarding stale fetch result",
			logger.Int("seq", int(seq)),
			logger.Int("applied", int(s.applied)),
		)
		return
	}
	s.applied = seq
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Websites = cloneWebsites(res.Websites)
	s.snapshot.LastError = nil
	s.snapshot.Stale = res.Stale()
	s.snapshot.Sorted = false
	if res.Stale() {
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.ConsecutiveFailures = 0
	}
}

// SortByName orders the stored records by lowercased name, keeping the
// relative order of equal names.
func (s *Store) SortByName() {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.snapshot.Websites
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	s.snapshot.Sorted = true
}

// ToggleFavorite flips the favorite flag of w.
func (s *Store) ToggleFavorite(w website.Website) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshot.Favorites[w.ID]; ok {
		delete(s.snapshot.Favorites, w.ID)
		return
	}
	s.snapshot.Favorites[w.ID] = struct{}{}
}

func (s *Store) IsFavorite(w website.Website) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.snapshot.Favorites[w.ID]
	return ok
}

func (s *Store) SetSearchText(text string) {
	s.mu.Lock()
	s.snapshot.SearchText = text
	s.mu.Unlock()
}

func (s *Store) SearchText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.SearchText
}

func (s *Store) SetShowFavoritesOnly(on bool) {
	s.mu.Lock()
	s.snapshot.ShowFavoritesOnly = on
	s.mu.Unlock()
}

func (s *Store) ShowFavoritesOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.ShowFavoritesOnly
}

// DerivedView returns the records the UI should show: favorites-only filter
// first, then the search text against name and description. Order follows
// the stored records.
func (s *Store) DerivedView() []website.Website {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deriveView(s.snapshot)
}

func deriveView(snap Snapshot) []website.Website {
	items := snap.Websites
	if snap.ShowFavoritesOnly {
		items = lo.Filter(items, func(w website.Website, _ int) bool {
			_, ok := snap.Favorites[w.ID]
			return ok
		})
	}
	if snap.SearchText != "" {
		needle := strings.ToLower(snap.SearchText)
		items = lo.Filter(items, func(w website.Website, _ int) bool {
			return strings.Contains(strings.ToLower(w.Name), needle) ||
				strings.Contains(strings.ToLower(w.Description), needle)
		})
	}
	return cloneWebsites(items)
}

// ResetFavoritesAndFilter clears favorites, turns off the favorites-only
// filter and refetches.
func (s *Store) ResetFavoritesAndFilter(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	s.snapshot.Favorites = map[string]struct{}{}
	s.snapshot.ShowFavoritesOnly = false
	s.mu.Unlock()

	return s.FetchWebsites(ctx)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// View returns the snapshot together with the derived view computed from it
// under the same lock.
func (s *Store) View() (Snapshot, []website.Website) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked(), deriveView(s.snapshot)
}

func (s *Store) copyLocked() Snapshot {
	snap := s.snapshot
	snap.Websites = cloneWebsites(s.snapshot.Websites)
	snap.Favorites = maps.Clone(s.snapshot.Favorites)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneWebsites(items []website.Website) []website.Website {
	if len(items) == 0 {
		return nil
	}
	dup := make([]website.Website, len(items))
	copy(dup, items)
	return dup
}
