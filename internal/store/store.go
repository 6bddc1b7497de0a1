// Package store holds each campaign's current normalized dataset in memory.
// Readers take immutable snapshots; reloads build a complete replacement
// dataset off to the side and publish it with a single swap.
package store

import (
	"errors"
	"sort"
	"sync"
)

// ErrReloadInProgress is returned when a reload is requested for a campaign
// that is already reloading. The second request is a no-op, not a queue.
var ErrReloadInProgress = errors.New("reload already in progress")

// ErrNotLoaded is returned when a campaign has no published dataset yet.
var ErrNotLoaded = errors.New("campaign data not loaded")

// Campaign is the single-writer many-reader holder of one campaign's
// current dataset. A reader that took a snapshot before a publish keeps
// that snapshot to completion; publishes never mutate a visible dataset.
type Campaign struct {
	code string

	mu        sync.RWMutex
	current   *Dataset
	reloading bool
}

// Code returns the campaign code.
func (c *Campaign) Code() string {
	return c.code
}

// Snapshot returns the current dataset handle, or ErrNotLoaded before the
// first successful load.
func (c *Campaign) Snapshot() (*Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, ErrNotLoaded
	}
	return c.current, nil
}

// Loaded reports whether a dataset has been published.
func (c *Campaign) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}

// BeginReload marks the campaign as reloading. It fails with
// ErrReloadInProgress if another reload holds the flag, so concurrent
// reload triggers collapse to one build.
func (c *Campaign) BeginReload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reloading {
		return ErrReloadInProgress
	}
	c.reloading = true
	return nil
}

// EndReload clears the reloading flag. Safe to call from a deferred
// statement whether or not the build succeeded.
func (c *Campaign) EndReload() {
	c.mu.Lock()
	c.reloading = false
	c.mu.Unlock()
}

// Publish swaps in a fully built dataset. The previous dataset remains
// valid for readers that already hold it.
func (c *Campaign) Publish(ds *Dataset) {
	c.mu.Lock()
	c.current = ds
	c.mu.Unlock()
}

// Store is the registry of campaign holders, created once at startup.
type Store struct {
	mu        sync.RWMutex
	campaigns map[string]*Campaign
}

// New creates an empty Store.
func New() *Store {
	return &Store{campaigns: make(map[string]*Campaign)}
}

// Register creates the holder for a campaign code. Registering the same
// code twice returns the existing holder.
func (s *Store) Register(code string) *Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.campaigns[code]; ok {
		return c
	}
	c := &Campaign{code: code}
	s.campaigns[code] = c
	return c
}

// Campaign returns the holder for a campaign code.
func (s *Store) Campaign(code string) (*Campaign, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[code]
	return c, ok
}

// Codes returns the registered campaign codes, sorted.
func (s *Store) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.campaigns))
	for code := range s.campaigns {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
