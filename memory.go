package relcmp

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Releasable represents any resource holding Arrow memory.
//
// Series and masks implement it. Always call Release when done with a
// resource, usually with defer:
//
//	mask, err := relcmp.Eq(left, right)
//	if err != nil {
//		return err
//	}
//	defer mask.Release()
type Releasable interface {
	Release()
}

// MemoryManager tracks resources and releases them together.
//
// It is handy when a loop produces many masks whose lifetimes end at the same
// point. The MemoryManager is safe for concurrent use.
//
//	err := relcmp.WithMemoryManager(mem, func(m *relcmp.MemoryManager) error {
//		for _, threshold := range thresholds {
//			mask, err := relcmp.Gt(prices, relcmp.NewScalar(threshold))
//			if err != nil {
//				return err
//			}
//			m.Track(mask)
//		}
//		return nil
//	})
type MemoryManager struct {
	allocator memory.Allocator
	resources []Releasable
	mu        sync.Mutex
}

// NewMemoryManager creates a memory manager. A nil allocator selects the Go allocator.
func NewMemoryManager(allocator memory.Allocator) *MemoryManager {
	if allocator == nil {
		allocator = memory.NewGoAllocator()
	}
	return &MemoryManager{allocator: allocator}
}

// Allocator returns the allocator series built under this manager should use
func (m *MemoryManager) Allocator() memory.Allocator {
	return m.allocator
}

// Track adds a resource to be released by ReleaseAll. Nil series are ignored.
func (m *MemoryManager) Track(resource Releasable) {
	if resource == nil {
		return
	}
	if s, ok := resource.(*Series); ok && s == nil {
		return
	}
	m.mu.Lock()
	m.resources = append(m.resources, resource)
	m.mu.Unlock()
}

// Count returns the number of tracked resources
func (m *MemoryManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resources)
}

// ReleaseAll releases tracked resources in reverse order and clears the list
func (m *MemoryManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.resources) - 1; i >= 0; i-- {
		m.resources[i].Release()
	}
	clear(m.resources)
	m.resources = m.resources[:0]
}

// WithSeries creates a Series, runs fn with it and releases it afterwards.
func WithSeries(factory func() *Series, fn func(*Series) error) error {
	s := factory()
	defer s.Release()
	return fn(s)
}

// WithMemoryManager runs fn with a fresh MemoryManager and releases everything it tracked.
func WithMemoryManager(allocator memory.Allocator, fn func(*MemoryManager) error) error {
	manager := NewMemoryManager(allocator)
	defer manager.ReleaseAll()
	return fn(manager)
}
