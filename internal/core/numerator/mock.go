package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock is a deterministic in-memory Generator for tests.
type Mock struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMock creates an empty mock generator.
func NewMock() *Mock {
	return &Mock{counters: make(map[string]int64)}
}

func (m *Mock) NextNumber(_ context.Context, prefix string, at time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[prefix]++
	return fmt.Sprintf("%s-%d-%06d", prefix, at.UTC().Year(), m.counters[prefix]), nil
}
