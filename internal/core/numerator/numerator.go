// Package numerator provides document auto-numbering.
// Numbers are sequential per prefix and year, e.g. PUR-2026-000001.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"ledgerbook/internal/kv"
)

// Generator issues the next document number for a prefix.
type Generator interface {
	NextNumber(ctx context.Context, prefix string, at time.Time) (string, error)
}

// Sequential issues gapless numbers backed by the key-value collaborator.
// Counters are stored per prefix and year so numbering restarts each year.
type Sequential struct {
	mu sync.Mutex
	kv kv.Store
}

// NewSequential creates a Sequential generator over the given substrate.
func NewSequential(substrate kv.Store) *Sequential {
	return &Sequential{kv: substrate}
}

func counterKey(prefix string, year int) string {
	return fmt.Sprintf("seq_%s_%d", strings.ToLower(prefix), year)
}

// NextNumber returns the next number for the prefix, persisting the counter
// before the number is handed out.
func (g *Sequential) NextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	year := at.UTC().Year()
	key := counterKey(prefix, year)

	var current int64
	data, ok, err := g.kv.Get(key)
	if err != nil {
		return "", fmt.Errorf("read counter %s: %w", key, err)
	}
	if ok && len(data) > 0 {
		current, err = strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return "", fmt.Errorf("parse counter %s: %w", key, err)
		}
	}

	current++
	if err := g.kv.Set(key, []byte(strconv.FormatInt(current, 10))); err != nil {
		return "", fmt.Errorf("write counter %s: %w", key, err)
	}

	return fmt.Sprintf("%s-%d-%06d", strings.ToUpper(prefix), year, current), nil
}
