package events

import (
	"context"
	"fmt"
	"sync"
)

// SequenceCounter hands out per-partition sequence numbers starting at 1.
type SequenceCounter struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewSequenceCounter() *SequenceCounter {
	return &SequenceCounter{last: make(map[string]int64)}
}

func (s *SequenceCounter) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last[partitionKey]++
	return s.last[partitionKey], nil
}
