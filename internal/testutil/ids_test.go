package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDs_Increment(t *testing.T) {
	ids := NewSequentialIDs("scenario")

	assert.Equal(t, "scenario-0001", ids.Next())
	assert.Equal(t, "scenario-0002", ids.Next())
	assert.Equal(t, "scenario-0003", ids.Next())
}

func TestSequentialIDs_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "run-0001", NewSequentialIDs("").Next())
}

func TestSequentialIDs_Reset(t *testing.T) {
	ids := NewSequentialIDs("")
	ids.Next()
	ids.Next()

	ids.Reset()
	assert.Equal(t, "run-0001", ids.Next())
}

func TestSequentialIDs_ConcurrentUnique(t *testing.T) {
	ids := NewSequentialIDs("")

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := ids.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
}
