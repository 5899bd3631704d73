package network

import (
	"sync"
	"testing"
)

func TestRandomUAConcurrent(t *testing.T) {
	client, err := NewClient(nil, 0)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	// Workers pick a User-Agent concurrently; run with -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if ua := client.randomUA(); ua == "" {
					t.Errorf("randomUA() = empty string")
					return
				}
			}
		}()
	}
	wg.Wait()
}
