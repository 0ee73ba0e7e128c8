package claim

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Second claim is refused until release", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)

		ok, err := s.Claim(ctx, "claim:conversation:1", time.Minute)
		if err != nil || !ok {
			t.Fatalf("first claim: ok=%v err=%v", ok, err)
		}
		if ok, _ := s.Claim(ctx, "claim:conversation:1", time.Minute); ok {
			t.Fatal("second claim must be refused")
		}
		if ok, _ := s.Claim(ctx, "claim:conversation:2", time.Minute); !ok {
			t.Fatal("other key must be free")
		}

		if err := s.Release(ctx, "claim:conversation:1"); err != nil {
			t.Fatalf("release: %v", err)
		}
		if ok, _ := s.Claim(ctx, "claim:conversation:1", time.Minute); !ok {
			t.Fatal("claim after release must succeed")
		}
	})

	t.Run("Expired claim can be retaken", func(t *testing.T) {
		s := NewMemoryStore(time.Hour).(*memoryStore)
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return now }

		s.Claim(ctx, "k", 30*time.Second)
		now = now.Add(31 * time.Second)
		if ok, _ := s.Claim(ctx, "k", 30*time.Second); !ok {
			t.Fatal("expired claim must be retaken")
		}
	})

	t.Run("Release of free key", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		if err := s.Release(ctx, "nobody"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Concurrent claims grant exactly one", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		var granted int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := s.Claim(ctx, "hot", time.Minute); ok {
					atomic.AddInt32(&granted, 1)
				}
			}()
		}
		wg.Wait()
		if granted != 1 {
			t.Fatalf("granted %d claims, want 1", granted)
		}
	})
}
