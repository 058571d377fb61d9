package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoSerializesSameKey(t *testing.T) {
	c := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Do(context.Background(), "member-1", func(ctx context.Context) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestDoIndependentKeys(t *testing.T) {
	c := New()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = c.Do(context.Background(), "member-1", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	// A different member must not be blocked by member-1's critical section.
	err := c.Do(context.Background(), "member-2", func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
	close(release)
}

func TestDoReleasesOnError(t *testing.T) {
	c := New()

	wantErr := errors.New("validation failed")
	err := c.Do(context.Background(), "member-1", func(ctx context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// The lock must be free again.
	err = c.Do(context.Background(), "member-1", func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestDoCanceledContext(t *testing.T) {
	c := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := c.Do(ctx, "member-1", func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
