// Package coordinator serializes mutations to a member's combined savings and
// loan state. Every read-modify-write sequence that spans both ledgers must
// run under Do for the member it touches, so a payment debiting savings can
// never interleave with a concurrent deposit or withdrawal on the same member.
package coordinator

import (
	"context"
	"sync"
)

type Coordinator struct {
	locks sync.Map // memberID -> *sync.Mutex
}

func New() *Coordinator {
	return &Coordinator{}
}

// Do runs fn while holding the member's exclusive lock. The lock is released
// on every exit path, including fn returning an error. Locks are per member:
// operations on distinct members never contend.
func (c *Coordinator) Do(ctx context.Context, memberID string, fn func(ctx context.Context) error) error {
	v, _ := c.locks.LoadOrStore(memberID, &sync.Mutex{})
	mu := v.(*sync.Mutex)

	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
