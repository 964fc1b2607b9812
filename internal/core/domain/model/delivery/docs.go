// Package delivery models the per-channel delivery log of lifecycle events.
//
// One Delivery exists per (event, channel). It starts pending, becomes
// delivered on the first successful send, and otherwise alternates through
// failed with exponential backoff until RetryPolicy.MaxAttempts is reached,
// at which point it is dead: permanently failed and reported to operators.
//
//	pending ──ok──> delivered
//	   │
//	  err
//	   ▼
//	failed ──ok──> delivered
//	   │
//	  err (attempts == max)
//	   ▼
//	 dead
package delivery
