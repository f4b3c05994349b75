package conduit

// Waiter records represent suspended send and receive intents sitting in a channel's
// internal queues. The two flavors are kept as distinct types: the settlement site
// always knows statically which side it is settling, so no dispatch is needed.
//
// Each record carries two predicates, always called with the channel lock held:
//
//   - abort is consulted at most once, when the channel dequeues the waiter to
//     settle it. A true result discards the waiter without settlement. For select
//     operations this check has a commit side effect (see selectState), which is why
//     it must only run on settlement paths.
//   - dead is a pure check used by pruning paths such as Size. It reports whether the
//     waiter is already known to be unwanted, without committing anything.
//
// For plain operations the two predicates are the same function. Settle fires at
// most once per waiter, always with the channel lock held.

// recvWaiter is a suspended receive intent. On ok, settle takes ownership of the
// delivered value; otherwise the channel was closed and the value is the zero value.
type recvWaiter[T any] struct {
	abort  func() bool
	dead   func() bool
	settle func(ok bool, value T)
}

// sendWaiter is a suspended send intent holding the value to be sent inside its
// settle closure. On ok, settle writes the value through dst; otherwise the channel
// was closed and dst is not written (it may be nil).
type sendWaiter[T any] struct {
	abort  func() bool
	dead   func() bool
	settle func(ok bool, dst *T)
}

// neverAbort is the predicate of operations that are wanted until settled.
func neverAbort() bool { return false }
