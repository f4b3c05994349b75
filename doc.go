// Package conduit provides typed message channels for communication between goroutines,
// modeled after CSP-style rendezvous channels. Unlike Go's built-in channels, conduit channels
// expose non-blocking and callback-based variants of every operation, report outcomes explicitly,
// and support waiting on an arbitrary runtime-built set of operations via [Select].
//
// # Channels
//
// A channel is created with [New] and comes in three shapes, selected by capacity:
//   - Rendezvous (capacity 0): every send is paired in time with a receive.
//   - Bounded (capacity N): up to N values are buffered between senders and receivers.
//   - Unbounded (capacity [Unbounded]): sends never block and never fail while the channel is open.
//
// All three shapes share the [Chan] interface, which splits into [Sender] and [Receiver] halves
// so that APIs can accept only the direction they need.
//
// # Operations
//
// Every operation exists in three forms:
//   - Blocking: [Chan.Send] and [Chan.Recv] suspend the calling goroutine until the operation
//     commits, the channel is closed, or the context is canceled.
//   - Non-blocking: [Chan.TrySend] and [Chan.TryRecv] attempt an immediate commit and
//     report [Exhausted] when the channel state prohibits progress.
//   - Scheduled: [Chan.SendSched] and [Chan.RecvSched] register a settlement callback and return
//     immediately. The callback fires exactly once, on whichever goroutine later commits the
//     operation, unless the abort predicate reports the operation is no longer wanted.
//
// Outcomes are reported as [Outcome] values rather than errors, since for channels
// closure and cancellation are ordinary results rather than exceptional conditions.
//
// # Settlement callbacks
//
// Settlement callbacks, including those of [Select] operations, are invoked while the channel's
// internal lock is held. This keeps the settled operation's view of the channel consistent with
// the moment of commit, but it means callbacks must not call back into the same channel and must
// not acquire locks that can be held while calling into it.
//
// # Select
//
// [Select] waits on a heterogeneous set of pending operations, built with [SendOp] and [RecvOp],
// and commits exactly one of them. See [TrySelect] and [SelectElse] for the non-blocking forms.
package conduit
