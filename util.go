package conduit

import "context"

// Drain receives and discards values from r until the channel is closed.
func Drain[T any](r Receiver[T]) {
	for {
		if _, outcome := r.Recv(context.Background()); outcome != Ok {
			return
		}
	}
}

// ToSlice receives values from r until the channel is closed and returns them
// in arrival order. Values still buffered at the moment of closure are not
// included: a closed channel refuses all operations.
func ToSlice[T any](r Receiver[T]) []T {
	var res []T
	for {
		v, outcome := r.Recv(context.Background())
		if outcome != Ok {
			return res
		}
		res = append(res, v)
	}
}

// SendAll sends the given values in order, blocking as needed, and reports
// whether all of them committed. It stops at the first failed send.
func SendAll[T any](s Sender[T], values ...T) bool {
	for _, v := range values {
		if s.Send(context.Background(), v) != Ok {
			return false
		}
	}
	return true
}
