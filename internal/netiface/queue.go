package netiface

import "github.com/therealutkarshpriyadarshi/routerd/internal/ethernet"

// frameQueue is a strict FIFO queue of Ethernet frames, used for the
// per-interface TX queue (spec.md §3 "ReadyToBeSend").
type frameQueue struct {
	items []ethernet.Frame
}

func (q *frameQueue) push(f ethernet.Frame) {
	q.items = append(q.items, f)
}

func (q *frameQueue) pop() (ethernet.Frame, bool) {
	if len(q.items) == 0 {
		return ethernet.Frame{}, false
	}
	f := q.items[0]
	q.items = q.items[1:]
	return f, true
}

func (q *frameQueue) len() int {
	return len(q.items)
}
