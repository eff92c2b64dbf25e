package netiface

import "github.com/therealutkarshpriyadarshi/routerd/internal/ipv4"

// datagramQueue is a strict FIFO queue of IPv4 datagrams. It backs both
// the per-IP PendingQueue (spec.md §3) and the interface's RX side that
// router.Route drains via MaybeReceive.
type datagramQueue struct {
	items []ipv4.Datagram
}

func (q *datagramQueue) push(d ipv4.Datagram) {
	q.items = append(q.items, d)
}

func (q *datagramQueue) pop() (ipv4.Datagram, bool) {
	if len(q.items) == 0 {
		return ipv4.Datagram{}, false
	}
	d := q.items[0]
	q.items = q.items[1:]
	return d, true
}

func (q *datagramQueue) len() int {
	return len(q.items)
}
