package pairing

// waitPool holds not-yet-paired clients, partitioned by gender class,
// FIFO within each partition.
//
// It is not safe for concurrent use on its own: the Broker serializes all
// access under its mutex.
type waitPool struct {
	queues map[Gender][]*Client
}

func newWaitPool() *waitPool {
	return &waitPool{
		queues: map[Gender][]*Client{
			GenderMale:   nil,
			GenderFemale: nil,
			GenderOther:  nil,
		},
	}
}

// Enqueue appends the client to the tail of its class queue.
// Precondition (enforced by the Broker): the client is not already in any
// queue or in the session table.
func (p *waitPool) Enqueue(g Gender, c *Client) {
	p.queues[g] = append(p.queues[g], c)
}

// DequeueOppositeOf pops the best waiting candidate for a requester of the
// given class, or nil when none exists. Selection order:
//
//  1. male requester: head of the female queue.
//  2. female requester: head of the male queue.
//  3. otherwise, the head of the first non-empty queue whose class differs
//     from the requester's, scanning male, female, other in that order.
//
// Same-class candidates are never returned, even when they are the only
// clients waiting.
func (p *waitPool) DequeueOppositeOf(g Gender) *Client {
	switch g {
	case GenderMale:
		if c := p.shift(GenderFemale); c != nil {
			return c
		}
	case GenderFemale:
		if c := p.shift(GenderMale); c != nil {
			return c
		}
	}

	for _, class := range genderScanOrder {
		if class == g {
			continue
		}
		if c := p.shift(class); c != nil {
			return c
		}
	}
	return nil
}

// Remove deletes the client from whichever queue contains it.
// Idempotent: removing an absent client is a no-op. Returns whether the
// client was found.
func (p *waitPool) Remove(target *Client) bool {
	for g, q := range p.queues {
		for i, c := range q {
			if c == target {
				p.queues[g] = append(q[:i], q[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Contains reports whether the client is queued in any class.
func (p *waitPool) Contains(target *Client) bool {
	for _, q := range p.queues {
		for _, c := range q {
			if c == target {
				return true
			}
		}
	}
	return false
}

// Len returns the number of clients waiting in the given class queue.
func (p *waitPool) Len(g Gender) int {
	return len(p.queues[g])
}

func (p *waitPool) shift(g Gender) *Client {
	q := p.queues[g]
	if len(q) == 0 {
		return nil
	}
	head := q[0]
	p.queues[g] = q[1:]
	return head
}
