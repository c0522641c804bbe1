package wire

import (
	"fmt"
	"sync"
)

// IDPool carves non-overlapping sub-ranges out of a master [Start, End) id
// space, so concurrent Channels to the same participant never hand out the
// same stream id or message id.
type IDPool struct {
	mu   sync.Mutex
	next uint64
	end  uint64
}

// NewIDPool returns a pool spanning the half-open range [start, end).
func NewIDPool(start, end uint64) *IDPool {
	return &IDPool{next: start, end: end}
}

// Take carves off the next n ids as a sub-range, or returns false if fewer
// than n remain.
func (p *IDPool) Take(n uint64) (IDRange, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.end-p.next < n {
		return IDRange{}, false
	}
	r := IDRange{Start: p.next, End: p.next + n}
	p.next += n
	return r, true
}

// Participant owns the master stream-id and message-id spaces for one peer
// identity; each Channel opened to that participant takes a sub-pool of
// each so handshakes never race each other's allocations.
type Participant struct {
	ID       uint64
	streamID *IDPool
	msgID    *IDPool
}

// NewParticipant returns a Participant with the given master id spaces.
func NewParticipant(id uint64, streamSpace, msgSpace uint64) *Participant {
	return &Participant{
		ID:       id,
		streamID: NewIDPool(0, streamSpace),
		msgID:    NewIDPool(0, msgSpace),
	}
}

// AllocateChannelPools carves a streamShare-sized stream-id range and a
// msgShare-sized message-id range for a new Channel to this participant.
func (p *Participant) AllocateChannelPools(streamShare, msgShare uint64) (streams, msgs IDRange, err error) {
	streams, ok := p.streamID.Take(streamShare)
	if !ok {
		return IDRange{}, IDRange{}, fmt.Errorf("wire: stream id space exhausted")
	}
	msgs, ok = p.msgID.Take(msgShare)
	if !ok {
		return IDRange{}, IDRange{}, fmt.Errorf("wire: message id space exhausted")
	}
	return streams, msgs, nil
}
