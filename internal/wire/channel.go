package wire

import (
	"fmt"
	"io"
	"sync"
)

// fragmentSize bounds how much payload each Data frame carries; messages
// larger than this are split across several Data frames sharing one MsgID.
const fragmentSize = 16 * 1024

// Channel is one handshaked, framed connection with multiplexed Streams.
// It owns no transport of its own — NewChannel wraps any io.ReadWriter
// (internal/worldsrv passes each accepted net.Conn).
type Channel struct {
	rw io.ReadWriter

	mu            sync.Mutex
	handshakeDone bool
	streams       map[uint64]bool // streamID -> open
	localIDs      Configure
	peerIDs       Configure

	assembling map[assemblyKey]*assembly
}

type assemblyKey struct {
	streamID uint64
	msgID    uint64
}

type assembly struct {
	length   uint64
	received uint64
	buf      []byte
}

// NewChannel wraps rw with no handshake performed yet; call Handshake
// before sending or receiving Data.
func NewChannel(rw io.ReadWriter) *Channel {
	return &Channel{
		rw:         rw,
		streams:    make(map[uint64]bool),
		assembling: make(map[assemblyKey]*assembly),
	}
}

// Handshake performs the strict three-frame exchange in both directions:
// Handshake, then ParticipantId, then Configure. If the peer's magic or
// version doesn't match, a human-readable Raw frame is sent followed by
// Shutdown, and an error is returned; the caller must close the connection.
// No Data frame may be sent or accepted before this returns successfully.
func (c *Channel) Handshake(magic string, version [3]uint32, participant *Participant, streamShare, msgShare uint64) error {
	if err := WriteFrame(c.rw, Handshake{Magic: magic, Version: version}); err != nil {
		return err
	}
	peerHandshake, err := ReadFrame(c.rw)
	if err != nil {
		return err
	}
	hs, ok := peerHandshake.(Handshake)
	if !ok {
		return fmt.Errorf("wire: expected Handshake, got %T", peerHandshake)
	}
	if hs.Magic != magic || hs.Version != version {
		_ = WriteFrame(c.rw, Raw{Text: fmt.Sprintf("handshake mismatch: magic=%q version=%v", hs.Magic, hs.Version)})
		_ = WriteFrame(c.rw, Shutdown{})
		return fmt.Errorf("wire: handshake mismatch with peer magic=%q version=%v", hs.Magic, hs.Version)
	}

	if err := WriteFrame(c.rw, ParticipantID{ID: participant.ID}); err != nil {
		return err
	}
	if _, err := ReadFrame(c.rw); err != nil { // peer's ParticipantID; its value isn't needed to proceed
		return err
	}

	streams, msgs, err := participant.AllocateChannelPools(streamShare, msgShare)
	if err != nil {
		return err
	}
	c.localIDs = Configure{StreamIDs: streams, MsgIDs: msgs}
	if err := WriteFrame(c.rw, c.localIDs); err != nil {
		return err
	}
	peerConfigure, err := ReadFrame(c.rw)
	if err != nil {
		return err
	}
	cfg, ok := peerConfigure.(Configure)
	if !ok {
		return fmt.Errorf("wire: expected Configure, got %T", peerConfigure)
	}
	c.peerIDs = cfg

	c.mu.Lock()
	c.handshakeDone = true
	c.mu.Unlock()
	return nil
}

// OpenStream creates sid if it doesn't already exist; a duplicate call is a
// no-op, matching the idempotence the protocol requires under replay.
func (c *Channel) OpenStream(sid uint64, priority, promises uint8) error {
	if err := c.requireHandshake(); err != nil {
		return err
	}
	c.mu.Lock()
	alreadyOpen := c.streams[sid]
	if !alreadyOpen {
		c.streams[sid] = true
	}
	c.mu.Unlock()
	if alreadyOpen {
		return nil
	}
	return WriteFrame(c.rw, OpenStream{StreamID: sid, Priority: priority, Promises: promises})
}

// CloseStream destroys sid; a duplicate or unknown-stream call is a no-op.
// Data frames that arrive for a closed stream afterward are dropped by
// Dispatch rather than erroring.
func (c *Channel) CloseStream(sid uint64) error {
	c.mu.Lock()
	wasOpen := c.streams[sid]
	delete(c.streams, sid)
	c.mu.Unlock()
	if !wasOpen {
		return nil
	}
	return WriteFrame(c.rw, CloseStream{StreamID: sid})
}

// SendMessage fragments payload into one DataHeader followed by one or more
// Data frames on an already-open stream.
func (c *Channel) SendMessage(sid, mid uint64, payload []byte) error {
	if err := c.requireHandshake(); err != nil {
		return err
	}
	if uint64(len(payload)) > MaxMsgBytes {
		return ErrInvalidMsg
	}
	c.mu.Lock()
	open := c.streams[sid]
	c.mu.Unlock()
	if !open {
		return fmt.Errorf("wire: stream %d is not open", sid)
	}

	if err := WriteFrame(c.rw, DataHeader{MsgID: mid, StreamID: sid, Length: uint64(len(payload))}); err != nil {
		return err
	}
	start := 0
	for {
		end := start + fragmentSize
		if end > len(payload) {
			end = len(payload)
		}
		if err := WriteFrame(c.rw, Data{MsgID: mid, StreamID: sid, Start: uint64(start), Bytes: payload[start:end]}); err != nil {
			return err
		}
		start = end
		if start >= len(payload) {
			return nil // a zero-length payload still sends exactly one (empty) Data frame
		}
	}
}

// Dispatch applies one already-read frame to the channel's state, returning
// a completed message (streamID, msgID, payload) once every fragment of it
// has arrived. ok is false for frames that don't complete a message
// (handshake/control frames, or a mid-assembly fragment).
func (c *Channel) Dispatch(f Frame) (streamID, msgID uint64, payload []byte, ok bool) {
	switch v := f.(type) {
	case OpenStream:
		c.mu.Lock()
		c.streams[v.StreamID] = true
		c.mu.Unlock()
	case CloseStream:
		c.mu.Lock()
		delete(c.streams, v.StreamID)
		for key := range c.assembling {
			if key.streamID == v.StreamID {
				delete(c.assembling, key)
			}
		}
		c.mu.Unlock()
	case DataHeader:
		c.mu.Lock()
		c.assembling[assemblyKey{v.StreamID, v.MsgID}] = &assembly{length: v.Length, buf: make([]byte, v.Length)}
		c.mu.Unlock()
	case Data:
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.streams[v.StreamID] {
			return 0, 0, nil, false // late data for a closed stream is dropped
		}
		key := assemblyKey{v.StreamID, v.MsgID}
		a, exists := c.assembling[key]
		if !exists {
			a = &assembly{length: v.Start + uint64(len(v.Bytes))}
			a.buf = make([]byte, a.length)
			c.assembling[key] = a
		}
		copy(a.buf[v.Start:], v.Bytes)
		a.received += uint64(len(v.Bytes))
		if a.received >= a.length {
			delete(c.assembling, key)
			return v.StreamID, v.MsgID, a.buf, true
		}
	}
	return 0, 0, nil, false
}

func (c *Channel) requireHandshake() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.handshakeDone {
		return fmt.Errorf("wire: channel has not completed handshake")
	}
	return nil
}
