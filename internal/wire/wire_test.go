package wire

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVersion = [3]uint32{1, 0, 0}

func handshakeBothSides(t *testing.T, magicA, magicB string) (a, b *Channel, errA, errB error) {
	t.Helper()
	// Each side writes its handshake frame before reading the peer's, so the
	// pair runs over loopback TCP, whose socket buffers accept both writes;
	// net.Pipe has no buffering and would block both writers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, _ := ln.Accept()
		accepted <- conn
	}()
	connA, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	connB := <-accepted
	require.NotNil(t, connB)
	t.Cleanup(func() {
		connA.Close()
		connB.Close()
	})
	a = NewChannel(connA)
	b = NewChannel(connB)

	partA := NewParticipant(1, 100, 100)
	partB := NewParticipant(2, 100, 100)

	done := make(chan error, 1)
	go func() {
		done <- b.Handshake(magicB, testVersion, partB, 10, 10)
	}()
	errA = a.Handshake(magicA, testVersion, partA, 10, 10)
	errB = <-done
	return a, b, errA, errB
}

func TestHandshakeSucceedsWithMatchingMagicAndVersion(t *testing.T) {
	a, b, errA, errB := handshakeBothSides(t, "ashfall", "ashfall")
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.True(t, a.handshakeDone)
	assert.True(t, b.handshakeDone)
}

func TestHandshakeFailsOnMagicMismatch(t *testing.T) {
	_, _, errA, errB := handshakeBothSides(t, "ashfall", "other-game")
	assert.Error(t, errA)
	assert.Error(t, errB)
}

func TestOpenStreamIsIdempotent(t *testing.T) {
	connA, connB := net.Pipe()
	a := NewChannel(connA)
	_ = connB

	go func() {
		buf := make([]byte, 4096)
		for {
			if _, err := connB.Read(buf); err != nil {
				return
			}
		}
	}()

	a.handshakeDone = true
	require.NoError(t, a.OpenStream(5, 0, 0))
	require.NoError(t, a.OpenStream(5, 0, 0)) // duplicate: no second OpenStream frame, no error
	assert.True(t, a.streams[5])
}

func TestCloseStreamDropsLateDataFrames(t *testing.T) {
	c := NewChannel(nil)
	c.handshakeDone = true
	c.streams[1] = true

	_, _, _, completedHeader := c.Dispatch(DataHeader{MsgID: 1, StreamID: 1, Length: 4})
	assert.False(t, completedHeader)

	c.Dispatch(CloseStream{StreamID: 1})
	assert.False(t, c.streams[1])

	_, _, _, ok := c.Dispatch(Data{MsgID: 1, StreamID: 1, Start: 0, Bytes: []byte("data")})
	assert.False(t, ok, "data for a closed stream must be dropped, not delivered")
}

func TestMessageReassemblesAcrossFragments(t *testing.T) {
	c := NewChannel(nil)
	c.handshakeDone = true
	c.streams[7] = true

	payload := []byte("hello distributed world")
	c.Dispatch(DataHeader{MsgID: 9, StreamID: 7, Length: uint64(len(payload))})

	_, _, _, ok := c.Dispatch(Data{MsgID: 9, StreamID: 7, Start: 0, Bytes: payload[:10]})
	assert.False(t, ok)

	sid, mid, got, ok := c.Dispatch(Data{MsgID: 9, StreamID: 7, Start: 10, Bytes: payload[10:]})
	require.True(t, ok)
	assert.Equal(t, uint64(7), sid)
	assert.Equal(t, uint64(9), mid)
	assert.Equal(t, payload, got)
}

func TestSendMessageFragmentsLargePayload(t *testing.T) {
	connA, connB := net.Pipe()
	a := NewChannel(connA)
	b := NewChannel(connB)
	a.handshakeDone = true
	b.handshakeDone = true
	a.streams[3] = true
	b.streams[3] = true

	payload := make([]byte, fragmentSize*2+123)
	for i := range payload {
		payload[i] = byte(i)
	}

	go func() {
		_ = a.SendMessage(3, 42, payload)
	}()

	var reassembled []byte
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f, err := ReadFrame(connB)
		require.NoError(t, err)
		if _, _, data, ok := b.Dispatch(f); ok {
			reassembled = data
			break
		}
	}
	assert.Equal(t, payload, reassembled)
}

func TestFrameOverMaxSizeRejected(t *testing.T) {
	c := NewChannel(nil)
	c.handshakeDone = true
	c.streams[1] = true
	err := c.SendMessage(1, 1, make([]byte, MaxMsgBytes+1))
	assert.ErrorIs(t, err, ErrInvalidMsg)
}

func TestIDPoolAllocatesNonOverlappingRanges(t *testing.T) {
	p := NewIDPool(0, 100)
	r1, ok := p.Take(30)
	require.True(t, ok)
	assert.Equal(t, IDRange{Start: 0, End: 30}, r1)

	r2, ok := p.Take(30)
	require.True(t, ok)
	assert.Equal(t, IDRange{Start: 30, End: 60}, r2)

	_, ok = p.Take(50)
	assert.False(t, ok, "only 40 ids remain")
}

func TestParticipantAllocateChannelPoolsDoNotOverlapAcrossChannels(t *testing.T) {
	part := NewParticipant(1, 20, 20)
	streamsA, msgsA, err := part.AllocateChannelPools(10, 10)
	require.NoError(t, err)
	streamsB, msgsB, err := part.AllocateChannelPools(10, 10)
	require.NoError(t, err)

	assert.NotEqual(t, streamsA, streamsB)
	assert.NotEqual(t, msgsA, msgsB)

	_, _, err = part.AllocateChannelPools(1, 1)
	assert.Error(t, err, "master pool is exhausted")
}
