// Package wire implements the Channel/Stream framing layer underneath the
// game's application protocol: a length-prefixed tagged-union frame format,
// a strict three-frame handshake, stream multiplexing with idempotent
// open/close, and message fragmentation across Data frames. Application
// payloads ride as the bytes of Data frames once a Stream is open
// (internal/worldsrv sends JSON envelopes this way), and a Channel runs
// over any io.ReadWriter such as a net.Conn.
package wire

import (
	"bytes"
	"encoding/gob"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxMsgBytes is the largest frame body accepted before the Channel is torn
// down with ErrInvalidMsg.
const MaxMsgBytes = 1 << 20

// ErrInvalidMsg is returned (and the owning Channel torn down) when a frame
// exceeds MaxMsgBytes or fails to decode.
var ErrInvalidMsg = errors.New("wire: invalid message")

// Frame is the tagged-union variant set carried over a Channel. Only these
// nine kinds exist; unlike the open-ended application payload inside Data
// frames, this is a closed set exchanged only between two Channels, so it's
// encoded with gob rather than pulling in a third-party serializer for nine
// fixed struct shapes.
type Frame interface {
	frameTag() tag
}

type tag uint8

const (
	tagHandshake tag = iota + 1
	tagParticipantID
	tagConfigure
	tagOpenStream
	tagCloseStream
	tagDataHeader
	tagData
	tagRaw
	tagShutdown
)

// Handshake is the first frame exchanged in both directions. Magic and
// Version must match exactly or the peer is rejected.
type Handshake struct {
	Magic   string
	Version [3]uint32
}

func (Handshake) frameTag() tag { return tagHandshake }

// ParticipantID is the second handshake frame: each side's stable identity.
type ParticipantID struct {
	ID uint64
}

func (ParticipantID) frameTag() tag { return tagParticipantID }

// IDRange is a half-open [Start, End) span of ids carved from a master pool.
type IDRange struct {
	Start uint64
	End   uint64
}

// Contains reports whether id falls within the range.
func (r IDRange) Contains(id uint64) bool { return id >= r.Start && id < r.End }

// Configure is the third and final handshake frame: the stream-id and
// message-id sub-pools this side has been allocated, so ids the peer sends
// can be validated against the expected range.
type Configure struct {
	StreamIDs IDRange
	MsgIDs    IDRange
}

func (Configure) frameTag() tag { return tagConfigure }

// OpenStream creates a new multiplexed Stream. Promises is a bitset of
// capability flags (ordered delivery, compression, ...); this package
// doesn't interpret it, just carries it for the application layer.
type OpenStream struct {
	StreamID uint64
	Priority uint8
	Promises uint8
}

func (OpenStream) frameTag() tag { return tagOpenStream }

// CloseStream destroys a Stream. Both OpenStream and CloseStream must be
// idempotent under in-flight data: a duplicate Open is a no-op, and Data
// frames arriving for an already-closed stream are silently dropped.
type CloseStream struct {
	StreamID uint64
}

func (CloseStream) frameTag() tag { return tagCloseStream }

// DataHeader announces an incoming message: its total byte Length, to be
// delivered as one or more subsequent Data frames on the same stream
// carrying the same MsgID.
type DataHeader struct {
	MsgID    uint64
	StreamID uint64
	Length   uint64
}

func (DataHeader) frameTag() tag { return tagDataHeader }

// Data carries one fragment of a message's payload, to be placed at Start
// within the reassembly buffer announced by the matching DataHeader.
type Data struct {
	MsgID    uint64
	StreamID uint64
	Start    uint64
	Bytes    []byte
}

func (Data) frameTag() tag { return tagData }

// Raw is a human-readable out-of-band message, used for handshake rejection
// before the Channel is torn down.
type Raw struct {
	Text string
}

func (Raw) frameTag() tag { return tagRaw }

// Shutdown signals the sender is about to close the underlying connection.
type Shutdown struct{}

func (Shutdown) frameTag() tag { return tagShutdown }

// WriteFrame serializes f as `u64 length` followed by a body whose first
// byte is the tag and remainder is gob-encoded, and writes it to w.
func WriteFrame(w io.Writer, f Frame) error {
	var body bytes.Buffer
	body.WriteByte(byte(f.frameTag()))
	if err := gob.NewEncoder(&body).Encode(f); err != nil {
		return fmt.Errorf("wire: encode frame: %w", err)
	}
	if body.Len() > MaxMsgBytes {
		return ErrInvalidMsg
	}
	var lenPrefix [8]byte
	binary.LittleEndian.PutUint64(lenPrefix[:], uint64(body.Len()))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

// ReadFrame reads one frame from r, rejecting bodies over MaxMsgBytes with
// ErrInvalidMsg without consuming the oversized body (the caller must tear
// the connection down; the stream position past this point is unreliable).
func ReadFrame(r io.Reader) (Frame, error) {
	var lenPrefix [8]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint64(lenPrefix[:])
	if length > MaxMsgBytes {
		return nil, ErrInvalidMsg
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("wire: empty frame body: %w", ErrInvalidMsg)
	}
	t := tag(body[0])
	dec := gob.NewDecoder(bytes.NewReader(body[1:]))
	switch t {
	case tagHandshake:
		var f Handshake
		err := decodeInto(dec, &f)
		return f, err
	case tagParticipantID:
		var f ParticipantID
		err := decodeInto(dec, &f)
		return f, err
	case tagConfigure:
		var f Configure
		err := decodeInto(dec, &f)
		return f, err
	case tagOpenStream:
		var f OpenStream
		err := decodeInto(dec, &f)
		return f, err
	case tagCloseStream:
		var f CloseStream
		err := decodeInto(dec, &f)
		return f, err
	case tagDataHeader:
		var f DataHeader
		err := decodeInto(dec, &f)
		return f, err
	case tagData:
		var f Data
		err := decodeInto(dec, &f)
		return f, err
	case tagRaw:
		var f Raw
		err := decodeInto(dec, &f)
		return f, err
	case tagShutdown:
		var f Shutdown
		err := decodeInto(dec, &f)
		return f, err
	default:
		return nil, fmt.Errorf("wire: unknown frame tag %d: %w", t, ErrInvalidMsg)
	}
}

func decodeInto[T any](dec *gob.Decoder, out *T) error {
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("wire: decode frame: %w", ErrInvalidMsg)
	}
	return nil
}
