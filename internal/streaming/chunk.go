package streaming

import (
	"fmt"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
)

// ChunkSender transmits an already-encoded chunk to a client. A non-nil
// error means delivery failed (e.g. the connection's outgoing queue was
// full); the caller is expected to request the chunk again on its own
// retry policy, matching how a client re-requests a chunk it never received.
type ChunkSender func(client ecs.EntityID, key vec.ChunkKey, encoding world.ChunkEncoding, data []byte) error

// ChunkStreamer answers chunk requests by encoding via Chunk.Encode's
// shallow/lossy heuristic and handing the result to a ChunkSender.
type ChunkStreamer struct {
	lossy bool
	send  ChunkSender
}

// NewChunkStreamer returns a streamer that tries lossy image encodings for
// shallow chunks when lossy is true, deflating everything else.
func NewChunkStreamer(lossy bool, send ChunkSender) *ChunkStreamer {
	return &ChunkStreamer{lossy: lossy, send: send}
}

// Deliver encodes chunk and sends it to client. A deflate encode failure
// (the only case Chunk.Encode can still return an error for once both lossy
// attempts have been tried) is returned directly; a send failure is also
// returned so the caller can log and let the client's own request timeout
// drive a retry.
func (s *ChunkStreamer) Deliver(client ecs.EntityID, chunk *world.Chunk) error {
	encoding, data, err := chunk.Encode(s.lossy)
	if err != nil {
		return fmt.Errorf("encode chunk %v: %w", chunk.Key, err)
	}
	if err := s.send(client, chunk.Key, encoding, data); err != nil {
		return fmt.Errorf("deliver chunk %v to %v: %w", chunk.Key, client, err)
	}
	return nil
}
