package entropy

import (
	"encoding/binary"
	"io"

	"github.com/drand/kyber"
	"github.com/drand/kyber/xof/blake2xb"
)

// Stream is the single deterministic randomness source of a generation run.
// It is a BLAKE2Xb XOF keyed by the master seed: for a fixed sequence of
// draws the output depends on nothing but the seed. Draws are stateful and
// sequential, so the order of draw sites is part of the generation contract;
// reordering them changes every value produced afterwards.
type Stream struct {
	xof kyber.XOF
}

// NewStream seeds a fresh stream from the master seed.
func NewStream(masterSeed []byte) *Stream {
	return &Stream{xof: blake2xb.New(masterSeed)}
}

// Draw returns the next n bytes of the stream.
func (s *Stream) Draw(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(s.xof, b); err != nil {
		// The XOF never runs dry; a failed read means the process state is
		// corrupted and there is nothing sane left to do.
		panic("entropy: stream read failed: " + err.Error())
	}
	return b
}

// DrawUint64Range returns a uniform value in [lo, hi], both inclusive.
// Uses rejection sampling so the result carries no modulo bias.
func (s *Stream) DrawUint64Range(lo, hi uint64) uint64 {
	if lo > hi {
		panic("entropy: DrawUint64Range called with lo > hi")
	}
	span := hi - lo + 1
	if span == 0 { // full uint64 range
		return binary.BigEndian.Uint64(s.Draw(8))
	}
	limit := ^uint64(0) - ^uint64(0)%span
	for {
		v := binary.BigEndian.Uint64(s.Draw(8))
		if v < limit {
			return lo + v%span
		}
	}
}

// XORKeyStream makes *Stream a cipher.Stream, so kyber scalar picking can
// consume the same cursor as raw draws.
func (s *Stream) XORKeyStream(dst, src []byte) {
	s.xof.XORKeyStream(dst, src)
}
