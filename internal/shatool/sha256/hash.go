package sha256

import "hash"

// hasher adapts a Context to hash.Hash. Sum finalizes a copy, so the
// underlying Context keeps accepting writes.
type hasher struct {
	ctx Context
}

var _ hash.Hash = (*hasher)(nil)

// NewHash returns a hash.Hash backed by this package's engine, suitable for
// io.Copy and io.MultiWriter.
func NewHash() hash.Hash {
	h := new(hasher)
	h.ctx.Reset()
	return h
}

func (h *hasher) Write(p []byte) (int, error) {
	h.ctx.Update(p)
	return len(p), nil
}

func (h *hasher) Sum(in []byte) []byte {
	c := h.ctx
	d := c.Finalize()
	return append(in, d[:]...)
}

func (h *hasher) Reset()         { h.ctx.Reset() }
func (h *hasher) Size() int      { return Size }
func (h *hasher) BlockSize() int { return BlockSize }
