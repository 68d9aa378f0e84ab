// Package sha256 is a streaming SHA-256 engine as defined in FIPS 180-4.
//
// A Context is created with New, fed any number of byte slices with Update,
// and consumed exactly once by Finalize. The way the input is split across
// Update calls never changes the resulting Digest.
package sha256

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Size is the length of a SHA-256 digest in bytes.
const Size = 32

// BlockSize is the length of one compression block in bytes.
const BlockSize = 64

// lengthOffset is where the 64-bit message length starts in the final block.
const lengthOffset = BlockSize - 8

// Initial hash value: first 32 bits of the fractional parts of the square
// roots of the first 8 primes.
const (
	init0 = 0x6a09e667
	init1 = 0xbb67ae85
	init2 = 0x3c6ef372
	init3 = 0xa54ff53a
	init4 = 0x510e527f
	init5 = 0x9b05688c
	init6 = 0x1f83d9ab
	init7 = 0x5be0cd19
)

// Digest is the 32-byte result of hashing a message.
type Digest [Size]byte

// Hex returns the digest as 64 lowercase hexadecimal characters.
func (d Digest) Hex() string { return Hex(d) }

// String implements fmt.Stringer.
func (d Digest) String() string { return Hex(d) }

// Context holds the running state of one message being hashed.
// It is a plain value with no internal locking; use one Context per goroutine.
// The zero value is not ready for use: obtain one from New or call Reset.
type Context struct {
	h     [8]uint32
	x     [BlockSize]byte
	nx    int    // bytes buffered in x, always < BlockSize between calls
	bits  uint64 // message length in bits, wraps modulo 2^64
	ready bool
	done  bool
}

func (c *Context) checkUsable(op string) {
	if !c.ready {
		panic("sha256: Context used before New or Reset")
	}
	if c.done {
		panic("sha256: " + op)
	}
}

// New returns a Context ready to accept input.
func New() *Context {
	c := new(Context)
	c.Reset()
	return c
}

// Reset puts c back into its initial state, discarding any buffered input.
func (c *Context) Reset() {
	c.h = [8]uint32{init0, init1, init2, init3, init4, init5, init6, init7}
	c.x = [BlockSize]byte{}
	c.nx = 0
	c.bits = 0
	c.ready = true
	c.done = false
}

// Len returns the number of bytes passed to Update so far.
func (c *Context) Len() uint64 { return c.bits >> 3 }

// Update feeds p into the running hash. It panics if c was never
// initialized or was already finalized.
func (c *Context) Update(p []byte) {
	c.checkUsable("Update called after Finalize")
	c.bits += uint64(len(p)) << 3

	if c.nx > 0 {
		n := copy(c.x[c.nx:], p)
		c.nx += n
		if c.nx < BlockSize {
			return
		}
		block(&c.h, c.x[:])
		c.nx = 0
		p = p[n:]
	}

	for len(p) >= BlockSize {
		block(&c.h, p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		c.nx = copy(c.x[:], p)
	}
}

// Finalize pads the message, processes the last block(s) and returns the
// digest. A Context can be finalized only once; a second call panics.
func (c *Context) Finalize() Digest {
	c.checkUsable("Finalize called twice")
	c.done = true

	bits := c.bits

	c.x[c.nx] = 0x80
	c.nx++

	if c.nx > lengthOffset {
		clear(c.x[c.nx:])
		block(&c.h, c.x[:])
		c.nx = 0
	}

	clear(c.x[c.nx:lengthOffset])
	binary.BigEndian.PutUint64(c.x[lengthOffset:], bits)
	block(&c.h, c.x[:])
	c.nx = 0

	var d Digest
	for i, v := range c.h {
		binary.BigEndian.PutUint32(d[i*4:], v)
	}
	return d
}

// Sum256 returns the digest of data.
func Sum256(data []byte) Digest {
	var c Context
	c.Reset()
	c.Update(data)
	return c.Finalize()
}

// Hex renders a digest as lowercase hexadecimal with no prefix or separators.
func Hex(d Digest) string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a 64-character hexadecimal string into a Digest.
// Upper- and lowercase input are both accepted.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(Size) {
		return d, fmt.Errorf("sha256: digest must be %d hex characters, got %d", hex.EncodedLen(Size), len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("sha256: invalid digest %q: %w", s, err)
	}
	return d, nil
}
