// Package codec implements the canonical byte encoding used across the
// bridge: little-endian fixed-width integers and length-prefixed
// sequences. It has no third-party dependency because the wire format is
// bespoke to this module rather than an existing ecosystem format (it
// must be bit-exact with what the bridge itself defines, not with any
// off-the-shelf protocol) — see DESIGN.md.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when a decode reads past the end of input.
var ErrShortBuffer = errors.New("codec: unexpected end of buffer")

// Encoder accumulates a canonical byte encoding.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// WriteUint8 appends a single byte.
func (e *Encoder) WriteUint8(v uint8) {
	e.buf.WriteByte(v)
}

// WriteUint32 appends a little-endian uint32.
func (e *Encoder) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

// WriteUint64 appends a little-endian uint64.
func (e *Encoder) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// WriteFixed appends raw bytes with no length prefix (for fixed-width
// fields such as hashes whose length is known from the type).
func (e *Encoder) WriteFixed(b []byte) {
	e.buf.Write(b)
}

// WriteBytes appends a uint32 length prefix followed by the raw bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteUint32(uint32(len(b)))
	e.buf.Write(b)
}

// WriteSeqLen appends the uint32 element-count prefix for a sequence.
// Callers then encode each element with their own Encode method.
func (e *Encoder) WriteSeqLen(n int) {
	e.WriteUint32(uint32(n))
}

// Decoder consumes a canonical byte encoding produced by Encoder.
type Decoder struct {
	r *bytes.Reader
}

// NewDecoder wraps b for sequential decoding.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{r: bytes.NewReader(b)}
}

// Remaining reports how many bytes are left to decode.
func (d *Decoder) Remaining() int {
	return d.r.Len()
}

// ReadUint8 reads a single byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, ErrShortBuffer
	}
	return b, nil
}

// ReadUint32 reads a little-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	var b [4]byte
	if _, err := readFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadUint64 reads a little-endian uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	var b [8]byte
	if _, err := readFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// ReadFixed reads exactly n raw bytes.
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := readFull(d.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadBytes reads a uint32 length prefix followed by that many raw bytes.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	return d.ReadFixed(int(n))
}

// ReadSeqLen reads the uint32 element-count prefix for a sequence.
func (d *Decoder) ReadSeqLen() (int, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n, err := r.Read(b)
	if err != nil || n != len(b) {
		return n, ErrShortBuffer
	}
	return n, nil
}

// Encodable is implemented by every domain type with a canonical encoding.
type Encodable interface {
	EncodeTo(e *Encoder)
}

// Encode runs v's EncodeTo against a fresh Encoder and returns the bytes.
func Encode(v Encodable) []byte {
	e := NewEncoder()
	v.EncodeTo(e)
	return e.Bytes()
}

// LocalizedPayload builds the signed preimage for a finality-gadget
// message: encode((message, round, set_id)). Order is mandatory and part
// of the signed preimage — see spec §4.A and the original's
// localized_payload in srml/bridge/src/justification.rs.
func LocalizedPayload(round uint64, setID uint64, message Encodable) []byte {
	e := NewEncoder()
	message.EncodeTo(e)
	e.WriteUint64(round)
	e.WriteUint64(setID)
	return e.Bytes()
}

// DecodeError wraps a field name with the underlying decode failure.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
