// Package workspace persists named vectors to a local SQLite database:
// save, load, list, delete, plus immutable snapshots of the whole
// workspace identified by UUID. Vector payloads are stored in a compact
// zstd-compressed binary encoding.
package workspace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/funvibe/funvec"
)

// Payload framing: a magic/version prefix, then a zstd blob. The
// decompressed body is
//
//	kind      byte
//	n         uvarint
//	na mask   ceil(n/8) bytes
//	payload   kind-specific (see below)
//	names     byte 0|1, then n length-prefixed strings when 1
//
// Logical payloads are a second bitmask, Integer payloads are zigzag
// varints, Double payloads are 8-byte little-endian IEEE bits, Character
// payloads are length-prefixed strings. NA positions carry zero payload
// values; the NA mask is authoritative.
var payloadMagic = []byte{'F', 'V', 'W', 1}

var ErrBadPayload = errors.New("workspace: malformed vector payload")

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Encode serializes v into the workspace payload format.
func Encode(v *funvec.Vector) ([]byte, error) {
	elems := v.Elems()
	n := len(elems)

	body := []byte{byte(v.Kind())}
	body = binary.AppendUvarint(body, uint64(n))

	na := make([]byte, (n+7)/8)
	for i, e := range elems {
		if e.IsNA() {
			na[i/8] |= 1 << (i % 8)
		}
	}
	body = append(body, na...)

	switch v.Kind() {
	case funvec.Logical:
		bits := make([]byte, (n+7)/8)
		for i, e := range elems {
			if !e.IsNA() && e.Bool() {
				bits[i/8] |= 1 << (i % 8)
			}
		}
		body = append(body, bits...)
	case funvec.Integer:
		for _, e := range elems {
			body = binary.AppendVarint(body, e.Int())
		}
	case funvec.Double:
		for _, e := range elems {
			body = binary.LittleEndian.AppendUint64(body, math.Float64bits(e.Real()))
		}
	case funvec.Character:
		for _, e := range elems {
			s := e.Str()
			body = binary.AppendUvarint(body, uint64(len(s)))
			body = append(body, s...)
		}
	default:
		return nil, fmt.Errorf("workspace: cannot encode kind %s", v.Kind())
	}

	if names := v.Names(); names != nil {
		body = append(body, 1)
		for _, s := range names {
			body = binary.AppendUvarint(body, uint64(len(s)))
			body = append(body, s...)
		}
	} else {
		body = append(body, 0)
	}

	out := append([]byte(nil), payloadMagic...)
	return zstdEncoder.EncodeAll(body, out), nil
}

// Decode reconstructs a vector from the workspace payload format.
func Decode(p []byte) (*funvec.Vector, error) {
	if len(p) < len(payloadMagic) || string(p[:len(payloadMagic)]) != string(payloadMagic) {
		return nil, ErrBadPayload
	}
	body, err := zstdDecoder.DecodeAll(p[len(payloadMagic):], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	r := &payloadReader{buf: body}

	kindByte, err := r.byte()
	if err != nil {
		return nil, err
	}
	kind := funvec.Kind(kindByte)
	if kind < funvec.Logical || kind > funvec.Character {
		return nil, ErrBadPayload
	}
	n64, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	n := int(n64)

	na, err := r.bytes((n + 7) / 8)
	if err != nil {
		return nil, err
	}
	isNA := func(i int) bool { return na[i/8]&(1<<(i%8)) != 0 }

	elems := make([]funvec.Elem, n)
	switch kind {
	case funvec.Logical:
		bits, err := r.bytes((n + 7) / 8)
		if err != nil {
			return nil, err
		}
		for i := range elems {
			if isNA(i) {
				elems[i] = funvec.NA(kind)
			} else {
				elems[i] = funvec.Bool(bits[i/8]&(1<<(i%8)) != 0)
			}
		}
	case funvec.Integer:
		for i := range elems {
			x, err := r.varint()
			if err != nil {
				return nil, err
			}
			if isNA(i) {
				elems[i] = funvec.NA(kind)
			} else {
				elems[i] = funvec.Int(x)
			}
		}
	case funvec.Double:
		for i := range elems {
			raw, err := r.bytes(8)
			if err != nil {
				return nil, err
			}
			if isNA(i) {
				elems[i] = funvec.NA(kind)
			} else {
				elems[i] = funvec.Real(math.Float64frombits(binary.LittleEndian.Uint64(raw)))
			}
		}
	case funvec.Character:
		for i := range elems {
			s, err := r.str()
			if err != nil {
				return nil, err
			}
			if isNA(i) {
				elems[i] = funvec.NA(kind)
			} else {
				elems[i] = funvec.Str(s)
			}
		}
	}

	namedByte, err := r.byte()
	if err != nil {
		return nil, err
	}
	var names []string
	if namedByte == 1 {
		names = make([]string, n)
		for i := range names {
			s, err := r.str()
			if err != nil {
				return nil, err
			}
			names[i] = s
		}
	}
	return funvec.FromElems(kind, elems, names)
}

type payloadReader struct {
	buf []byte
	off int
}

func (r *payloadReader) byte() (byte, error) {
	if r.off >= len(r.buf) {
		return 0, ErrBadPayload
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *payloadReader) bytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, ErrBadPayload
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *payloadReader) uvarint() (uint64, error) {
	x, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		return 0, ErrBadPayload
	}
	r.off += n
	return x, nil
}

func (r *payloadReader) varint() (int64, error) {
	x, n := binary.Varint(r.buf[r.off:])
	if n <= 0 {
		return 0, ErrBadPayload
	}
	r.off += n
	return x, nil
}

func (r *payloadReader) str() (string, error) {
	l, err := r.uvarint()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(l))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
