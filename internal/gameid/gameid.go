// Package gameid generates sortable identifiers for sessions and rounds.
//
// An ID is a UUIDv7 (48-bit millisecond timestamp, version and variant bits,
// random tail) rendered as 26 characters of Crockford base32, so IDs sort by
// creation time and can be pasted into log searches without quoting.
package gameid

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	rand "math/rand/v2"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Crockford base32, lower case. No i, l, o or u.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an ID
const Length = 26

// Generator produces IDs from a clock and a random source. A nil rng falls
// back to crypto/rand; a seeded rng gives reproducible IDs when paired with
// a mock clock.
type Generator struct {
	clock quartz.Clock
	rng   *rand.Rand
}

// NewGenerator creates a generator. A nil clock uses the real clock.
func NewGenerator(clock quartz.Clock, rng *rand.Rand) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rng: rng}
}

// Generate returns an ID stamped with the real clock and crypto randomness
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate returns a new ID
func (g *Generator) Generate() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var id [16]byte

	ms := uint64(g.clock.Now().UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if g.rng != nil {
		binary.BigEndian.PutUint64(id[6:14], g.rng.Uint64())
		binary.BigEndian.PutUint16(id[14:16], uint16(g.rng.Uint32()))
	} else if _, err := crand.Read(id[6:]); err != nil {
		panic("gameid: reading random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return id
}

// encode writes the 128 bits as 26 base32 digits, most significant first.
// The leading digit carries only 3 bits, which is why it never exceeds '7'.
func encode(id [16]byte) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	var out [Length]byte
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

func decode(s string) ([16]byte, error) {
	var id [16]byte
	if err := Validate(s); err != nil {
		return id, err
	}

	var hi, lo uint64
	for i := 0; i < Length; i++ {
		v := uint64(strings.IndexByte(alphabet, s[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id, nil
}

// Timestamp returns the creation time embedded in an ID
func Timestamp(s string) (time.Time, error) {
	id, err := decode(s)
	if err != nil {
		return time.Time{}, err
	}
	var ms uint64
	for i := 0; i < 6; i++ {
		ms = ms<<8 | uint64(id[i])
	}
	return time.UnixMilli(int64(ms)), nil
}

// Validate checks an ID is 26 lower-case base32 characters starting 0-7
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("id must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
