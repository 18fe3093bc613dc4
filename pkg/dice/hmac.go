package dice

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

// HMACSource is a replayable source. Every value is derived from
// HMAC-SHA256(seed, "salt:nonce:round"), so a run can be reproduced from
// its seed, salt and nonce alone.
type HMACSource struct {
	seed         string
	salt         string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

var _ Source = (*HMACSource)(nil)

// NewHMACSource creates a source positioned at the first byte of round 0.
func NewHMACSource(seed, salt string, nonce uint64) *HMACSource {
	hs := &HMACSource{
		seed:  seed,
		salt:  salt,
		nonce: nonce,
	}
	hs.generateRound()
	return hs
}

// IntN consumes 4 bytes and scales the resulting float into [0, n).
func (hs *HMACSource) IntN(n int) int {
	if n <= 0 {
		panic("dice: IntN called with non-positive n")
	}
	v := int(hs.nextFloat() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

func (hs *HMACSource) next() byte {
	if hs.currentPos >= len(hs.buffer) {
		hs.currentRound++
		hs.currentPos = 0
		hs.generateRound()
	}
	b := hs.buffer[hs.currentPos]
	hs.currentPos++
	return b
}

// nextFloat converts 4 bytes into a float in [0, 1) by summing b[i]/256^(i+1).
func (hs *HMACSource) nextFloat() float64 {
	result := 0.0
	divider := 1.0
	for range 4 {
		divider *= 256
		result += float64(hs.next()) / divider
	}
	return result
}

func (hs *HMACSource) generateRound() {
	h := hmac.New(sha256.New, []byte(hs.seed))
	fmt.Fprintf(h, "%s:%d:%d", hs.salt, hs.nonce, hs.currentRound)
	copy(hs.buffer[:], h.Sum(nil))
}
