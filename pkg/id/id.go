// Package id mints ULID strings for run and trade identifiers. ULIDs
// sort lexicographically by creation time, so journal rows ordered by
// ID come back chronologically without a separate sequence column.
package id

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader
)

func init() {
	// A PRNG seeded from crypto/rand keeps minting cheap while staying
	// unpredictable. Monotonic entropy keeps IDs minted within the same
	// millisecond strictly increasing.
	var seed int64
	if err := binary.Read(cryptorand.Reader, binary.LittleEndian, &seed); err != nil || seed == 0 {
		seed = time.Now().UnixNano()
	}
	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New mints one ULID string.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
