package randsrc

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// Source supplies the randomness used by template selection and session
// shuffling. All randomness in the engine flows through a single Source so
// callers can substitute a seeded implementation for reproducible runs.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n). Panics if n <= 0.
	Intn(n int) int
}

type seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a deterministic Source for the given seed.
func NewSeeded(seed int64) Source {
	return &seeded{r: rand.New(rand.NewSource(seed))}
}

// System returns a Source seeded from the operating system's entropy pool
// (the current time if that read fails), for callers that don't need
// reproducibility.
func System() Source {
	seed := time.Now().UnixNano()
	var b [8]byte
	if _, err := crand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return &seeded{r: rand.New(rand.NewSource(seed))}
}

func (s *seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Shuffle performs an in-place Fisher-Yates shuffle of n elements using src.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}
