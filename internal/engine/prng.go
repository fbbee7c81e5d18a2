package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Source is the randomness used by demand generation and event firing.
// Stream implements it; tests substitute fixed sequences.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// SeedFromString returns a 64-bit seed from an arbitrary string using SHA256.
func SeedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// Derive returns a deterministic child seed from a base seed and a stable label
// such as "month:1445-02:events".
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// CampaignSeed is the canonical seed text of a campaign and the root of all its streams.
type CampaignSeed struct {
	Text string
	root uint64
}

// NewCampaignSeed creates a deterministic CampaignSeed. Empty text is rejected.
func NewCampaignSeed(seedText string) (CampaignSeed, error) {
	if seedText == "" {
		return CampaignSeed{}, fmt.Errorf("seed text must not be empty")
	}
	return CampaignSeed{Text: seedText, root: SeedFromString(seedText)}, nil
}

// Stream returns a deterministic stream for label.
func (c CampaignSeed) Stream(label string) *Stream {
	return newStream(Derive(c.root, label))
}

// MonthStream is the stream used for everything rolled on a month tick.
func (c CampaignSeed) MonthStream(date, purpose string) *Stream {
	y, mo, _, ok := parseDate(date)
	if !ok {
		return c.Stream("month:invalid:" + purpose)
	}
	return c.Stream(fmt.Sprintf("month:%04d-%02d:%s", y, mo, purpose))
}

// SplitMix64 PRNG implementation for deterministic streams.
type SplitMix64 struct{ state uint64 }

func newSplitMix64(seed uint64) *SplitMix64 { return &SplitMix64{state: seed} }

func (s *SplitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Stream provides deterministic random numbers with labelled child streams.
type Stream struct {
	base uint64
	sm   *SplitMix64
}

func newStream(seed uint64) *Stream {
	return &Stream{base: seed, sm: newSplitMix64(seed)}
}

// Intn returns a value in [0,n); 0 when n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.sm.next() % uint64(n))
}

// Float64 returns a float in [0,1).
func (s *Stream) Float64() float64 { return float64(s.sm.next()>>11) / (1 << 53) }

// Uint64 exposes the raw 64-bit output.
func (s *Stream) Uint64() uint64 { return s.sm.next() }

// Child creates a stable sub-stream derived from this stream's base seed and label.
func (s *Stream) Child(label string) *Stream { return newStream(Derive(s.base, label)) }
