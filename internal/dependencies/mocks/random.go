package mocks

import "github.com/mcoot/mtlobby/internal/dependencies/random"

// MockRandom is a deterministic Random for testing.
// Queued byte slices are returned first; once exhausted it fills with Fill.
type MockRandom struct {
	BytesResults [][]byte
	bytesIndex   int

	// Fill is the byte used when no queued result is left
	Fill byte
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{Fill: 'x'}
}

// Bytes returns the next queued result resized to n, or n Fill bytes
func (r *MockRandom) Bytes(n int) []byte {
	out := make([]byte, n)
	if r.bytesIndex < len(r.BytesResults) {
		copy(out, r.BytesResults[r.bytesIndex])
		r.bytesIndex++
		return out
	}
	for i := range out {
		out[i] = r.Fill
	}
	return out
}

// QueueBytes adds values to the Bytes result queue
func (r *MockRandom) QueueBytes(values ...[]byte) {
	r.BytesResults = append(r.BytesResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.BytesResults = nil
	r.bytesIndex = 0
}
