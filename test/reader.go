package test_test

import (
	"io"
)

// ReadResult is single scripted result for Reader.Read call.
type ReadResult struct {
	Read []byte
	Err  error
}

// Reader is scripted io.ReadWriter to simulate serial stream reads arriving in arbitrary
// chunks. After scripted reads are exhausted every Read returns io.EOF. Writes are recorded.
type Reader struct {
	Reads  []ReadResult
	Writes [][]byte

	readIndex int
}

func NewReader(reads []ReadResult) *Reader {
	return &Reader{Reads: reads}
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.readIndex >= len(r.Reads) {
		return 0, io.EOF
	}
	result := r.Reads[r.readIndex]
	r.readIndex++
	n := copy(p, result.Read)
	return n, result.Err
}

func (r *Reader) Write(p []byte) (int, error) {
	b := make([]byte, len(p))
	copy(b, p)
	r.Writes = append(r.Writes, b)
	return len(p), nil
}
