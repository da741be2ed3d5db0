// Package input reads the whitespace-separated integer streams the
// tally programs consume. Unlike the usual scanf-and-hope approach, a
// short or malformed stream surfaces as an error with the token
// position, never as silently uninitialized values.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	// ErrMalformedInput is returned when a token is missing or is not
	// an integer of the expected shape.
	ErrMalformedInput = errors.New("malformed input")
)

// Reader tokenizes an integer stream.
type Reader struct {
	scanner *bufio.Scanner
	pos     int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &Reader{scanner: scanner}
}

// next returns the next token or ErrMalformedInput if the stream ends.
func (r *Reader) next() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("read failed at token %d: %w", r.pos, err)
		}
		return "", fmt.Errorf("%w: stream ended at token %d", ErrMalformedInput, r.pos)
	}
	r.pos++
	return r.scanner.Text(), nil
}

// Int reads the next token as a signed 64-bit integer.
func (r *Reader) Int() (int64, error) {
	tok, err := r.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: token %d %q is not an integer", ErrMalformedInput, r.pos, tok)
	}
	return v, nil
}

// Count reads the next token as a non-negative element count.
func (r *Reader) Count() (int, error) {
	v, err := r.Int()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: element count %d is negative", ErrMalformedInput, v)
	}
	return int(v), nil
}

// Arity reads the next token as a heap branching factor.
func (r *Reader) Arity() (int, error) {
	v, err := r.Int()
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, fmt.Errorf("%w: arity %d is less than 1", ErrMalformedInput, v)
	}
	return int(v), nil
}

// Values reads exactly n integers.
func (r *Reader) Values(n int) ([]int64, error) {
	out := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.Int()
		if err != nil {
			return nil, fmt.Errorf("reading value %d of %d: %w", i+1, n, err)
		}
		out = append(out, v)
	}
	return out, nil
}
