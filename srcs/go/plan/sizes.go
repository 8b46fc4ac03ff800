package plan

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrInvalidStart = errors.New("start must be positive")
	ErrInvalidJump  = errors.New("jump must be positive")
	errInvalidSize  = errors.New("invalid cluster size")
)

// Sizes is an ascending list of cluster sizes to benchmark.
type Sizes []int

func (s Sizes) String() string {
	var ss []string
	for _, n := range s {
		ss = append(ss, strconv.Itoa(n))
	}
	return strings.Join(ss, ",")
}

// Linear returns start, start+jump, ... up to but excluding end.
func Linear(start, end, jump int) (Sizes, error) {
	if start < 1 {
		return nil, ErrInvalidStart
	}
	if jump < 1 {
		return nil, ErrInvalidJump
	}
	var s Sizes
	for n := start; n < end; n += jump {
		s = append(s, n)
		if n > end-jump {
			break
		}
	}
	return s, nil
}

// PowerOfTwo returns the powers of two in [start, end). A start that is not
// itself a power of two is not included.
func PowerOfTwo(start, end int) (Sizes, error) {
	if start < 1 {
		return nil, ErrInvalidStart
	}
	var s Sizes
	for n := 1; n < end; n *= 2 {
		if n >= start {
			s = append(s, n)
		}
		if n > end/2 {
			break
		}
	}
	return s, nil
}

func New(start, end, jump int, power2 bool) (Sizes, error) {
	if power2 {
		return PowerOfTwo(start, end)
	}
	return Linear(start, end, jump)
}

// ParseSizes parses an explicit comma separated list, e.g. 1,2,4,16.
func ParseSizes(line string) (Sizes, error) {
	seen := make(map[int]struct{})
	var s Sizes
	for _, f := range strings.Split(line, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", errInvalidSize, f, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("%w %q", errInvalidSize, f)
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		s = append(s, n)
	}
	sort.Ints(s)
	return s, nil
}

func (s *Sizes) Set(val string) error {
	v, err := ParseSizes(val)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
