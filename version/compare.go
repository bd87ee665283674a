package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// release is a parsed "vMAJOR.MINOR.PATCH[-pre]" tag.
type release struct {
	parts [3]int
	pre   string
}

func parseRelease(s string) (release, error) {
	var r release

	core, pre, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "-")
	fields := strings.Split(core, ".")
	if len(fields) != len(r.parts) {
		return r, fmt.Errorf("malformed version %q", s)
	}

	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return r, fmt.Errorf("malformed version %q", s)
		}
		r.parts[i] = n
	}

	r.pre = pre
	return r, nil
}

// Compare orders two release tags: 1 if a is newer, -1 if b is newer, 0 otherwise.
// A pre-release sorts before the release it precedes.
func Compare(a, b string) (int, error) {
	ra, err := parseRelease(a)
	if err != nil {
		return 0, err
	}

	rb, err := parseRelease(b)
	if err != nil {
		return 0, err
	}

	for i := range ra.parts {
		if c := cmp.Compare(ra.parts[i], rb.parts[i]); c != 0 {
			return c, nil
		}
	}

	switch {
	case ra.pre == rb.pre:
		return 0, nil
	case ra.pre == "":
		return 1, nil
	case rb.pre == "":
		return -1, nil
	default:
		return cmp.Compare(ra.pre, rb.pre), nil
	}
}
