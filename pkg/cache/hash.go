package cache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// hashKey joins prefix with the hash of parts. Parts are length-prefixed so
// that different splits of the same text give different keys.
func hashKey(prefix string, parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(strconv.Itoa(len(p)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(p)
	}
	return prefix + ":" + strconv.FormatUint(d.Sum64(), 16)
}

// Hash returns the xxhash of data as 16 hex digits.
func Hash(data []byte) string {
	s := strconv.FormatUint(xxhash.Sum64(data), 16)
	for len(s) < 16 {
		s = "0" + s
	}
	return s
}
