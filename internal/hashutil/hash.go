package hashutil

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/valyala/fastrand"
)

// SerializedSha1FromTime hashes the current nanosecond timestamp mixed
// with a random salt, giving an opaque identifier that is cheap to
// produce and unique enough for room codes.
func SerializedSha1FromTime() string {
	buf := strconv.AppendInt(nil, time.Now().UnixNano(), 10)
	buf = strconv.AppendUint(buf, uint64(fastrand.Uint32()), 10)
	hash := sha1.Sum(buf)
	return hex.EncodeToString(hash[:])
}

// ShortCode returns an n-character code suitable for invite links.
func ShortCode(n int) string {
	s := SerializedSha1FromTime()
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}
