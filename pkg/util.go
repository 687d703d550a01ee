package dupecheck

import (
	"time"
	"unsafe"
)

// timeWall converts a time.Time to a uint64 wall time format for storage.
// Custom format: 34 bits seconds since Jan 1, 1885 + 30 bits nanoseconds.
// NOTE: Does not handle files with dates before 1885 (will underflow).
// Range: Jan 1, 1885 to approximately year 2429.
func timeWall(t time.Time) uint64 {
	// Unix epoch (1970-01-01) is 2682374400 seconds after Jan 1, 1885
	const unixTo1885 = 2682374400

	sec := t.Unix() + unixTo1885
	nsec := int64(t.Nanosecond())

	return (uint64(sec) << 30) | uint64(nsec)
}

// timeFromWall reconstructs a time.Time from wall time format
func timeFromWall(wall uint64) time.Time {
	const unixTo1885 = 2682374400

	nsec := int64(wall & 0x3FFFFFFF) // 30 bits for nanoseconds
	sec := int64(wall>>30) - unixTo1885

	return time.Unix(sec, nsec)
}

// alignedBuffer returns an n-byte slice whose backing array is 8-byte
// aligned, so a record header struct can be laid over it directly. Plain
// make([]byte, n) carries no alignment guarantee.
func alignedBuffer(n int) []byte {
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}

// hexDigest renders a digest as lowercase hex without allocation churn
func hexDigest(digest []byte) string {
	const hexChars = "0123456789abcdef"
	result := make([]byte, len(digest)*2)
	for i, b := range digest {
		result[i*2] = hexChars[b>>4]
		result[i*2+1] = hexChars[b&0xf]
	}
	return string(result)
}
