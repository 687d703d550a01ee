package dupecheck

import (
	"testing"
	"time"
	"unsafe"
)

func TestTimeWall_RoundTrip(t *testing.T) {
	testTimes := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2006, 1, 2, 15, 4, 5, 123456789, time.UTC),
		time.Date(2026, 8, 27, 12, 0, 0, 999999999, time.UTC),
		time.Date(1900, 6, 15, 8, 30, 0, 1, time.UTC),
	}

	for _, original := range testTimes {
		wall := timeWall(original)
		restored := timeFromWall(wall)

		if !restored.Equal(original) {
			t.Errorf("Round trip failed for %v: got %v", original, restored)
		}
	}
}

func TestTimeWall_Ordering(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Nanosecond)

	if timeWall(earlier) >= timeWall(later) {
		t.Error("Expected wall encoding to preserve ordering at nanosecond granularity")
	}
}

func TestTimeWall_DistinguishesNanoseconds(t *testing.T) {
	base := time.Date(2024, 5, 5, 5, 5, 5, 0, time.UTC)
	shifted := base.Add(500 * time.Nanosecond)

	if timeWall(base) == timeWall(shifted) {
		t.Error("Expected different nanoseconds to produce different wall values")
	}
}

func TestAlignedBuffer(t *testing.T) {
	for _, n := range []int{1, 7, 8, 88, 96, 1000} {
		buf := alignedBuffer(n)
		if len(buf) != n {
			t.Errorf("Expected buffer length %d, got %d", n, len(buf))
		}
		if uintptr(unsafe.Pointer(&buf[0]))%8 != 0 {
			t.Errorf("Expected 8-byte aligned buffer for n=%d", n)
		}
	}
}

func TestHexDigest(t *testing.T) {
	digest := []byte{0x00, 0x0f, 0xab, 0xff}
	expected := "000fabff"

	if got := hexDigest(digest); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	if got := hexDigest(nil); got != "" {
		t.Errorf("Expected empty string for nil digest, got %q", got)
	}
}
