package dupecheck

import "strings"

// DefaultCacheName is the cache store filename used when no explicit path is given
const DefaultCacheName = ".dupecache"

// Cache store format constants
const (
	HeaderSize          = 64 // signature(4) + pad(4) + byte_order(8) + version(4) + entry_count(4) + checksum_type(2) + flags(2) + pad(4) + checksum(20) + pad(12)
	RecordHeaderSize    = 88 // size(4) + hash_type(2) + flags(2) + file_size(8) + mtime_wall(8) + digest(64)
	CurrentCacheVersion = 1  // Current cache store format version
)

// Byte order magic for store format validation; records are written in host
// byte order and the store is rejected when read on a foreign-endian machine
const ByteOrderMagic uint64 = 0x0102030405060708

// cacheSignature identifies a dupecheck cache store
var cacheSignature = [4]byte{'d', 'u', 'p', 'c'}

// Hash type constants
const (
	HashTypeSHA1   uint16 = 1 // SHA-1 (20 bytes)
	HashTypeSHA256 uint16 = 2 // SHA-256 (32 bytes)
	HashTypeSHA512 uint16 = 3 // SHA-512 (64 bytes)
)

// Hash size constants
const (
	HashSizeSHA1   = 20 // SHA-1 digest size in bytes
	HashSizeSHA256 = 32 // SHA-256 digest size in bytes
	HashSizeSHA512 = 64 // SHA-512 digest size in bytes
)

// DefaultHashBuffer is the read buffer size for interruptible hashing
const DefaultHashBuffer = 2 * 1024 * 1024

// Skiplist contexts tracking where a cache record came from within one run
const (
	LoadedContext = "loaded" // record restored from the persisted store
	SeenContext   = "seen"   // record observed on disk during this run
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeSHA1:
		return "sha1"
	case HashTypeSHA256:
		return "sha256"
	case HashTypeSHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "sha1":
		return HashTypeSHA1, true
	case "sha256":
		return HashTypeSHA256, true
	case "sha512":
		return HashTypeSHA512, true
	default:
		return 0, false
	}
}

// GetHashSize returns the digest size in bytes for a hash type
func GetHashSize(hashType uint16) int {
	switch hashType {
	case HashTypeSHA1:
		return HashSizeSHA1
	case HashTypeSHA256:
		return HashSizeSHA256
	case HashTypeSHA512:
		return HashSizeSHA512
	default:
		return 0
	}
}
