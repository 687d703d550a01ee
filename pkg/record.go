package dupecheck

import (
	"fmt"
	"os"
	"unsafe"
)

// FileRecord is the persisted unit of knowledge about one file. The digest
// is trusted only while FileSize and MTimeWall still match the filesystem;
// any mismatch invalidates it and forces recomputation.
type FileRecord struct {
	Identity  string // canonical absolute path; the cache key
	FileSize  uint64
	MTimeWall uint64 // modification time in wall encoding (see util.go)
	HashType  uint16
	Digest    []byte
}

// recordHeader is the fixed prefix of a serialized record, laid directly
// over store memory in host byte order. The identity path follows the
// header, NUL-terminated and padded to 8 bytes.
type recordHeader struct {
	Size      uint32 // total record size including path and padding - MUST BE FIRST
	HashType  uint16
	Flags     uint16 // reserved
	FileSize  uint64
	MTimeWall uint64
	Digest    [64]byte // digest value (up to 64 bytes for SHA-512)
}

// Build-time assertions for struct layout assumptions
var (
	_ = [1]struct{}{}[unsafe.Sizeof(recordHeader{})-RecordHeaderSize]
	_ = [1]struct{}{}[unsafe.Sizeof(recordHeader{})%8]
)

// Matches reports whether the record's cached digest is still valid for the
// given current size and modification time
func (fr *FileRecord) Matches(size uint64, mtimeWall uint64) bool {
	return fr.FileSize == size && fr.MTimeWall == mtimeWall
}

// MatchesInfo is Matches against a live os.FileInfo
func (fr *FileRecord) MatchesInfo(info os.FileInfo) bool {
	return fr.Matches(uint64(info.Size()), timeWall(info.ModTime()))
}

// DigestString returns the digest as lowercase hex
func (fr *FileRecord) DigestString() string {
	return hexDigest(fr.Digest)
}

// encodedSize returns the serialized record size including the
// NUL terminator and 8-byte alignment padding
func (fr *FileRecord) encodedSize() int {
	total := RecordHeaderSize + len(fr.Identity) + 1
	padding := (8 - (total % 8)) % 8
	return total + padding
}

// encode serializes the record into a fresh 8-byte-aligned buffer whose
// layout matches the on-disk store format
func (fr *FileRecord) encode() []byte {
	buf := alignedBuffer(fr.encodedSize())
	hdr := (*recordHeader)(unsafe.Pointer(&buf[0]))
	hdr.Size = uint32(len(buf))
	hdr.HashType = fr.HashType
	hdr.FileSize = fr.FileSize
	hdr.MTimeWall = fr.MTimeWall
	copy(hdr.Digest[:], fr.Digest)
	copy(buf[RecordHeaderSize:], fr.Identity)
	return buf
}

// decodeRecord reads one record from the start of data (store memory after
// the header) and returns the record and its total encoded size. The
// identity string is copied to the heap: the store mapping is unmapped
// after load.
func decodeRecord(data []byte) (*FileRecord, int, error) {
	if len(data) < RecordHeaderSize {
		return nil, 0, fmt.Errorf("truncated record: %d bytes remain, header needs %d", len(data), RecordHeaderSize)
	}

	hdr := (*recordHeader)(unsafe.Pointer(&data[0]))
	size := int(hdr.Size)
	if size < RecordHeaderSize+8 || size > len(data) || size%8 != 0 {
		return nil, 0, fmt.Errorf("invalid record size %d", size)
	}

	digestSize := GetHashSize(hdr.HashType)
	if digestSize == 0 {
		return nil, 0, fmt.Errorf("invalid hash type %d", hdr.HashType)
	}

	// Path is NUL-terminated within the padded tail; scan back from the end
	pathBytes := data[RecordHeaderSize:size]
	end := len(pathBytes)
	for end > 0 && pathBytes[end-1] == 0 {
		end--
	}
	if end == 0 {
		return nil, 0, fmt.Errorf("record has zero-length identity")
	}

	record := &FileRecord{
		Identity:  string(pathBytes[:end]),
		FileSize:  hdr.FileSize,
		MTimeWall: hdr.MTimeWall,
		HashType:  hdr.HashType,
		Digest:    append([]byte(nil), hdr.Digest[:digestSize]...),
	}
	return record, size, nil
}
