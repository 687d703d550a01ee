package dupecheck

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testRecord(identity string) *FileRecord {
	digest := sha256.Sum256([]byte(identity))
	return &FileRecord{
		Identity:  identity,
		FileSize:  1234,
		MTimeWall: timeWall(time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)),
		HashType:  HashTypeSHA256,
		Digest:    digest[:],
	}
}

func TestFileRecord_EncodeDecode(t *testing.T) {
	original := testRecord("/home/user/documents/report.pdf")

	encoded := original.encode()
	if len(encoded) != original.encodedSize() {
		t.Fatalf("Expected encoded length %d, got %d", original.encodedSize(), len(encoded))
	}
	if len(encoded)%8 != 0 {
		t.Errorf("Expected encoded record to be 8-byte aligned, got %d bytes", len(encoded))
	}

	decoded, n, err := decodeRecord(encoded)
	if err != nil {
		t.Fatalf("decodeRecord failed: %v", err)
	}
	if n != len(encoded) {
		t.Errorf("Expected consumed size %d, got %d", len(encoded), n)
	}

	if decoded.Identity != original.Identity {
		t.Errorf("Expected identity %q, got %q", original.Identity, decoded.Identity)
	}
	if decoded.FileSize != original.FileSize {
		t.Errorf("Expected file size %d, got %d", original.FileSize, decoded.FileSize)
	}
	if decoded.MTimeWall != original.MTimeWall {
		t.Errorf("Expected mtime %d, got %d", original.MTimeWall, decoded.MTimeWall)
	}
	if decoded.HashType != original.HashType {
		t.Errorf("Expected hash type %d, got %d", original.HashType, decoded.HashType)
	}
	if !bytes.Equal(decoded.Digest, original.Digest) {
		t.Errorf("Expected digest %x, got %x", original.Digest, decoded.Digest)
	}
}

func TestFileRecord_EncodedSizePadding(t *testing.T) {
	// Identity lengths straddling a padding boundary must all produce
	// 8-byte multiples
	for length := 1; length <= 16; length++ {
		rec := testRecord(string(bytes.Repeat([]byte{'a'}, length)))
		if rec.encodedSize()%8 != 0 {
			t.Errorf("Expected padded size for identity length %d, got %d", length, rec.encodedSize())
		}
		if rec.encodedSize() < RecordHeaderSize+length+1 {
			t.Errorf("Encoded size %d too small for identity length %d", rec.encodedSize(), length)
		}
	}
}

func TestDecodeRecord_Truncated(t *testing.T) {
	encoded := testRecord("/some/path").encode()

	if _, _, err := decodeRecord(encoded[:RecordHeaderSize-1]); err == nil {
		t.Error("Expected error for truncated header")
	}
	if _, _, err := decodeRecord(encoded[:len(encoded)-8]); err == nil {
		t.Error("Expected error when record size exceeds available data")
	}
}

func TestDecodeRecord_InvalidHashType(t *testing.T) {
	rec := testRecord("/some/path")
	rec.HashType = 99
	encoded := rec.encode()

	if _, _, err := decodeRecord(encoded); err == nil {
		t.Error("Expected error for unknown hash type")
	}
}

func TestFileRecord_Matches(t *testing.T) {
	rec := testRecord("/some/path")

	if !rec.Matches(rec.FileSize, rec.MTimeWall) {
		t.Error("Expected record to match its own size and mtime")
	}
	if rec.Matches(rec.FileSize+1, rec.MTimeWall) {
		t.Error("Expected size change to invalidate the record")
	}
	if rec.Matches(rec.FileSize, rec.MTimeWall+1) {
		t.Error("Expected mtime change to invalidate the record")
	}
}

func TestFileRecord_MatchesInfo(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "file.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat test file: %v", err)
	}

	rec := &FileRecord{
		Identity:  path,
		FileSize:  uint64(info.Size()),
		MTimeWall: timeWall(info.ModTime()),
		HashType:  HashTypeSHA256,
	}

	if !rec.MatchesInfo(info) {
		t.Error("Expected record built from info to match it")
	}

	// Bump the modification time; the record must go stale
	newTime := info.ModTime().Add(2 * time.Second)
	if err := os.Chtimes(path, newTime, newTime); err != nil {
		t.Fatalf("Failed to change file times: %v", err)
	}
	newInfo, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to re-stat test file: %v", err)
	}

	if rec.MatchesInfo(newInfo) {
		t.Error("Expected record to be stale after mtime change")
	}
}
