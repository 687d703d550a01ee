package dupecheck

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file %s: %v", name, err)
	}
	return path
}

func TestGetHashAlgorithm(t *testing.T) {
	tests := []struct {
		name   string
		typeID uint16
		size   int
	}{
		{"sha1", HashTypeSHA1, HashSizeSHA1},
		{"sha256", HashTypeSHA256, HashSizeSHA256},
		{"sha512", HashTypeSHA512, HashSizeSHA512},
		{"SHA256", HashTypeSHA256, HashSizeSHA256}, // case-insensitive
	}

	for _, tt := range tests {
		algorithm, err := GetHashAlgorithm(tt.name)
		if err != nil {
			t.Errorf("GetHashAlgorithm(%q) failed: %v", tt.name, err)
			continue
		}
		if algorithm.TypeID != tt.typeID {
			t.Errorf("Expected type ID %d for %q, got %d", tt.typeID, tt.name, algorithm.TypeID)
		}
		if algorithm.Size != tt.size {
			t.Errorf("Expected size %d for %q, got %d", tt.size, tt.name, algorithm.Size)
		}
	}

	if _, err := GetHashAlgorithm("md5"); err == nil {
		t.Error("Expected error for unsupported algorithm")
	}
}

func TestHashFile(t *testing.T) {
	tempDir := t.TempDir()
	content := []byte("the quick brown fox jumps over the lazy dog")
	path := writeTestFile(t, tempDir, "fox.txt", content)

	algorithm, err := GetHashAlgorithm("sha256")
	if err != nil {
		t.Fatalf("GetHashAlgorithm failed: %v", err)
	}

	digest, err := HashFile(path, algorithm)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}

	expected := sha256.Sum256(content)
	if !bytes.Equal(digest, expected[:]) {
		t.Errorf("Expected digest %x, got %x", expected, digest)
	}
}

func TestHashFile_Empty(t *testing.T) {
	tempDir := t.TempDir()
	path := writeTestFile(t, tempDir, "empty.txt", nil)

	algorithm, _ := GetHashAlgorithm("sha256")
	digest, err := HashFile(path, algorithm)
	if err != nil {
		t.Fatalf("HashFile failed on empty file: %v", err)
	}

	expected := sha256.Sum256(nil)
	if !bytes.Equal(digest, expected[:]) {
		t.Errorf("Expected empty-file digest %x, got %x", expected, digest)
	}
}

func TestHashFile_Missing(t *testing.T) {
	algorithm, _ := GetHashAlgorithm("sha256")
	if _, err := HashFile("/nonexistent/path/to/file", algorithm); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestHashFileInterruptible(t *testing.T) {
	tempDir := t.TempDir()
	content := bytes.Repeat([]byte("abcdefgh"), 1024)
	path := writeTestFile(t, tempDir, "data.bin", content)

	algorithm, _ := GetHashAlgorithm("sha256")

	// Small buffer forces multiple read iterations
	digest, err := HashFileInterruptible(path, algorithm, 256, make(chan struct{}))
	if err != nil {
		t.Fatalf("HashFileInterruptible failed: %v", err)
	}

	expected := sha256.Sum256(content)
	if !bytes.Equal(digest, expected[:]) {
		t.Errorf("Expected digest %x, got %x", expected, digest)
	}
}

func TestHashFileInterruptible_Shutdown(t *testing.T) {
	tempDir := t.TempDir()
	path := writeTestFile(t, tempDir, "data.bin", []byte("content"))

	algorithm, _ := GetHashAlgorithm("sha256")

	shutdownChan := make(chan struct{})
	close(shutdownChan)

	if _, err := HashFileInterruptible(path, algorithm, 256, shutdownChan); err == nil {
		t.Error("Expected error when shutdown channel is already closed")
	}
}

func TestAlgorithmDigestFunc(t *testing.T) {
	tempDir := t.TempDir()
	content := []byte("digest func content")
	path := writeTestFile(t, tempDir, "file.txt", content)

	algorithm, _ := GetHashAlgorithm("sha1")
	digestFn := AlgorithmDigestFunc(algorithm, nil)

	digest, hashType, err := digestFn(path)
	if err != nil {
		t.Fatalf("DigestFunc failed: %v", err)
	}
	if hashType != HashTypeSHA1 {
		t.Errorf("Expected hash type %d, got %d", HashTypeSHA1, hashType)
	}
	if len(digest) != HashSizeSHA1 {
		t.Errorf("Expected %d-byte digest, got %d", HashSizeSHA1, len(digest))
	}
}

func TestDefaultDigestFunc(t *testing.T) {
	tempDir := t.TempDir()
	content := []byte("default digest content")
	path := writeTestFile(t, tempDir, "file.txt", content)

	digest, hashType, err := DefaultDigestFunc(nil)(path)
	if err != nil {
		t.Fatalf("DefaultDigestFunc failed: %v", err)
	}
	if hashType != HashTypeSHA256 {
		t.Errorf("Expected SHA-256 default, got type %d", hashType)
	}

	expected := sha256.Sum256(content)
	if !bytes.Equal(digest, expected[:]) {
		t.Errorf("Expected digest %x, got %x", expected, digest)
	}
}
