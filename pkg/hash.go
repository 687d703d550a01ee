package dupecheck

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// DigestFunc computes the whole-file content digest for a path. It is the
// injectable capability passed into Cache.LookupOrCompute so callers can
// substitute an alternate algorithm.
type DigestFunc func(path string) (digest []byte, hashType uint16, err error)

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return &HashAlgorithm{
			Name:    "sha1",
			TypeID:  HashTypeSHA1,
			Size:    HashSizeSHA1,
			NewFunc: func() hash.Hash { return sha1.New() },
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			TypeID:  HashTypeSHA256,
			Size:    HashSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			TypeID:  HashTypeSHA512,
			Size:    HashSizeSHA512,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	switch typeID {
	case HashTypeSHA1:
		return GetHashAlgorithm("sha1")
	case HashTypeSHA256:
		return GetHashAlgorithm("sha256")
	case HashTypeSHA512:
		return GetHashAlgorithm("sha512")
	default:
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
}

// HashFile calculates the hash of a file using the specified algorithm
func HashFile(filePath string, algorithm *HashAlgorithm) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := algorithm.NewFunc()
	if _, err := io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("failed to hash file %s: %w", filePath, err)
	}

	return hasher.Sum(nil), nil
}

// HashFileInterruptible calculates the hash of a file using a configurable
// buffer size and checks for a shutdown signal between buffer reads so a
// long hash of a large file can be interrupted promptly
func HashFileInterruptible(filePath string, algorithm *HashAlgorithm, bufferSize int, shutdownChan <-chan struct{}) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := algorithm.NewFunc()
	buffer := make([]byte, bufferSize)

	for {
		select {
		case <-shutdownChan:
			return nil, fmt.Errorf("hash operation interrupted by shutdown")
		default:
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return hasher.Sum(nil), nil
}

// DefaultDigestFunc returns a DigestFunc over SHA-256 whole-file hashing.
// When shutdownChan is non-nil the hashing is interruptible.
func DefaultDigestFunc(shutdownChan <-chan struct{}) DigestFunc {
	algorithm, _ := GetHashAlgorithm("sha256")
	return AlgorithmDigestFunc(algorithm, shutdownChan)
}

// AlgorithmDigestFunc adapts a HashAlgorithm into a DigestFunc
func AlgorithmDigestFunc(algorithm *HashAlgorithm, shutdownChan <-chan struct{}) DigestFunc {
	return func(path string) ([]byte, uint16, error) {
		var digest []byte
		var err error
		if shutdownChan != nil {
			digest, err = HashFileInterruptible(path, algorithm, DefaultHashBuffer, shutdownChan)
		} else {
			digest, err = HashFile(path, algorithm)
		}
		if err != nil {
			return nil, 0, err
		}
		return digest, algorithm.TypeID, nil
	}
}
