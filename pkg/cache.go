package dupecheck

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/google/vectorio"
	zcsl "github.com/mattkeenan/zerocopyskiplist"
	"golang.org/x/sys/unix"
)

// cacheHeader is the fixed store file header, cast directly over store
// memory in host byte order. ByteOrder MUST be checked before any other
// multi-byte field is trusted.
type cacheHeader struct {
	Signature    [4]byte // "dupc"
	_            [4]byte
	ByteOrder    uint64 // byte order detection magic (0x0102030405060708)
	Version      uint32 // store format version
	EntryCount   uint32 // number of records
	ChecksumType uint16 // checksum algorithm type
	Flags        uint16 // reserved
	_            [4]byte
	Checksum     [20]byte // SHA-1 of header prefix + record payload
	_            [12]byte
}

var _ = [1]struct{}{}[unsafe.Sizeof(cacheHeader{})-HeaderSize]

// Cache maps file identities to FileRecords. Records are held in a skiplist
// sorted by identity so the persisted store and all iteration are
// deterministic. A Cache is owned by a single run; it is not safe for
// concurrent use.
type Cache struct {
	storePath string
	disabled  bool
	records   *zcsl.ZeroCopySkiplist[FileRecord, string, string]

	hits        uint64
	computes    uint64
	bytesHashed uint64
}

func newRecordSkiplist() *zcsl.ZeroCopySkiplist[FileRecord, string, string] {
	return zcsl.MakeZeroCopySkiplist[FileRecord, string, string](
		16,
		func(rec *FileRecord) string { return rec.Identity },
		func(rec *FileRecord) int { return rec.encodedSize() },
		func(a, b string) int { return strings.Compare(a, b) },
	)
}

// NewCache creates a cache backed by the store file at storePath. An empty
// storePath disables caching entirely: Load and Save become no-ops and
// LookupOrCompute always computes fresh.
func NewCache(storePath string) *Cache {
	return &Cache{
		storePath: storePath,
		disabled:  storePath == "",
		records:   newRecordSkiplist(),
	}
}

// Disabled reports whether this cache persists anything
func (c *Cache) Disabled() bool {
	return c.disabled
}

// StorePath returns the persisted store path ("" when disabled)
func (c *Cache) StorePath() string {
	return c.storePath
}

// Len returns the number of records currently held
func (c *Cache) Len() int {
	return c.records.Length()
}

// Stats returns cache hit and digest computation counters for this run
func (c *Cache) Stats() (hits, computes, bytesHashed uint64) {
	return c.hits, c.computes, c.bytesHashed
}

// ForEach iterates all records in identity order with their context
func (c *Cache) ForEach(callback func(rec *FileRecord, context string) bool) {
	for node := c.records.First(); node != nil; node = node.Next() {
		if !callback(node.Item(), node.Context()) {
			break
		}
	}
}

// Lookup returns the record for identity, or nil
func (c *Cache) Lookup(identity string) *FileRecord {
	node, _ := c.records.Find(identity)
	if node == nil {
		return nil
	}
	return node.Item()
}

// put inserts or replaces the record for rec.Identity
func (c *Cache) put(rec *FileRecord, context string) {
	c.records.Delete(rec.Identity)
	c.records.Insert(rec, context)
}

// LookupOrCompute returns the content digest for identity. When a record
// exists whose stored size, modification time and hash type exactly match
// info and hashType, the stored digest is returned without touching file
// content; otherwise digestFn computes a fresh digest and the record is
// replaced. This is the central optimization: repeated runs over an
// unchanged tree perform zero content reads. A record from a different
// hash algorithm is stale even for an unchanged file, since digests from
// two algorithms never compare equal.
func (c *Cache) LookupOrCompute(identity string, info os.FileInfo, hashType uint16, digestFn DigestFunc) ([]byte, uint16, error) {
	size := uint64(info.Size())
	mtime := timeWall(info.ModTime())

	if !c.disabled {
		if node, _ := c.records.Find(identity); node != nil {
			rec := node.Item()
			if rec.Matches(size, mtime) && rec.HashType == hashType {
				c.records.UpdateContext(identity, SeenContext)
				c.hits++
				if IsDebugEnabled("cache") {
					VerboseLog(3, "cache hit: %s", identity)
				}
				return rec.Digest, rec.HashType, nil
			}
			if IsDebugEnabled("cache") {
				VerboseLog(3, "cache stale: %s", identity)
			}
		}
	}

	digest, hashType, err := digestFn(identity)
	if err != nil {
		return nil, 0, err
	}
	c.computes++
	c.bytesHashed += size

	if !c.disabled {
		c.put(&FileRecord{
			Identity:  identity,
			FileSize:  size,
			MTimeWall: mtime,
			HashType:  hashType,
			Digest:    digest,
		}, SeenContext)
	}

	return digest, hashType, nil
}

// Load restores records from the persisted store. It fails softly: an
// absent, unreadable, corrupt or incompatible store leaves the cache empty
// (full rescan) with a warning on the diagnostic stream, never an error.
func (c *Cache) Load() {
	if c.disabled {
		return
	}

	file, err := os.Open(c.storePath)
	if err != nil {
		if os.IsNotExist(err) {
			VerboseLog(1, "no cache store at %s, starting empty", c.storePath)
		} else {
			Warn("cannot open cache store %s: %v", c.storePath, err)
		}
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		Warn("cannot stat cache store %s: %v", c.storePath, err)
		return
	}
	if stat.Size() < HeaderSize {
		Warn("cache store %s too small (%d bytes), ignoring", c.storePath, stat.Size())
		return
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(stat.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		Warn("cannot map cache store %s: %v", c.storePath, err)
		return
	}
	defer unix.Munmap(data)

	if err := c.loadFromStore(data); err != nil {
		Warn("ignoring cache store %s: %v", c.storePath, err)
		c.records = newRecordSkiplist()
	}
}

// loadFromStore validates the mapped store and copies its records to the heap
func (c *Cache) loadFromStore(data []byte) error {
	header := (*cacheHeader)(unsafe.Pointer(&data[0]))

	if header.Signature != cacheSignature {
		return fmt.Errorf("invalid signature %q", string(header.Signature[:]))
	}
	if header.ByteOrder != ByteOrderMagic {
		return fmt.Errorf("byte order mismatch: store 0x%016x, host 0x%016x",
			header.ByteOrder, ByteOrderMagic)
	}
	if header.Version != CurrentCacheVersion {
		return fmt.Errorf("unsupported store version %d (expected %d)",
			header.Version, CurrentCacheVersion)
	}
	if err := validateStoreChecksum(header, data[HeaderSize:]); err != nil {
		return err
	}

	offset := HeaderSize
	for i := uint32(0); i < header.EntryCount; i++ {
		rec, n, err := decodeRecord(data[offset:])
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		c.records.Insert(rec, LoadedContext)
		offset += n
	}

	VerboseLog(1, "loaded %d cache records from %s", c.records.Length(), c.storePath)
	return nil
}

// validateStoreChecksum checks the header checksum against header prefix and payload
func validateStoreChecksum(header *cacheHeader, payload []byte) error {
	hasher := sha1.New()
	headerBytes := (*[HeaderSize]byte)(unsafe.Pointer(header))
	hasher.Write(headerBytes[:unsafe.Offsetof(header.Checksum)])
	hasher.Write(payload)

	expected := hasher.Sum(nil)
	if !bytes.Equal(expected, header.Checksum[:]) {
		return fmt.Errorf("checksum mismatch: expected %x, got %x", expected, header.Checksum[:])
	}
	return nil
}

// Save persists all current records, writing a temp file in the store's
// directory and renaming it into place so an interrupted save never
// corrupts the previous store. Records whose file was not observed during
// this run are dropped when the file no longer exists on disk: the cache
// only remembers what was last observed to exist.
func (c *Cache) Save() error {
	if c.disabled {
		return nil
	}

	var buffers [][]byte
	for node := c.records.First(); node != nil; node = node.Next() {
		rec := node.Item()
		if node.Context() != SeenContext {
			info, err := os.Lstat(rec.Identity)
			if err != nil || !info.Mode().IsRegular() {
				if IsDebugEnabled("cache") {
					VerboseLog(3, "dropping vanished record: %s", rec.Identity)
				}
				continue
			}
		}
		buffers = append(buffers, rec.encode())
	}

	header := cacheHeader{
		Signature:    cacheSignature,
		ByteOrder:    ByteOrderMagic,
		Version:      CurrentCacheVersion,
		EntryCount:   uint32(len(buffers)),
		ChecksumType: HashTypeSHA1,
	}

	// Checksum is computed over the in-memory payload before anything is
	// written, so the whole store goes out in one pass.
	hasher := sha1.New()
	headerBytes := (*[HeaderSize]byte)(unsafe.Pointer(&header))
	hasher.Write(headerBytes[:unsafe.Offsetof(header.Checksum)])
	payloadSize := 0
	for _, buf := range buffers {
		hasher.Write(buf)
		payloadSize += len(buf)
	}
	copy(header.Checksum[:], hasher.Sum(nil))

	tempPath := fmt.Sprintf("%s.tmp-%d", c.storePath, os.Getpid())
	if err := c.writeStore(tempPath, headerBytes, buffers, payloadSize); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, c.storePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move cache store into place: %w", err)
	}

	VerboseLog(1, "saved %d cache records to %s", len(buffers), c.storePath)
	return nil
}

// writeStore writes header and record buffers to path using vectored I/O
func (c *Cache) writeStore(path string, headerBytes *[HeaderSize]byte, buffers [][]byte, payloadSize int) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp cache store %s: %w", path, err)
	}
	defer file.Close()

	headerIovec := syscall.Iovec{
		Base: &headerBytes[0],
		Len:  uint64(HeaderSize),
	}
	if nw, err := vectorio.WritevRaw(uintptr(file.Fd()), []syscall.Iovec{headerIovec}); err != nil {
		return fmt.Errorf("failed to write store header: %w", err)
	} else if nw != HeaderSize {
		return fmt.Errorf("header write incomplete: wrote %d bytes, expected %d", nw, HeaderSize)
	}

	if len(buffers) > 0 {
		iovecs := make([]syscall.Iovec, len(buffers))
		for i, buf := range buffers {
			iovecs[i] = syscall.Iovec{
				Base: &buf[0],
				Len:  uint64(len(buf)),
			}
		}

		// Chunk to respect IOV_MAX (conservative default per golang/go#58623)
		const maxIovecs = 1024
		totalWritten := 0
		for offset := 0; offset < len(iovecs); offset += maxIovecs {
			end := offset + maxIovecs
			if end > len(iovecs) {
				end = len(iovecs)
			}
			nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs[offset:end])
			if err != nil {
				return fmt.Errorf("failed to write store records: %w", err)
			}
			totalWritten += nw
		}
		if totalWritten != payloadSize {
			return fmt.Errorf("record write incomplete: wrote %d bytes, expected %d", totalWritten, payloadSize)
		}
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp cache store: %w", err)
	}

	return nil
}
