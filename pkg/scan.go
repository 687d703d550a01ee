package dupecheck

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanEntry is one regular file surviving exclusion, with its content digest
type ScanEntry struct {
	Identity string // canonical absolute path
	Digest   []byte
	HashType uint16
	FileSize uint64
}

// DigestString returns the entry's digest as lowercase hex
func (e *ScanEntry) DigestString() string {
	return hexDigest(e.Digest)
}

// Scanner walks the requested root paths, applies the exclude list, and for
// each surviving regular file obtains a (possibly cached) content digest via
// the Cache. The Scanner exclusively owns the Cache for the duration of one
// run.
type Scanner struct {
	exclude  *ExcludeList
	cache    *Cache
	digestFn DigestFunc
	hashType uint16

	shutdownChan <-chan struct{}
	progress     func(message string)

	filesScanned uint64
}

// NewScanner creates a scanner over the given exclude list and cache. The
// scanner assumes digestFn produces SHA-256 digests; when it produces
// another algorithm, declare it with SetHashType so cached records from a
// different algorithm are recomputed rather than trusted.
func NewScanner(exclude *ExcludeList, cache *Cache, digestFn DigestFunc) *Scanner {
	return &Scanner{
		exclude:  exclude,
		cache:    cache,
		digestFn: digestFn,
		hashType: HashTypeSHA256,
	}
}

// SetHashType declares the hash type digestFn produces
func (s *Scanner) SetHashType(hashType uint16) {
	s.hashType = hashType
}

// SetShutdownChan installs a channel whose close interrupts the scan
func (s *Scanner) SetShutdownChan(shutdownChan <-chan struct{}) {
	s.shutdownChan = shutdownChan
}

// SetProgress installs a callback invoked with the path of each scanned file
func (s *Scanner) SetProgress(progress func(path string)) {
	s.progress = progress
}

// FilesScanned returns the number of regular files examined so far
func (s *Scanner) FilesScanned() uint64 {
	return s.filesScanned
}

// Scan traverses each root in sorted order and emits one ScanEntry per
// surviving regular file, in traversal order. emit returning false stops
// the scan early. Per-entry I/O errors are logged and skip that entry only;
// Scan fails when interrupted or when no root path is usable at all.
func (s *Scanner) Scan(roots []string, emit func(entry *ScanEntry) bool) error {
	resolved, err := s.resolveRoots(roots)
	if err != nil {
		return err
	}

	for _, root := range resolved {
		stopped, err := s.scanRoot(root, emit)
		if err != nil {
			return err
		}
		if stopped {
			break
		}
	}
	return nil
}

// resolveRoots canonicalizes the requested roots, warns about unusable
// ones, and drops roots nested under an earlier root so no subtree is
// scanned twice. It fails only when no valid root remains.
func (s *Scanner) resolveRoots(roots []string) ([]string, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var resolved []string
	for _, root := range roots {
		absPath, err := filepath.Abs(root)
		if err != nil {
			Warn("skipping root %s: %v", root, err)
			continue
		}
		canonical, err := filepath.EvalSymlinks(absPath)
		if err != nil {
			Warn("skipping root %s: %v", root, err)
			continue
		}
		resolved = append(resolved, canonical)
	}

	if len(resolved) == 0 {
		return nil, fmt.Errorf("no valid root path to scan")
	}

	// Sort so parents come before children, then drop contained roots
	sort.Strings(resolved)
	var deduped []string
	for _, root := range resolved {
		redundant := false
		for _, kept := range deduped {
			if root == kept || strings.HasPrefix(root, kept+string(filepath.Separator)) {
				redundant = true
				break
			}
		}
		if !redundant {
			deduped = append(deduped, root)
		}
	}

	if IsDebugEnabled("scan") {
		VerboseLog(3, "scanning roots: %v", deduped)
	}
	return deduped, nil
}

// scanRoot performs an iterative traversal from one root. A queue of
// pending paths replaces recursion so arbitrarily deep trees cannot
// overflow the stack, and keeping the queue sorted yields files in
// lexicographic traversal order. stopped is true when emit ended the scan;
// the caller must not traverse any further roots.
func (s *Scanner) scanRoot(root string, emit func(entry *ScanEntry) bool) (stopped bool, err error) {
	pathQueue := []string{root}

	for len(pathQueue) > 0 {
		select {
		case <-s.shutdownChan:
			return false, fmt.Errorf("scan interrupted by shutdown")
		default:
		}

		currentPath := pathQueue[0]
		pathQueue = pathQueue[1:]

		info, err := os.Lstat(currentPath)
		if err != nil {
			// Vanished or inaccessible entry: skip it, keep scanning
			VerboseLog(2, "skipping %s: %v", currentPath, err)
			continue
		}

		mode := info.Mode()
		switch {
		case mode.IsDir():
			if s.exclude.Match(currentPath, true) {
				// Prune the entire subtree: nothing below an excluded
				// directory is listed, stat'd or hashed.
				if IsDebugEnabled("scan") {
					VerboseLog(3, "pruned %s", currentPath)
				}
				continue
			}

			entries, err := os.ReadDir(currentPath)
			if err != nil {
				VerboseLog(2, "skipping directory %s: %v", currentPath, err)
				continue
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Name() < entries[j].Name()
			})

			newPaths := make([]string, 0, len(entries))
			for _, entry := range entries {
				newPaths = append(newPaths, filepath.Join(currentPath, entry.Name()))
			}
			pathQueue = insertSorted(pathQueue, newPaths)

		case mode.IsRegular():
			if s.exclude.Match(currentPath, false) {
				continue
			}
			// Never hash the cache store we are writing this run
			if s.cache != nil && currentPath == s.cache.StorePath() {
				continue
			}

			s.filesScanned++
			if s.progress != nil {
				s.progress(currentPath)
			}

			digest, hashType, err := s.cache.LookupOrCompute(currentPath, info, s.hashType, s.digestFn)
			if err != nil {
				VerboseLog(2, "skipping %s: %v", currentPath, err)
				continue
			}

			if IsDebugEnabled("scan") {
				VerboseLog(3, "scanned %s %s", currentPath, hexDigest(digest))
			}
			if !emit(&ScanEntry{
				Identity: currentPath,
				Digest:   digest,
				HashType: hashType,
				FileSize: uint64(info.Size()),
			}) {
				return true, nil
			}

		default:
			// Symlinks are leaves: neither traversed nor hashed. Sockets,
			// devices and FIFOs are skipped silently.
			if IsDebugEnabled("scan") && mode&os.ModeSymlink != 0 {
				VerboseLog(3, "ignoring symlink %s", currentPath)
			}
		}
	}

	return false, nil
}

// insertSorted merges newPaths into an existing sorted queue maintaining order
func insertSorted(existing []string, newPaths []string) []string {
	if len(newPaths) == 0 {
		return existing
	}
	if len(existing) == 0 {
		return newPaths
	}

	result := make([]string, 0, len(existing)+len(newPaths))
	i, j := 0, 0
	for i < len(existing) && j < len(newPaths) {
		if existing[i] <= newPaths[j] {
			result = append(result, existing[i])
			i++
		} else {
			result = append(result, newPaths[j])
			j++
		}
	}
	result = append(result, existing[i:]...)
	result = append(result, newPaths[j:]...)
	return result
}
