package dupecheck

import "sort"

// DuplicateGroup is the set of file identities sharing one content digest.
// A group is reportable once it has at least two members.
type DuplicateGroup struct {
	Digest string   `json:"digest"` // lowercase hex
	Files  []string `json:"files"`  // sorted identities
}

// Pairs returns the group's consecutive sorted pairs: n files yield n-1
// pairs, each file paired with its lexicographic successor. Repeated runs
// over identical input therefore produce identical pair ordering.
func (g *DuplicateGroup) Pairs() [][2]string {
	if len(g.Files) < 2 {
		return nil
	}
	pairs := make([][2]string, 0, len(g.Files)-1)
	for i := 1; i < len(g.Files); i++ {
		pairs = append(pairs, [2]string{g.Files[i-1], g.Files[i]})
	}
	return pairs
}

// DuplicateGrouper collects scan entries and groups them by digest. The
// algorithm is two-pass by nature: every entry must be seen before any
// group is known complete, since a file processed last could belong to any
// earlier group.
type DuplicateGrouper struct {
	byDigest map[string][]string
}

// NewDuplicateGrouper creates an empty grouper
func NewDuplicateGrouper() *DuplicateGrouper {
	return &DuplicateGrouper{
		byDigest: make(map[string][]string),
	}
}

// Add records one scan entry
func (dg *DuplicateGrouper) Add(entry *ScanEntry) {
	key := entry.DigestString()
	dg.byDigest[key] = append(dg.byDigest[key], entry.Identity)
}

// Len returns the number of distinct digests seen
func (dg *DuplicateGrouper) Len() int {
	return len(dg.byDigest)
}

// Groups returns every digest with two or more identities. Identities
// within a group are sorted lexicographically and groups are ordered by
// their first identity, so output ordering is independent of traversal
// order.
func (dg *DuplicateGrouper) Groups() []DuplicateGroup {
	var groups []DuplicateGroup
	for digest, files := range dg.byDigest {
		if len(files) < 2 {
			continue
		}
		sorted := make([]string, len(files))
		copy(sorted, files)
		sort.Strings(sorted)
		groups = append(groups, DuplicateGroup{
			Digest: digest,
			Files:  sorted,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Files[0] < groups[j].Files[0]
	})
	return groups
}
