// Package dupecheck finds byte-identical files across one or more directory
// trees, using a persisted cache of file digests so that repeated runs over
// an unchanged tree perform no content reads at all.
//
// # Core API
//
// Build an exclude list, open a cache and scan:
//
//	excl := dupecheck.NewExcludeList(true) // default .git/.svn rules
//	cache := dupecheck.NewCache("/home/me/.dupecache")
//	cache.Load()
//
//	scanner := dupecheck.NewScanner(excl, cache, dupecheck.DefaultDigestFunc(nil))
//	grouper := dupecheck.NewDuplicateGrouper()
//	err := scanner.Scan([]string{"/data"}, func(e *dupecheck.ScanEntry) bool {
//		grouper.Add(e)
//		return true
//	})
//
//	dupecheck.NewReporter(os.Stdout).Report(grouper.Groups())
//	cache.Save()
//
// Caching is always best effort: a missing, corrupt or unwritable cache
// store degrades to a full rescan and never affects the duplicate report.
//
// # Configuration
//
// Enable diagnostic output:
//
//	dupecheck.SetDebugFlags("scan,cache")
//	dupecheck.SetVerboseLevel(2)
//
// All diagnostics go to a separate stream (stderr by default) and are never
// interleaved with the duplicate report.
package dupecheck
