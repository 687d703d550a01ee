package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	dupecheck "github.com/mattkeenan/dupecheck/pkg"
)

const versionString = "0.9.0"

func main() {
	opts := defineOptions()

	if err := opts.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "dupecheck: %v\n", err)
		os.Exit(1)
	}

	if opts.GetBool("help") {
		opts.ShowUsage("dupecheck")
		return
	}

	if opts.GetBool("version") {
		fmt.Printf("dupecheck %s\n", versionString)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "dupecheck: %v\n", err)
		os.Exit(1)
	}
}

func defineOptions() *ParsedOptions {
	opts := NewParsedOptions()

	opts.DefineOption("help", "h", OptionTypeBool, "", "Show this help and exit")
	opts.DefineOption("version", "", OptionTypeBool, "", "Show version and exit")
	opts.DefineOption("config", "", OptionTypeString, "", "Config file path (default: ~/.config/dupecheck/config)")
	opts.DefineOption("hash", "", OptionTypeString, "", "Hash algorithm: sha1, sha256 or sha512 (default: sha256)")
	opts.DefineOption("cache", "c", OptionTypeString, "", "Cache store path or directory (default: .dupecache in current directory)")
	opts.DefineOption("no-cache", "", OptionTypeBool, "", "Disable the cache store entirely")
	opts.DefineOption("verbose", "v", OptionTypeInt, "", "Verbose level 0-3 (repeat -v to increase)")
	opts.DefineOption("debug", "d", OptionTypeString, "", "Debug flags (comma-separated, e.g. scan,cache)")
	opts.DefineOption("progress", "p", OptionTypeBool, "", "Show scan progress on stderr")
	opts.DefineOption("no-default-exclude", "", OptionTypeBool, "", "Don't exclude .git and .svn directories by default")
	opts.DefineOption("x-dir", "", OptionTypeStringList, "", "Exclude directories with this name (repeatable)")
	opts.DefineOption("x-dir-glob", "", OptionTypeStringList, "", "Exclude directories whose name matches this glob (repeatable)")
	opts.DefineOption("x-path-glob", "", OptionTypeStringList, "", "Exclude entries whose full path matches this glob (repeatable)")
	opts.DefineOption("x-file", "", OptionTypeStringList, "", "Exclude files with this name (repeatable)")
	opts.DefineOption("x-file-glob", "", OptionTypeStringList, "", "Exclude files whose name matches this glob (repeatable)")

	return opts
}

func run(opts *ParsedOptions) error {
	// Configuration: built-in defaults, overridden by the config file,
	// overridden in turn by command-line options
	configPath := opts.GetString("config")
	if configPath == "" {
		configPath = dupecheck.DefaultConfigPath()
	}
	config, err := dupecheck.LoadConfig(configPath)
	if err != nil {
		return err
	}

	verboseConfig := config.GetVerboseConfig()
	verboseLevel := verboseConfig.Level
	if opts.IsSet("verbose") {
		verboseLevel = opts.GetInt("verbose")
	}
	if err := dupecheck.ValidateVerboseLevel(verboseLevel); err != nil {
		return err
	}
	dupecheck.SetVerboseLevel(verboseLevel)

	debugFlags := verboseConfig.Debug
	if opts.IsSet("debug") {
		debugFlags = opts.GetString("debug")
	}
	dupecheck.SetDebugFlags(debugFlags)

	hashName := config.GetHashConfig().Default
	if opts.IsSet("hash") {
		hashName = opts.GetString("hash")
	}
	if err := dupecheck.ValidateHashAlgorithm(hashName); err != nil {
		return err
	}
	algorithm, err := dupecheck.GetHashAlgorithm(hashName)
	if err != nil {
		return err
	}

	exclude, err := buildExcludeList(opts, config)
	if err != nil {
		return err
	}

	cachePath, err := resolveCachePath(opts, config)
	if err != nil {
		return err
	}
	cache := dupecheck.NewCache(cachePath)
	cache.Load()

	// SIGINT/SIGTERM close the shutdown channel; the scanner stops between
	// files and a partial run never overwrites the cache store
	shutdownChan := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		dupecheck.VerboseLog(1, "received %v, stopping scan", sig)
		close(shutdownChan)
	}()

	digestFn := dupecheck.AlgorithmDigestFunc(algorithm, shutdownChan)
	scanner := dupecheck.NewScanner(exclude, cache, digestFn)
	scanner.SetHashType(algorithm.TypeID)
	scanner.SetShutdownChan(shutdownChan)

	progress := newProgressDisplay(opts.GetBool("progress"))
	if opts.GetBool("progress") {
		scanner.SetProgress(func(path string) {
			progress.Update(scanner.FilesScanned(), path)
		})
	}

	grouper := dupecheck.NewDuplicateGrouper()
	scanErr := scanner.Scan(opts.GetArgs(), func(entry *dupecheck.ScanEntry) bool {
		grouper.Add(entry)
		return true
	})
	progress.Clear()
	if scanErr != nil {
		return scanErr
	}

	groups := grouper.Groups()
	reporter := dupecheck.NewReporter(os.Stdout)
	if err := reporter.Report(groups); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	// An interrupted scan saw only part of the tree, so saving would drop
	// every record for the unvisited files. Keep the old store instead.
	select {
	case <-shutdownChan:
		dupecheck.VerboseLog(1, "scan interrupted, cache store not updated")
	default:
		if err := cache.Save(); err != nil {
			dupecheck.Warn("failed to save cache store: %v", err)
		}
	}

	hits, computes, bytesHashed := cache.Stats()
	dupecheck.VerboseLog(1, "scanned %d files: %d cache hits, %d hashed (%d bytes), %d duplicate groups",
		scanner.FilesScanned(), hits, computes, bytesHashed, len(groups))

	return nil
}

// buildExcludeList assembles exclude rules from the config file and the
// repeatable command-line options. An invalid glob is a configuration error
// and aborts before any scanning starts.
func buildExcludeList(opts *ParsedOptions, config *dupecheck.Config) (*dupecheck.ExcludeList, error) {
	withDefaults := config.GetExcludeConfig().Defaults
	if opts.GetBool("no-default-exclude") {
		withDefaults = false
	}
	exclude := dupecheck.NewExcludeList(withDefaults)

	addAll := func(values []string, add func(string) error) error {
		for _, value := range values {
			if err := add(value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := addAll(opts.GetStrings("x-dir"), exclude.AddDir); err != nil {
		return nil, err
	}
	if err := addAll(opts.GetStrings("x-dir-glob"), exclude.AddDirGlob); err != nil {
		return nil, err
	}
	if err := addAll(opts.GetStrings("x-path-glob"), exclude.AddPathGlob); err != nil {
		return nil, err
	}
	if err := addAll(opts.GetStrings("x-file"), exclude.AddFile); err != nil {
		return nil, err
	}
	if err := addAll(opts.GetStrings("x-file-glob"), exclude.AddFileGlob); err != nil {
		return nil, err
	}

	return exclude, nil
}

// resolveCachePath works out where the cache store lives. --no-cache wins
// over everything; --cache accepts either a file path or a directory (the
// default store name is used inside a directory); otherwise the config file
// value or .dupecache in the current directory.
func resolveCachePath(opts *ParsedOptions, config *dupecheck.Config) (string, error) {
	if opts.GetBool("no-cache") {
		return "", nil
	}

	cachePath := config.GetCacheConfig().Path
	if opts.IsSet("cache") {
		cachePath = opts.GetString("cache")
	}
	if cachePath == "" {
		cachePath = dupecheck.DefaultCacheName
	}

	if info, err := os.Stat(cachePath); err == nil && info.IsDir() {
		cachePath = filepath.Join(cachePath, dupecheck.DefaultCacheName)
	}

	absPath, err := filepath.Abs(cachePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache path %s: %w", cachePath, err)
	}
	return absPath, nil
}
