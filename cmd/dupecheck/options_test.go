package main

import (
	"testing"
)

func TestParsedOptions_LongOptions(t *testing.T) {
	opts := NewParsedOptions()
	opts.DefineOption("hash", "", OptionTypeString, "", "hash algorithm")
	opts.DefineOption("no-cache", "", OptionTypeBool, "", "disable cache")

	if err := opts.Parse([]string{"--hash=sha512", "--no-cache", "some/dir"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if opts.GetString("hash") != "sha512" {
		t.Errorf("Expected hash sha512, got %q", opts.GetString("hash"))
	}
	if !opts.GetBool("no-cache") {
		t.Error("Expected no-cache to be set")
	}
	if len(opts.GetArgs()) != 1 || opts.GetArgs()[0] != "some/dir" {
		t.Errorf("Expected positional arg some/dir, got %v", opts.GetArgs())
	}
}

func TestParsedOptions_LongOptionConsumesNextArg(t *testing.T) {
	opts := NewParsedOptions()
	opts.DefineOption("cache", "c", OptionTypeString, "", "cache path")

	if err := opts.Parse([]string{"--cache", "/tmp/store", "dir"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if opts.GetString("cache") != "/tmp/store" {
		t.Errorf("Expected cache /tmp/store, got %q", opts.GetString("cache"))
	}
	if len(opts.GetArgs()) != 1 || opts.GetArgs()[0] != "dir" {
		t.Errorf("Expected positional arg dir, got %v", opts.GetArgs())
	}
}

func TestParsedOptions_ShortRepetition(t *testing.T) {
	opts := NewParsedOptions()
	opts.DefineOption("verbose", "v", OptionTypeInt, "", "verbose level")

	if err := opts.Parse([]string{"-vvv"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if opts.GetInt("verbose") != 3 {
		t.Errorf("Expected verbose level 3 from -vvv, got %d", opts.GetInt("verbose"))
	}
	if !opts.IsSet("verbose") {
		t.Error("Expected verbose to be marked as set")
	}
}

func TestParsedOptions_RepeatableOption(t *testing.T) {
	opts := NewParsedOptions()
	opts.DefineOption("x-dir", "", OptionTypeStringList, "", "exclude dir")

	if err := opts.Parse([]string{"--x-dir=node_modules", "--x-dir", "vendor", "--x-dir=dist"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	values := opts.GetStrings("x-dir")
	expected := []string{"node_modules", "vendor", "dist"}
	if len(values) != len(expected) {
		t.Fatalf("Expected %d values, got %d", len(expected), len(values))
	}
	for i, value := range values {
		if value != expected[i] {
			t.Errorf("Value %d: expected %q, got %q", i, expected[i], value)
		}
	}
}

func TestParsedOptions_UnknownOption(t *testing.T) {
	opts := NewParsedOptions()

	if err := opts.Parse([]string{"--bogus"}); err == nil {
		t.Error("Expected error for unknown long option")
	}

	opts = NewParsedOptions()
	if err := opts.Parse([]string{"-z"}); err == nil {
		t.Error("Expected error for unknown short option")
	}
}

func TestParsedOptions_MissingValue(t *testing.T) {
	opts := NewParsedOptions()
	opts.DefineOption("cache", "c", OptionTypeString, "", "cache path")

	if err := opts.Parse([]string{"--cache"}); err == nil {
		t.Error("Expected error for string option without value")
	}
}

func TestParsedOptions_DefaultsAndIsSet(t *testing.T) {
	opts := NewParsedOptions()
	opts.DefineOption("hash", "", OptionTypeString, "sha256", "hash algorithm")

	if err := opts.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if opts.GetString("hash") != "sha256" {
		t.Errorf("Expected default sha256, got %q", opts.GetString("hash"))
	}
	if opts.IsSet("hash") {
		t.Error("Expected default value not to count as explicitly set")
	}
}
