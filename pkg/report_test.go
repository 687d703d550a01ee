package dupecheck

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Report(t *testing.T) {
	groups := []DuplicateGroup{
		{
			Digest: "aaa",
			Files:  []string{"/a/x.txt", "/b/y.txt"},
		},
		{
			Digest: "bbb",
			Files:  []string{"/p.dat", "/q.dat", "/r.dat"},
		},
	}

	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	require.NoError(t, reporter.Report(groups))

	expected := "Dupe: \"/a/x.txt\" -> \"/b/y.txt\"\n" +
		"Dupe: \"/p.dat\" -> \"/q.dat\"\n" +
		"Dupe: \"/q.dat\" -> \"/r.dat\"\n"
	assert.Equal(t, expected, buf.String())
}

func TestReporter_EmptyGroups(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	require.NoError(t, reporter.Report(nil))
	assert.Empty(t, buf.String())
}

func TestReporter_QuotesInPaths(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	require.NoError(t, reporter.ReportPair(`/odd/na"me.txt`, "/plain.txt"))

	assert.Equal(t, "Dupe: \"/odd/na\\\"me.txt\" -> \"/plain.txt\"\n", buf.String())
}

func TestReporter_PathsWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	require.NoError(t, reporter.ReportPair("/my documents/a.txt", "/my documents/b.txt"))

	// Quoting keeps lines with embedded spaces parseable
	assert.Equal(t, "Dupe: \"/my documents/a.txt\" -> \"/my documents/b.txt\"\n", buf.String())
}

// failingWriter errors on every write
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, assert.AnError
}

func TestReporter_WriteError(t *testing.T) {
	reporter := NewReporter(failingWriter{})
	err := reporter.ReportPair("/a.txt", "/b.txt")
	assert.Error(t, err)
}
