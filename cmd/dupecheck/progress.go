package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// progressDisplay writes a single updating status line to stderr while the
// scan runs. The line is truncated to the terminal width so long paths never
// wrap, and Clear must be called before any report goes to stdout so the two
// streams don't interleave on a terminal.
type progressDisplay struct {
	enabled bool
	width   int
	written bool
}

func newProgressDisplay(enabled bool) *progressDisplay {
	p := &progressDisplay{enabled: enabled}
	if enabled {
		p.width = terminalWidth()
	}
	return p
}

// terminalWidth returns the stderr terminal width, or 80 when stderr is not
// a terminal or the ioctl fails
func terminalWidth() int {
	ws, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 80
	}
	return int(ws.Col)
}

// Update redraws the status line for the file currently being processed
func (p *progressDisplay) Update(filesScanned uint64, path string) {
	if !p.enabled {
		return
	}

	line := fmt.Sprintf("[%d] %s", filesScanned, path)
	if len(line) >= p.width {
		line = line[:p.width-1]
	}

	// Pad with spaces to overwrite any longer previous line
	fmt.Fprintf(os.Stderr, "\r%s%s", line, strings.Repeat(" ", p.width-1-len(line)))
	p.written = true
}

// Clear erases the status line if one has been drawn
func (p *progressDisplay) Clear() {
	if !p.enabled || !p.written {
		return
	}
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", p.width-1))
	p.written = false
}
