package downloader

import (
	"bytes"
	"regexp"
	"strconv"
)

// yt-dlp progress lines look like:
//
//	[download]  42.5% of 10.00MiB at 1.23MiB/s ETA 00:05
//
// The format is human-readable output, not a stable protocol, so parsing
// is best-effort: any percentage substring counts, and chunks without one
// report no progress rather than an error.
var progressRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// ParseProgress extracts a download percentage from a chunk of yt-dlp
// stdout. When the chunk contains several percentages the last one wins.
// Returns false when no percentage is present.
func ParseProgress(chunk string) (float64, bool) {
	matches := progressRe.FindAllStringSubmatch(chunk, -1)
	if len(matches) == 0 {
		return 0, false
	}

	pct, err := strconv.ParseFloat(matches[len(matches)-1][1], 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

// splitProgressLines is a bufio.SplitFunc that breaks on \r as well as
// \n. yt-dlp is run with --newline, but older builds (and its progress
// templates) rewrite the progress line in place with bare carriage
// returns; without a \r boundary the scanner would buffer the whole
// download phase as one token.
func splitProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance = i + 2
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
