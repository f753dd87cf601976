package at

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotGetResult is returned by ParseGetResult for lines that do not
// carry the +QHTTPGET prefix at all. Such lines are not an error from
// the modem, just output the caller should skip.
var ErrNotGetResult = errors.New("not a +QHTTPGET result line")

// ParseGetResult parses a "+QHTTPGET: <err>,<status>,<size>" line and
// returns the declared content length.
//
// Only err=0 with HTTP status 200 is a success; any other
// +QHTTPGET-prefixed line is an explicit rejection from the modem's
// HTTP client and is returned as an error carrying the raw line. A
// declared size that is missing or not positive is also a failure,
// since the download loop cannot terminate against it.
func ParseGetResult(line string) (int64, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, HTTPGetPrefix) {
		return 0, ErrNotGetResult
	}

	rest := strings.TrimSpace(strings.TrimPrefix(line, HTTPGetPrefix))
	fields := strings.Split(rest, ",")
	if len(fields) < 2 || strings.TrimSpace(fields[0]) != "0" || strings.TrimSpace(fields[1]) != "200" {
		return 0, fmt.Errorf("HTTP GET rejected: %q", line)
	}
	if len(fields) < 3 {
		return 0, fmt.Errorf("HTTP GET result missing content length: %q", line)
	}

	size, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse content length in %q: %w", line, err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("non-positive content length %d", size)
	}
	return size, nil
}
