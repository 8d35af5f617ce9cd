package backend

import (
	"bytes"
	"regexp"
	"strconv"
)

// announcePattern is how the backend reports its own PID on stdout.
var announcePattern = regexp.MustCompile(`Server PID: (\d+)`)

// maxFragment bounds the unterminated tail kept between chunks. It only has
// to hold one in-progress announcement.
const maxFragment = 64

// Announcement scans a stream of stdout chunks for the first PID announcement.
// Announcements split across chunk boundaries are recognised.
type Announcement struct {
	fragment []byte
	pid      int
	found    bool
}

// PID returns the announced PID, or 0 if none has been seen.
func (a *Announcement) PID() int {
	return a.pid
}

// Feed consumes the next chunk. It returns the PID and true exactly once, on
// the first complete announcement; every later call returns false.
func (a *Announcement) Feed(chunk []byte) (int, bool) {
	if a.found {
		return 0, false
	}

	data := append(a.fragment, chunk...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := data[:i]
		data = data[i+1:]
		if pid, ok := a.match(line, true); ok {
			return pid, true
		}
	}

	// A match in the unterminated tail counts once its digits are followed by
	// something else; digits running to the end may still be incomplete.
	if pid, ok := a.match(data, false); ok {
		return pid, true
	}

	if len(data) > maxFragment {
		data = data[len(data)-maxFragment:]
	}
	a.fragment = append(a.fragment[:0], data...)
	return 0, false
}

// Flush matches whatever unterminated text is left, for use when the stream closes.
func (a *Announcement) Flush() (int, bool) {
	if a.found {
		return 0, false
	}
	pid, ok := a.match(a.fragment, true)
	a.fragment = nil
	return pid, ok
}

func (a *Announcement) match(text []byte, complete bool) (int, bool) {
	for _, loc := range announcePattern.FindAllSubmatchIndex(text, -1) {
		if !complete && loc[1] == len(text) {
			return 0, false
		}

		pid, err := strconv.Atoi(string(text[loc[2]:loc[3]]))
		if err != nil || pid <= 0 {
			// Out of range or zero: not a usable PID, a later one may be
			continue
		}

		a.pid = pid
		a.found = true
		a.fragment = nil
		return pid, true
	}
	return 0, false
}
