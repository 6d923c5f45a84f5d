package diff

import (
	"strconv"
	"strings"
)

// headerPrefix starts every per-file block of a git unified diff.
const headerPrefix = "diff --git "

// Segment is the slice of a diff blob describing one file.
type Segment struct {
	Path    string // path on the "b/" side of the header
	OldPath string // path on the "a/" side of the header
	Offset  int    // byte offset of the header line in the blob
	Body    string // header line up to, not including, the next header line
}

// Segments splits blob into per-file segments in a single pass. Only lines that
// begin with the header prefix start a segment, so header-like text inside file
// content never splits a segment. Text before the first header is ignored.
func Segments(blob string) []Segment {
	var starts []int
	for i := 0; i < len(blob); {
		if strings.HasPrefix(blob[i:], headerPrefix) {
			starts = append(starts, i)
		}
		nl := strings.IndexByte(blob[i:], '\n')
		if nl < 0 {
			break
		}
		i += nl + 1
	}

	segments := make([]Segment, 0, len(starts))
	for k, start := range starts {
		end := len(blob)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		body := blob[start:end]
		header := body
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			header = body[:nl]
		}
		oldPath, newPath := parseHeader(header)
		oldPath, newPath = refinePaths(body, oldPath, newPath)
		segments = append(segments, Segment{
			Path:    newPath,
			OldPath: oldPath,
			Offset:  start,
			Body:    body,
		})
	}
	return segments
}

// ExtractSegment returns the segment of blob whose header names path exactly,
// or an empty string when the file is not part of the diff.
func ExtractSegment(blob, path string) string {
	for _, seg := range Segments(blob) {
		if seg.Path == path || seg.OldPath == path {
			return seg.Body
		}
	}
	return ""
}

// parseHeader extracts the two paths of a "diff --git a/<old> b/<new>" line.
func parseHeader(line string) (oldPath, newPath string) {
	rest := strings.TrimSuffix(strings.TrimPrefix(line, headerPrefix), "\r")

	// Paths with special characters are C-quoted by git.
	if strings.HasPrefix(rest, `"`) {
		if q, err := strconv.QuotedPrefix(rest); err == nil {
			oldPath, _ = strconv.Unquote(q)
			newPath = unquoteMaybe(strings.TrimPrefix(rest[len(q):], " "))
			return trimSide(oldPath, "a/"), trimSide(newPath, "b/")
		}
	}
	if i := strings.Index(rest, ` "b/`); i >= 0 {
		return trimSide(rest[:i], "a/"), trimSide(unquoteMaybe(rest[i+1:]), "b/")
	}

	// Unchanged paths make the header symmetric: "a/X b/X".
	if len(rest)%2 == 1 {
		half := (len(rest) - 1) / 2
		left, right := rest[:half], rest[half+1:]
		if rest[half] == ' ' && strings.HasPrefix(left, "a/") && strings.HasPrefix(right, "b/") && left[2:] == right[2:] {
			return left[2:], right[2:]
		}
	}

	// Renames: split on the last " b/" separator.
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return trimSide(rest[:i], "a/"), rest[i+3:]
	}
	return trimSide(rest, "a/"), trimSide(rest, "a/")
}

// refinePaths replaces the header paths with the ones named by the extended header
// lines of body. "rename from/to" and "copy from/to" win over the "---"/"+++" file
// lines, which win over the "diff --git" line. Only lines before the first hunk count.
func refinePaths(body, oldPath, newPath string) (string, string) {
	var fromLine, toLine, minusLine, plusLine string
	for line := range strings.Lines(body) {
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, "@@") {
			break
		}
		switch {
		case strings.HasPrefix(line, "rename from "):
			fromLine = unquoteMaybe(strings.TrimPrefix(line, "rename from "))
		case strings.HasPrefix(line, "copy from "):
			fromLine = unquoteMaybe(strings.TrimPrefix(line, "copy from "))
		case strings.HasPrefix(line, "rename to "):
			toLine = unquoteMaybe(strings.TrimPrefix(line, "rename to "))
		case strings.HasPrefix(line, "copy to "):
			toLine = unquoteMaybe(strings.TrimPrefix(line, "copy to "))
		case strings.HasPrefix(line, "--- "):
			minusLine = fileLinePath(strings.TrimPrefix(line, "--- "), "a/")
		case strings.HasPrefix(line, "+++ "):
			plusLine = fileLinePath(strings.TrimPrefix(line, "+++ "), "b/")
		}
	}

	switch {
	case fromLine != "":
		oldPath = fromLine
	case minusLine != "":
		oldPath = minusLine
	}
	switch {
	case toLine != "":
		newPath = toLine
	case plusLine != "":
		newPath = plusLine
	}
	return oldPath, newPath
}

// fileLinePath reads the path of a "---" or "+++" line; "" for /dev/null.
func fileLinePath(s, prefix string) string {
	s = unquoteMaybe(strings.TrimSuffix(s, "\t"))
	if s == "/dev/null" {
		return ""
	}
	return trimSide(s, prefix)
}

func unquoteMaybe(s string) string {
	if strings.HasPrefix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}

func trimSide(s, prefix string) string {
	return strings.TrimPrefix(s, prefix)
}
