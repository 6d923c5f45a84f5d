package diff

import (
	"strings"

	"github.com/huangsam/diffeffort/schema"
)

// Count tallies the lines of a file segment that follow a newline and start with
// '+' (added) or '-' (removed). The first line is never counted. The "--- a/x" and
// "+++ b/x" file-range lines that precede the first "@@" hunk are metadata and are
// skipped; once inside a hunk every marker line counts.
func Count(segment string) schema.ChangeCount {
	var c schema.ChangeCount
	nl := strings.IndexByte(segment, '\n')
	if nl < 0 {
		return c
	}

	inHunk := false
	rest := segment[nl+1:]
	for len(rest) > 0 {
		line := rest
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			rest = ""
		}
		if line == "" {
			continue
		}

		switch line[0] {
		case '@':
			if strings.HasPrefix(line, "@@") {
				inHunk = true
			}
		case '+':
			if !inHunk && strings.HasPrefix(line, "+++ ") {
				continue
			}
			c.Added++
		case '-':
			if !inHunk && strings.HasPrefix(line, "--- ") {
				continue
			}
			c.Removed++
		}
	}
	return c
}
