package diff

import (
	"fmt"
	"strings"
)

// fileDiff renders a minimal git diff block for path with the given added and
// removed content lines.
func fileDiff(path string, added, removed []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	b.WriteString("index 3b18e51..a0f3c2d 100644\n")
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	fmt.Fprintf(&b, "@@ -1,%d +1,%d @@\n", len(removed)+1, len(added)+1)
	b.WriteString(" unchanged context\n")
	for _, l := range removed {
		b.WriteString("-" + l + "\n")
	}
	for _, l := range added {
		b.WriteString("+" + l + "\n")
	}
	return b.String()
}

// renameDiff renders a pure rename with no content change.
func renameDiff(from, to string) string {
	return fmt.Sprintf("diff --git a/%s b/%s\nsimilarity index 100%%\nrename from %s\nrename to %s\n", from, to, from, to)
}
