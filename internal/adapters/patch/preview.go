package patch

import (
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// ContextLines is the number of unchanged lines kept around each change
const ContextLines = 3

type op struct {
	kind    byte // ' ', '+', '-'
	text    string
	origNum int32
	newNum  int32
}

// FileDiff builds a unified diff of before -> after for path. Changes made
// by a run only ever add lines, so a greedy line walk is enough; any other
// change still yields a valid, if larger, diff.
func FileDiff(path, before, after string) *diff.FileDiff {
	origName, newName := "a/"+path, "b/"+path
	if before == "" {
		origName = "/dev/null"
	}

	return &diff.FileDiff{
		OrigName: origName,
		NewName:  newName,
		Hunks:    hunks(script(splitLines(before), splitLines(after))),
	}
}

// Preview renders the unified diff of before -> after. It returns an empty
// string when nothing changed.
func Preview(path, before, after string) (string, error) {
	fd := FileDiff(path, before, after)
	if len(fd.Hunks) == 0 {
		return "", nil
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func script(a, b []string) []op {
	var ops []op
	i, j := 0, 0
	for j < len(b) {
		if i < len(a) && a[i] == b[j] {
			ops = append(ops, op{kind: ' ', text: a[i], origNum: int32(i + 1), newNum: int32(j + 1)})
			i++
			j++
			continue
		}
		ops = append(ops, op{kind: '+', text: b[j], origNum: int32(i), newNum: int32(j + 1)})
		j++
	}
	for ; i < len(a); i++ {
		ops = append(ops, op{kind: '-', text: a[i], origNum: int32(i + 1), newNum: int32(j)})
	}
	return ops
}

func hunks(ops []op) []*diff.Hunk {
	var out []*diff.Hunk
	for start := 0; start < len(ops); {
		// Find the next change
		first := start
		for first < len(ops) && ops[first].kind == ' ' {
			first++
		}
		if first == len(ops) {
			break
		}

		lo := max(first-ContextLines, start)
		hi := first
		for k := first; k < len(ops); k++ {
			if ops[k].kind != ' ' {
				hi = k
				continue
			}
			if k-hi > 2*ContextLines {
				break
			}
		}
		hi = min(hi+ContextLines, len(ops)-1)

		out = append(out, buildHunk(ops[lo:hi+1]))
		start = hi + 1
	}
	return out
}

func buildHunk(ops []op) *diff.Hunk {
	h := &diff.Hunk{}
	var body strings.Builder
	for _, o := range ops {
		switch o.kind {
		case ' ':
			h.OrigLines++
			h.NewLines++
		case '-':
			h.OrigLines++
		case '+':
			h.NewLines++
		}
		body.WriteByte(o.kind)
		body.WriteString(o.text)
		body.WriteByte('\n')
	}

	h.OrigStartLine = startLine(ops, func(o op) (int32, bool) { return o.origNum, o.kind != '+' }, h.OrigLines)
	h.NewStartLine = startLine(ops, func(o op) (int32, bool) { return o.newNum, o.kind != '-' }, h.NewLines)
	h.Body = []byte(body.String())
	return h
}

// startLine returns the first line number the hunk covers on one side. A
// side with no lines reports the line before the change, as diff(1) does.
func startLine(ops []op, side func(op) (int32, bool), count int32) int32 {
	for _, o := range ops {
		if n, ok := side(o); ok {
			return n
		}
	}
	if count == 0 {
		n, _ := side(ops[0])
		return n
	}
	return 0
}
