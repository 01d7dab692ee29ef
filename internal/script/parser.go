// Package script parses and runs line-oriented partition operation scripts.
//
// Each non-blank line holds one operation. A field starting with '#' or ';'
// begins a comment that runs to the end of the line; inside a field both
// characters are ordinary, so "free job#1" names the process "job#1".
//
//	alloc <name> <size>    allocate (alias: allocate)
//	free <name>            release (alias: release)
//	show                   every partition (alias: snapshot)
//	frag                   total internal fragmentation
package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies an operation.
type Kind uint8

const (
	KindAlloc Kind = iota + 1
	KindFree
	KindShow
	KindFrag
)

var kindNames = map[Kind]string{
	KindAlloc: "alloc",
	KindFree:  "free",
	KindShow:  "show",
	KindFrag:  "frag",
}

var keywords = map[string]Kind{
	"alloc":    KindAlloc,
	"allocate": KindAlloc,
	"free":     KindFree,
	"release":  KindFree,
	"show":     KindShow,
	"snapshot": KindShow,
	"frag":     KindFrag,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Op is one parsed script line.
type Op struct {
	Kind Kind   `json:"op"`
	Name string `json:"name,omitempty"`
	Size int    `json:"size,omitempty"`
	Line int    `json:"line"`
}

func (o Op) String() string {
	switch o.Kind {
	case KindAlloc:
		return fmt.Sprintf("alloc %s %d", o.Name, o.Size)
	case KindFree:
		return "free " + o.Name
	default:
		return o.Kind.String()
	}
}

// SyntaxError reports a malformed script line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("script: line %d: %s", e.Line, e.Msg)
}

// Parse reads every operation from r.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		op, ok, err := parseLine(sc.Text(), line)
		if err != nil {
			return nil, err
		}
		if ok {
			ops = append(ops, op)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return ops, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Op, error) {
	return Parse(strings.NewReader(s))
}

// parseLine returns ok=false for blank and comment-only lines.
func parseLine(text string, line int) (Op, bool, error) {
	fields := strings.Fields(text)
	for i, f := range fields {
		if f[0] == '#' || f[0] == ';' {
			fields = fields[:i]
			break
		}
	}
	if len(fields) == 0 {
		return Op{}, false, nil
	}

	kind, known := keywords[strings.ToLower(fields[0])]
	if !known {
		return Op{}, false, &SyntaxError{Line: line, Msg: fmt.Sprintf("unknown operation %q", fields[0])}
	}
	op := Op{Kind: kind, Line: line}
	args := fields[1:]

	switch kind {
	case KindAlloc:
		if len(args) != 2 {
			return Op{}, false, &SyntaxError{Line: line, Msg: fmt.Sprintf("alloc takes <name> <size>, got %d argument(s)", len(args))}
		}
		size, err := strconv.Atoi(args[1])
		if err != nil || size <= 0 {
			return Op{}, false, &SyntaxError{Line: line, Msg: fmt.Sprintf("size %q is not a positive integer", args[1])}
		}
		op.Name, op.Size = args[0], size
	case KindFree:
		if len(args) != 1 {
			return Op{}, false, &SyntaxError{Line: line, Msg: fmt.Sprintf("free takes <name>, got %d argument(s)", len(args))}
		}
		op.Name = args[0]
	default:
		if len(args) != 0 {
			return Op{}, false, &SyntaxError{Line: line, Msg: fmt.Sprintf("%s takes no arguments", kind)}
		}
	}
	return op, true, nil
}
