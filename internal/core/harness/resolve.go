package harness

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

const solutionClass = "Solution"

var identifier = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// declaration is a callable found in user source.
type declaration struct {
	name string
	pos  int
}

// collect runs every pattern over src and returns the captured names in
// source order. Names failing skip are dropped.
func collect(src string, patterns []*regexp.Regexp, skip func(name string, pos int) bool) []declaration {
	var found []declaration
	seen := map[int]bool{}
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatchIndex(src, -1) {
			pos, name := m[2], src[m[2]:m[3]]
			if seen[pos] || (skip != nil && skip(name, pos)) {
				continue
			}
			seen[pos] = true
			found = append(found, declaration{name: name, pos: pos})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	return found
}

func pick(found []declaration, preferred string, last bool) (string, bool) {
	for _, d := range found {
		if d.name == preferred {
			return d.name, true
		}
	}
	if len(found) == 0 {
		return "", false
	}
	if last {
		return found[len(found)-1].name, true
	}
	return found[0].name, true
}

// lineIndent returns the width of the leading whitespace on the line holding pos.
func lineIndent(src string, pos int) int {
	start := strings.LastIndexByte(src[:pos], '\n') + 1
	n := 0
	for start+n < len(src) && (src[start+n] == ' ' || src[start+n] == '\t') {
		n++
	}
	return n
}

// outermost keeps the declarations with the smallest indentation, which
// drops helpers nested inside other functions.
func outermost(src string, found []declaration) []declaration {
	if len(found) == 0 {
		return nil
	}
	least := lineIndent(src, found[0].pos)
	for _, d := range found[1:] {
		if n := lineIndent(src, d.pos); n < least {
			least = n
		}
	}
	out := make([]declaration, 0, len(found))
	for _, d := range found {
		if lineIndent(src, d.pos) == least {
			out = append(out, d)
		}
	}
	return out
}

func has(found []declaration, name string) bool {
	for _, d := range found {
		if d.name == name {
			return true
		}
	}
	return false
}

func notFound(language, preferred string) error {
	return fmt.Errorf("%s: no callable named %q or fallback: %w", language, preferred, errs.EntryPointNotFound)
}

// classBody returns the offsets just inside the braces of the class whose
// header matches header. The header pattern must end at the opening brace.
func classBody(src string, header *regexp.Regexp) (start, end int, ok bool) {
	loc := header.FindStringIndex(src)
	if loc == nil {
		return 0, 0, false
	}
	start = loc[1]
	depth := 1
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return start, i, true
			}
		}
	}
	return start, len(src), true
}

// braceDepth reports, for each byte of src, how many braces enclose it.
func braceDepth(src string) []int {
	depth := make([]int, len(src)+1)
	d := 0
	for i := 0; i < len(src); i++ {
		depth[i] = d
		switch src[i] {
		case '{':
			d++
		case '}':
			if d > 0 {
				d--
			}
		}
	}
	depth[len(src)] = d
	return depth
}

var controlWords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "new": true, "else": true, "do": true, "try": true,
	"synchronized": true, "sizeof": true, "main": true,
}

// braceResolver finds methods of the Solution class in brace-delimited
// languages, falling back to top-level functions when there is no class.
type braceResolver struct {
	language    string
	classHeader *regexp.Regexp
	method      *regexp.Regexp
	allowFree   bool
}

func (r braceResolver) Resolve(code, preferred string) (EntryPoint, error) {
	if start, end, ok := classBody(code, r.classHeader); ok {
		body := code[start:end]
		depth := braceDepth(body)
		found := collect(body, []*regexp.Regexp{r.method}, func(name string, pos int) bool {
			return depth[pos] != 0 || controlWords[name] || name == solutionClass
		})
		if name, ok := pick(found, preferred, false); ok {
			return EntryPoint{Name: name, Receiver: solutionClass}, nil
		}
		return EntryPoint{}, notFound(r.language, preferred)
	}

	if r.allowFree {
		depth := braceDepth(code)
		found := collect(code, []*regexp.Regexp{r.method}, func(name string, pos int) bool {
			return depth[pos] != 0 || controlWords[name]
		})
		if name, ok := pick(found, preferred, true); ok {
			return EntryPoint{Name: name}, nil
		}
	}
	return EntryPoint{}, notFound(r.language, preferred)
}
