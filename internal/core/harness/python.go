package harness

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	pyClassHeader = regexp.MustCompile(`(?m)^class\s+Solution\b[^:\n]*:`)
	pyMethod      = regexp.MustCompile(`(?m)^[ \t]+(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	pyFunction    = regexp.MustCompile(`(?m)^(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	pyTopLevel    = regexp.MustCompile(`(?m)^[^\s#]`)
	pyName        = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// pyResolver prefers methods of class Solution (first non-dunder as the
// fallback) and otherwise module-level functions (last one as the fallback).
// Static methods count as methods. A preferred name the scan misses is
// looked up at run time before the fallback is used.
type pyResolver struct{}

func (pyResolver) Resolve(code, preferred string) (EntryPoint, error) {
	var methods []declaration
	if loc := pyClassHeader.FindStringIndex(code); loc != nil {
		body := code[loc[1]:]
		if next := pyTopLevel.FindStringIndex(body); next != nil {
			body = body[:next[0]]
		}
		found := collect(body, []*regexp.Regexp{pyMethod}, func(name string, _ int) bool {
			return name != preferred && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
		})
		methods = outermost(body, found)
		if has(methods, preferred) {
			return EntryPoint{Name: preferred, Receiver: solutionClass}, nil
		}
	}

	functions := collect(code, []*regexp.Regexp{pyFunction}, nil)
	if has(functions, preferred) {
		return EntryPoint{Name: preferred}, nil
	}

	var fallback *EntryPoint
	switch {
	case len(methods) > 0:
		fallback = &EntryPoint{Name: methods[0].name, Receiver: solutionClass}
	case len(functions) > 0:
		fallback = &EntryPoint{Name: functions[len(functions)-1].name}
	}
	if pyName.MatchString(preferred) {
		return EntryPoint{Name: preferred, Fallback: fallback}, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return EntryPoint{}, notFound("python", preferred)
}

const pythonHarness = `import io
import json
import sys
from typing import *
from collections import *

__grader_stdout = sys.stdout
__grader_console = io.StringIO()
sys.stdout = __grader_console

{{.Code}}


def __grader_lookup(name, fallback):
    solution = globals().get("Solution")
    if isinstance(solution, type) and callable(getattr(solution, name, None)):
        return getattr(solution(), name)
    candidate = globals().get(name)
    if callable(candidate):
        return candidate
    if fallback is not None:
        return fallback()
    raise NameError("entry point " + name + " is not defined")


def __grader_run():
    data = json.loads({{.Input}})
    try:
        target = {{.Target}}
        if isinstance(data, dict):
            args = list(data.values())
            result = target(**data)
        elif isinstance(data, list):
            args = data
            result = target(*data)
        else:
            args = [data]
            result = target(data)
    except Exception as exc:
        sys.stdout = __grader_stdout
        print("Execution error: " + str(exc), file=sys.stderr)
        sys.exit(1)
    sys.stdout = __grader_stdout
    value = result if result is not None else (args[0] if args else None)
    print(json.dumps(value))
    lines = __grader_console.getvalue().splitlines()
    if lines:
        print({{.Delimiter}})
        for line in lines:
            print(line)


__grader_run()
`

func newPython(spec languageSpec) (LanguageProfile, error) {
	return newProfile(spec, pyResolver{}, pythonHarness, func(code string, input *Input, entry EntryPoint) (interface{}, error) {
		target, err := pyTarget(entry)
		if err != nil {
			return nil, err
		}
		return struct {
			Code, Input, Target, Delimiter string
		}{
			Code:      code,
			Input:     pyString(input.Raw),
			Target:    target,
			Delimiter: pyString(delimiter),
		}, nil
	})
}

// pyTarget renders the expression yielding the callable. Entry points found
// in the source are referenced directly; the others go through the runtime
// lookup.
func pyTarget(entry EntryPoint) (string, error) {
	if !pyName.MatchString(entry.Name) {
		return "", fmt.Errorf("invalid entry point %q", entry.Name)
	}
	if entry.Fallback == nil {
		if entry.Receiver != "" {
			return entry.Receiver + "()." + entry.Name, nil
		}
		return entry.Name, nil
	}
	alt, err := pyTarget(*entry.Fallback)
	if err != nil {
		return "", err
	}
	return "__grader_lookup(" + pyString(entry.Name) + ", lambda: " + alt + ")", nil
}
