package harness

import (
	"fmt"
	"regexp"
)

var jsDeclarations = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`),
	regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:var|let|const)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>|[A-Za-z_$][\w$]*\s*=>)`),
	regexp.MustCompile(`(?m)^[ \t]*([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>|[A-Za-z_$][\w$]*\s*=>)`),
}

// jsResolver looks at function declarations and function expressions at the
// outermost indentation. Without the preferred name the last one declared
// wins. A preferred name the scan misses is kept and checked with typeof in
// the harness, falling back to the scanned candidate.
type jsResolver struct{}

func (jsResolver) Resolve(code, preferred string) (EntryPoint, error) {
	found := collect(code, jsDeclarations, nil)
	if has(found, preferred) {
		return EntryPoint{Name: preferred}, nil
	}

	var fallback *EntryPoint
	if top := outermost(code, found); len(top) > 0 {
		fallback = &EntryPoint{Name: top[len(top)-1].name}
	}
	if identifier.MatchString(preferred) {
		return EntryPoint{Name: preferred, Fallback: fallback}, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return EntryPoint{}, notFound("javascript", preferred)
}

const javascriptHarness = `const __graderConsole = [];
const __graderFormat = (value) => {
  if (typeof value === 'string') return value;
  try {
    const encoded = JSON.stringify(value);
    return encoded === undefined ? String(value) : encoded;
  } catch (e) {
    return String(value);
  }
};
console.log = (...args) => { __graderConsole.push(args.map(__graderFormat).join(' ')); };
console.info = console.log;
console.debug = console.log;

{{.Code}}

;(function () {
  const input = JSON.parse({{.Input}});
  const args = Array.isArray(input)
    ? input
    : (input !== null && typeof input === 'object' ? Object.values(input) : [input]);
  let result;
  try {
    const __graderEntry = {{.Entry}};
    if (typeof __graderEntry !== 'function') {
      throw new Error({{.Missing}});
    }
    result = __graderEntry(...args);
  } catch (e) {
    process.stderr.write('Execution error: ' + (e && e.message ? e.message : String(e)) + '\n');
    process.exitCode = 1;
    return;
  }
  const value = result === undefined ? (args.length > 0 ? args[0] : null) : result;
  const encoded = JSON.stringify(value);
  const lines = [encoded === undefined ? 'null' : encoded];
  if (__graderConsole.length > 0) {
    lines.push({{.Delimiter}});
    lines.push(...__graderConsole);
  }
  process.stdout.write(lines.join('\n') + '\n');
})();
`

func newJavaScript(spec languageSpec) (LanguageProfile, error) {
	return newProfile(spec, jsResolver{}, javascriptHarness, func(code string, input *Input, entry EntryPoint) (interface{}, error) {
		lookup, err := jsLookup(entry)
		if err != nil {
			return nil, err
		}
		return struct {
			Code, Input, Entry, Missing, Delimiter string
		}{
			Code:      code,
			Input:     jsString(input.Raw),
			Entry:     lookup,
			Missing:   jsString("entry point " + entry.Name + " is not a function"),
			Delimiter: jsString(delimiter),
		}, nil
	})
}

// jsLookup renders the expression yielding the function to call. typeof is
// safe on undeclared names, so a missing entry point surfaces as a run-time
// error instead of a ReferenceError.
func jsLookup(entry EntryPoint) (string, error) {
	if !identifier.MatchString(entry.Name) {
		return "", fmt.Errorf("invalid entry point %q", entry.Name)
	}
	alt := "undefined"
	if entry.Fallback != nil {
		var err error
		if alt, err = jsLookup(*entry.Fallback); err != nil {
			return "", err
		}
	}
	return "(typeof " + entry.Name + " === 'function' ? " + entry.Name + " : " + alt + ")", nil
}
