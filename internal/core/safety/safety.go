// Package safety rejects code that tries to leave the sandbox in obvious ways.
// It is a deny-list scan only; isolation is the execution backend's job.
package safety

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

type rule struct {
	reason  string
	pattern *regexp.Regexp
}

var common = []rule{
	{"process termination", regexp.MustCompile(`\bprocess\s*\.\s*(?:exit|kill|abort)\s*\(`)},
	{"process spawning", regexp.MustCompile(`\bchild_process\b`)},
	{"dynamic evaluation", regexp.MustCompile(`(?:^|[^\w.$])eval\s*\(`)},
}

var byLanguage = map[string][]rule{
	"javascript": {
		{"process spawning", regexp.MustCompile(`\b(?:exec|execSync|spawn|spawnSync|fork)\s*\(`)},
		{"dynamic evaluation", regexp.MustCompile(`\bnew\s+Function\s*\(`)},
		{"filesystem access", regexp.MustCompile(`\brequire\s*\(\s*['"](?:node:)?(?:fs|fs/promises|child_process|os|net|http|https)['"]\s*\)`)},
		{"filesystem access", regexp.MustCompile(`\bimport\b[^;\n]*['"](?:node:)?(?:fs|fs/promises|child_process|os)['"]`)},
	},
	"python": {
		{"process termination", regexp.MustCompile(`\b(?:sys\.exit|os\._exit|exit|quit)\s*\(`)},
		{"process spawning", regexp.MustCompile(`\b(?:os\.system|os\.popen|os\.exec\w*|os\.spawn\w*|os\.fork)\s*\(`)},
		{"process spawning", regexp.MustCompile(`(?m)^\s*(?:import|from)\s+(?:subprocess|multiprocessing|pty)\b`)},
		{"dynamic evaluation", regexp.MustCompile(`(?:^|[^\w.])(?:exec|compile|__import__)\s*\(`)},
		{"filesystem access", regexp.MustCompile(`(?m)^\s*(?:import|from)\s+(?:os|shutil|pathlib|socket)\b`)},
		{"filesystem access", regexp.MustCompile(`(?:^|[^\w.])open\s*\(`)},
	},
	"java": {
		{"process termination", regexp.MustCompile(`\b(?:System\s*\.\s*exit|Runtime\s*\.\s*getRuntime\s*\(\s*\)\s*\.\s*(?:exit|halt))\s*\(`)},
		{"process spawning", regexp.MustCompile(`\b(?:ProcessBuilder|Runtime\s*\.\s*getRuntime\s*\(\s*\)\s*\.\s*exec)\b`)},
		{"filesystem access", regexp.MustCompile(`\bjava\s*\.\s*(?:io\s*\.\s*File|nio\s*\.\s*file)\b`)},
		{"filesystem access", regexp.MustCompile(`\bnew\s+File(?:Reader|Writer|InputStream|OutputStream)?\s*\(`)},
	},
	"cpp": {
		{"process termination", regexp.MustCompile(`(?:^|[^\w.>:])(?:std::)?(?:exit|_exit|abort|quick_exit)\s*\(`)},
		{"process spawning", regexp.MustCompile(`\b(?:system|popen|fork|execl|execlp|execle|execv|execvp|execve)\s*\(`)},
		{"filesystem access", regexp.MustCompile(`#\s*include\s*<\s*(?:fstream|filesystem|unistd\.h|sys/\w+\.h)\s*>`)},
		{"filesystem access", regexp.MustCompile(`\b(?:fopen|freopen|remove|rename)\s*\(`)},
	},
}

// Check returns errs.UnsafeCodeRejected when code matches a deny-list rule for
// language. Unknown languages are checked against the common rules only.
func Check(code, language string) error {
	rules := append([]rule{}, common...)
	rules = append(rules, byLanguage[strings.ToLower(language)]...)

	for _, r := range rules {
		if r.pattern.MatchString(code) {
			return fmt.Errorf("%s: %w", r.reason, errs.UnsafeCodeRejected)
		}
	}
	return nil
}
