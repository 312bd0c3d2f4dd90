package harness

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jobprep-2025.net/internal/core/compare"
	"gitlab.com/jobprep-2025.net/internal/core/result"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry()
	require.NoError(t, err)
	return registry
}

func TestRegistryLanguages(t *testing.T) {
	registry := newTestRegistry(t)

	want := map[string]int{"javascript": 63, "python": 71, "java": 62, "cpp": 54}
	for name, id := range want {
		byName, ok := registry.ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, id, byName.LanguageID())

		byID, ok := registry.ByID(id)
		require.True(t, ok, name)
		assert.Equal(t, name, byID.Name())
	}

	var ids []int
	for _, lang := range registry.Languages() {
		ids = append(ids, lang.LanguageID())
	}
	assert.Equal(t, []int{54, 62, 63, 71}, ids)

	_, ok := registry.ByID(51)
	assert.False(t, ok)
	_, ok = registry.ByName(" Python ")
	assert.True(t, ok)
}

func TestLoadRegistryRejectsUnknownLanguage(t *testing.T) {
	_, err := LoadRegistry([]byte(`
[[language]]
name = "cobol"
backend_id = 77
starter = ""
`))
	require.ErrorIs(t, err, errs.UnsupportedLanguage)
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	_, err := LoadRegistry([]byte(`
[[language]]
name = "python"
backend_id = 71
starter = ""

[[language]]
name = "javascript"
backend_id = 71
starter = ""
`))
	require.Error(t, err)
}

func TestParseInputKeepsKeyOrder(t *testing.T) {
	in, err := ParseInput(`{"target": 9, "nums": [2, 7, 11, 15]}`)
	require.NoError(t, err)

	assert.True(t, in.IsObject)
	assert.Equal(t, []string{"target", "nums"}, in.Keys)
	assert.Equal(t, `[9,[2,7,11,15]]`, in.ArgsJSON())
	assert.Equal(t, `{"target":9,"nums":[2,7,11,15]}`, in.Raw)
}

func TestParseInputShapes(t *testing.T) {
	in, err := ParseInput(`[[1,2],"x"]`)
	require.NoError(t, err)
	assert.False(t, in.IsObject)
	assert.Equal(t, `[[1,2],"x"]`, in.ArgsJSON())

	in, err = ParseInput(`42`)
	require.NoError(t, err)
	assert.Equal(t, `[42]`, in.ArgsJSON())

	in, err = ParseInput("")
	require.NoError(t, err)
	assert.Equal(t, `[]`, in.ArgsJSON())

	_, err = ParseInput(`{"a":`)
	require.Error(t, err)
}

func TestJavaScriptResolver(t *testing.T) {
	code := `
function helper(x) { return x; }
var twoSum = function(nums, target) {
  function inner() {}
  return helper([0, 1]);
};
const last = (a) => a;
`
	entry, err := jsResolver{}.Resolve(code, "twoSum")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "twoSum"}, entry)

	entry, err = jsResolver{}.Resolve(code, "missing")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "missing", Fallback: &EntryPoint{Name: "last"}}, entry)

	entry, err = jsResolver{}.Resolve(code, "")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "last"}, entry)

	entry, err = jsResolver{}.Resolve("let x = 1;", "solution")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "solution"}, entry)

	_, err = jsResolver{}.Resolve("let x = 1;", "not-a-name")
	require.ErrorIs(t, err, errs.EntryPointNotFound)
}

func TestJavaScriptResolverDeclarationStyles(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"indented declaration", "  function twoSum(nums, target) { return [0,1]; }"},
		{"assignment without declarator", "twoSum = (nums, target) => [0,1];"},
		{"indented const arrow", "\tconst twoSum = async (nums, target) => [0,1];"},
		{"assigned function expression", "twoSum = function(nums, target) { return [0,1]; };"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := jsResolver{}.Resolve(tt.code, "twoSum")
			require.NoError(t, err)
			assert.Equal(t, EntryPoint{Name: "twoSum"}, entry)
		})
	}
}

func TestJavaScriptFallbackSkipsNestedHelpers(t *testing.T) {
	code := `function solve(a) {
  function inner() { return a; }
  return inner();
}
`
	entry, err := jsResolver{}.Resolve(code, "missing")
	require.NoError(t, err)
	require.NotNil(t, entry.Fallback)
	assert.Equal(t, "solve", entry.Fallback.Name)
}

func TestPythonResolver(t *testing.T) {
	code := `
class Solution:
    def __init__(self):
        self.seen = {}

    def helper(self, x):
        return x

    def twoSum(self, nums, target):
        return [0, 1]

def outside():
    pass
`
	entry, err := pyResolver{}.Resolve(code, "twoSum")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "twoSum", Receiver: "Solution"}, entry)

	entry, err = pyResolver{}.Resolve(code, "wrong")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "wrong", Fallback: &EntryPoint{Name: "helper", Receiver: "Solution"}}, entry)

	entry, err = pyResolver{}.Resolve("def a():\n    pass\n\ndef b():\n    pass\n", "")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "b"}, entry)

	entry, err = pyResolver{}.Resolve("twoSum = lambda nums, target: [0, 1]\n", "twoSum")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "twoSum"}, entry)

	_, err = pyResolver{}.Resolve("x = 1\n", "")
	require.ErrorIs(t, err, errs.EntryPointNotFound)
}

func TestPythonResolverMethodsWithoutSelf(t *testing.T) {
	code := `
class Solution:
    @staticmethod
    def twoSum(nums, target):
        def inner():
            return 0
        return [0, 1]

    @classmethod
    def build(cls):
        return cls()
`
	entry, err := pyResolver{}.Resolve(code, "twoSum")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "twoSum", Receiver: "Solution"}, entry)

	entry, err = pyResolver{}.Resolve(code, "inner")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "inner", Fallback: &EntryPoint{Name: "twoSum", Receiver: "Solution"}}, entry)
}

func TestJavaResolver(t *testing.T) {
	code := `
public class Solution {
    private int calls = 0;

    public Solution() {}

    public int[] twoSum(int[] nums, int target) {
        for (int i = 0; i < nums.length; i++) {
            if (nums[i] == target) { return new int[]{i}; }
        }
        return helper();
    }

    private int[] helper() { return new int[]{0, 1}; }
}
`
	entry, err := javaResolver.Resolve(code, "helper")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "helper", Receiver: "Solution"}, entry)

	entry, err = javaResolver.Resolve(code, "wrong")
	require.NoError(t, err)
	assert.Equal(t, "twoSum", entry.Name)

	_, err = javaResolver.Resolve("class Other { void f() {} }", "f")
	require.ErrorIs(t, err, errs.EntryPointNotFound)
}

func TestCppResolver(t *testing.T) {
	code := `
class Solution {
public:
    void merge(vector<int>& nums1, int m, vector<int>& nums2, int n) {
        for (int i = 0; i < n; i++) { nums1[m + i] = nums2[i]; }
        sort(nums1.begin(), nums1.end());
    }
};
`
	entry, err := cppResolver.Resolve(code, "solution")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "merge", Receiver: "Solution"}, entry)

	free := `
int add(int a, int b) { return a + b; }
int twice(int a) { return add(a, a); }
int main() { return 0; }
`
	entry, err = cppResolver.Resolve(free, "add")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "add"}, entry)

	entry, err = cppResolver.Resolve(free, "solution")
	require.NoError(t, err)
	assert.Equal(t, EntryPoint{Name: "twice"}, entry)
}

func TestGenerateInjectsCodeAndInput(t *testing.T) {
	generator := NewGenerator(newTestRegistry(t))
	input := `{"nums":[2,7,11,15],"target":9}`

	tests := []struct {
		name     string
		id       int
		code     string
		contains []string
	}{
		{
			name: "javascript",
			id:   63,
			code: "var twoSum = function(nums, target) { return [0, 1]; };",
			contains: []string{
				"const __graderEntry = (typeof twoSum === 'function' ? twoSum : undefined);",
				jsString(input),
				`"--- Console Output ---"`,
			},
		},
		{
			name: "python",
			id:   71,
			code: "class Solution:\n    def twoSum(self, nums, target):\n        return [0, 1]\n",
			contains: []string{
				"target = Solution().twoSum",
				pyString(input),
				`print("--- Console Output ---")`,
			},
		},
		{
			name: "java",
			id:   62,
			code: "public class Solution {\n    public int[] twoSum(int[] nums, int target) { return new int[]{0, 1}; }\n}",
			contains: []string{
				"\nclass Solution {",
				`m.getName().equals("twoSum")`,
				`mapper.readTree("[[2,7,11,15],9]")`,
				"public class Main",
			},
		},
		{
			name: "cpp",
			id:   54,
			code: "class Solution {\npublic:\n    vector<int> twoSum(vector<int>& nums, int target) { return {0, 1}; }\n};",
			contains: []string{
				"value = grader::call(solution, &Solution::twoSum, params);",
				`json::parse("[[2,7,11,15],9]")`,
				"#include <nlohmann/json.hpp>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := generator.Generate(tt.code, tt.id, input, "twoSum")
			require.NoError(t, err)
			if tt.name != "java" {
				assert.Contains(t, src, tt.code)
			}
			for _, want := range tt.contains {
				assert.Contains(t, src, want)
			}
			assert.NotContains(t, src, "{{")
		})
	}
}

func TestGenerateKeepsUndetectedEntryPoint(t *testing.T) {
	generator := NewGenerator(newTestRegistry(t))
	input := `{"nums":[2,7],"target":9}`

	src, err := generator.Generate("  function twoSum(nums, target) { return [0,1]; }", 63, input, "twoSum")
	require.NoError(t, err)
	assert.Contains(t, src, "(typeof twoSum === 'function' ? twoSum : undefined)")

	src, err = generator.Generate("function helper() {}\nthis.twoSum = helper;", 63, input, "twoSum")
	require.NoError(t, err)
	assert.Contains(t, src, "(typeof twoSum === 'function' ? twoSum : (typeof helper === 'function' ? helper : undefined))")

	code := "class Solution:\n    @staticmethod\n    def twoSum(nums, target):\n        return [0, 1]\n"
	src, err = generator.Generate(code, 71, input, "twoSum")
	require.NoError(t, err)
	assert.Contains(t, src, "target = Solution().twoSum")

	code = "class Solution:\n    def helper(self):\n        pass\n"
	src, err = generator.Generate(code, 71, input, "twoSum")
	require.NoError(t, err)
	assert.Contains(t, src, `target = __grader_lookup("twoSum", lambda: Solution().helper)`)
}

func TestGenerateErrors(t *testing.T) {
	generator := NewGenerator(newTestRegistry(t))

	_, err := generator.Generate("x", 51, "[]", "f")
	require.ErrorIs(t, err, errs.UnsupportedLanguage)

	_, err = generator.Generate("let x = 1;", 63, "[]", "not-a-name")
	require.ErrorIs(t, err, errs.EntryPointNotFound)

	_, err = generator.Generate("function f() {}", 63, "{", "f")
	require.Error(t, err)
}

// The backend stand-in echoes the serialized input; parsing it must give the
// input back unchanged for every language.
func TestHarnessRoundTrip(t *testing.T) {
	registry := newTestRegistry(t)
	generator := NewGenerator(registry)

	code := map[string]string{
		"javascript": "function identity(x) { return x; }",
		"python":     "class Solution:\n    def identity(self, x):\n        return x\n",
		"java":       "class Solution {\n    public Object identity(Object x) { return x; }\n}",
		"cpp":        "class Solution {\npublic:\n    json identity(json x) { return x; }\n};",
	}
	inputs := []string{
		`[{"a":[1,2,{"b":null}],"c":"quote \" and \\ slash","d":true}]`,
		`[[3,1,2]]`,
		`["héllo wörld ✓"]`,
		`[-1.5e3]`,
	}

	for _, lang := range registry.Languages() {
		for _, raw := range inputs {
			src, err := generator.Generate(code[lang.Name()], lang.LanguageID(), raw, "identity")
			require.NoError(t, err, lang.Name())

			in, err := ParseInput(raw)
			require.NoError(t, err)
			assert.True(t, strings.Contains(src, "identity"))

			stdout := string(in.Args[0]) + "\n"
			parsed := result.Parse(stdout)

			var want interface{}
			require.NoError(t, json.Unmarshal(in.Args[0], &want))
			assert.Equal(t, want, parsed.Value, lang.Name())
			assert.True(t, compare.Equal(parsed.Value, want), lang.Name())
		}
	}
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"a\"b\\c"`, javaString(`a"b\c`))
	assert.Equal(t, `"\u00e9\ud83d\ude00"`, javaString("é😀"))
	assert.Equal(t, `"a\"b\\c\?"`, cppString(`a"b\c?`))
	assert.Equal(t, `"\u00e9"`, pyString("é"))
	assert.Equal(t, `" "`, jsString(" "))
}

func TestDefaultTemplates(t *testing.T) {
	registry := newTestRegistry(t)

	assert.Equal(t, "mergesortedarray", FunctionNameFromTitle("88. Merge Sorted Array"))
	assert.Equal(t, "twosum", FunctionNameFromTitle("Two Sum!"))
	assert.Equal(t, "solution", FunctionNameFromTitle("???"))

	want := map[string]string{
		"javascript": "var twosum = function(nums, target) {",
		"python":     "def twosum(self, nums, target):",
		"java":       "public Object twosum(Object nums, Object target) {",
		"cpp":        "json twosum(json nums, json target) {",
	}
	for _, lang := range registry.Languages() {
		tpl := lang.DefaultTemplate("twosum", []string{"nums", "target"})
		assert.Contains(t, tpl, want[lang.Name()], lang.Name())
	}

	js, ok := registry.ByName("javascript")
	require.True(t, ok)
	assert.Contains(t, js.DefaultTemplate("", nil), "var solution = function(input) {")
}

func TestParamNames(t *testing.T) {
	parse := func(raw string) *Input {
		in, err := ParseInput(raw)
		require.NoError(t, err)
		return in
	}

	assert.Equal(t, []string{"nums", "target"}, ParamNames(parse(`{"nums":[2,7],"target":9}`)))
	assert.Equal(t, []string{"arg1", "arg2", "arg3"}, ParamNames(parse(`[1,2,3]`)))
	assert.Equal(t, []string{"input"}, ParamNames(parse(`[[1,2,3]]`)))
	assert.Equal(t, []string{"input"}, ParamNames(parse(`5`)))
	assert.Equal(t, []string{"arg1", "arg2"}, ParamNames(parse(`{"a b":1,"c":2}`)))
	assert.Equal(t, []string{"input"}, ParamNames(nil))
}
