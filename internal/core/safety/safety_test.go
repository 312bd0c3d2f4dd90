package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

func TestCheckRejects(t *testing.T) {
	tests := []struct {
		language string
		code     string
	}{
		{"javascript", "process.exit(0)"},
		{"javascript", "const cp = require('child_process');"},
		{"javascript", "const fs = require(\"fs\");"},
		{"javascript", "import { readFileSync } from 'node:fs';"},
		{"javascript", "eval('1+1')"},
		{"javascript", "const f = new Function('return 1');"},
		{"python", "import os\n"},
		{"python", "import subprocess\nsubprocess.run(['ls'])"},
		{"python", "sys.exit(1)"},
		{"python", "exec('print(1)')"},
		{"python", "data = open('/etc/passwd').read()"},
		{"java", "System.exit(0);"},
		{"java", "new ProcessBuilder(\"ls\").start();"},
		{"java", "Runtime.getRuntime().exec(\"ls\");"},
		{"java", "java.io.File f = null;"},
		{"cpp", "#include <fstream>\n"},
		{"cpp", "system(\"ls\");"},
		{"cpp", "exit(1);"},
	}

	for _, tt := range tests {
		t.Run(tt.language+"/"+tt.code, func(t *testing.T) {
			err := Check(tt.code, tt.language)
			require.ErrorIs(t, err, errs.UnsafeCodeRejected)
		})
	}
}

func TestCheckAccepts(t *testing.T) {
	tests := []struct {
		language string
		code     string
	}{
		{"javascript", "var twoSum = function(nums, target) { const seen = new Map(); return [0, 1]; };"},
		{"javascript", "function evaluate(x) { return x.evaluate(); }"},
		{"python", "class Solution:\n    def twoSum(self, nums, target):\n        return [0, 1]\n"},
		{"python", "def execute(self):\n    return self.reopen()\n"},
		{"java", "class Solution { public int[] twoSum(int[] a, int t) { return new int[]{0, 1}; } }"},
		{"cpp", "class Solution { public: int add(int a, int b) { return a + b; } };"},
		{"cpp", "std::vector<int> v; v.erase(v.begin());"},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			assert.NoError(t, Check(tt.code, tt.language))
		})
	}
}
