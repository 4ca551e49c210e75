package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tsmulti/internal/adapters/rewrite"
)

func values(specs []rewrite.Specifier) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Value)
	}
	return out
}

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want []string
	}{
		{"side effect import", `import "./a";`, []string{"./a"}},
		{"default import", `import a from './a';`, []string{"./a"}},
		{"named import", "import { a, b as c } from \"./a\"\n", []string{"./a"}},
		{"namespace import", `import * as ns from "./ns";`, []string{"./ns"}},
		{"default and named", `import d, { e } from "./d";`, []string{"./d"}},
		{"re-export", `export { a } from "./a"; export * from "./b"; export * as c from "./c";`, []string{"./a", "./b", "./c"}},
		{"local export", `export { a }; const x = "./no";`, nil},
		{"dynamic import", `const m = await import("./lazy");`, []string{"./lazy"}},
		{"dynamic import with options", `import("./data.json", { with: { type: "json" } });`, []string{"./data.json"}},
		{"require", `const a = require("./a");`, []string{"./a"}},
		{"require with spaces", `require ( './a' )`, []string{"./a"}},
		{"require expression", `require("./" + name)`, nil},
		{"member require", `module.require("./a"); obj.import("./b");`, nil},
		{"template argument", "require(`./a`)", nil},
		{"import meta", `const u = import.meta.url;`, nil},
		{"line comment", "// require(\"./a\")\nrequire(\"./b\")", []string{"./b"}},
		{"block comment", `/* import "./a"; */ import "./b";`, []string{"./b"}},
		{"string literal", `const s = "require('./a')";`, nil},
		{"template literal", "const s = `import \"./a\"`;", nil},
		{"template substitution", "const s = `${require(\"./a\")}`;", []string{"./a"}},
		{"nested template", "const s = `${`${x}`}`; require(\"./b\");", []string{"./b"}},
		{"regexp literal", `const re = /require("\.\/a")/g; require("./b");`, []string{"./b"}},
		{"regexp with class", `if (/[/"]/.test(s)) require("./b");`, []string{"./b"}},
		{"division", `const x = a / b; require("./c"); const y = c / d;`, []string{"./c"}},
		{"regexp after return", "function f() { return /import \"x\"/; }", nil},
		{"escaped quote", `const s = 'it\'s'; require("./a");`, []string{"./a"}},
		{"bare specifier", `import React from "react";`, []string{"react"}},
		{"identifier containing keyword", `myrequire("./a"); reimport("./b");`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := values(rewrite.Scan([]byte(tt.code)))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_Offsets(t *testing.T) {
	t.Parallel()

	code := `import x from "./x";`
	specs := rewrite.Scan([]byte(code))
	if assert.Len(t, specs, 1) {
		assert.Equal(t, "./x", code[specs[0].Start:specs[0].End])
	}
}
