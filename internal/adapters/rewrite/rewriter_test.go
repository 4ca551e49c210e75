package rewrite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsmulti/internal/adapters/fs"
	"go.trai.ch/tsmulti/internal/adapters/rewrite"
	"go.trai.ch/tsmulti/internal/core/domain"
)

func setupTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range []string{"src/index.ts", "src/foo.ts", "src/lib/index.ts", "src/both.ts", "src/both/index.ts"} {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, nil, 0o600))
	}
	return dir
}

func TestRewriter_Transform(t *testing.T) {
	t.Parallel()

	dir := setupTree(t)
	r := rewrite.New(fs.NewOSFS(), ".mjs")
	ctx := domain.EmitContext{
		SourceFile: filepath.Join(dir, "src", "index.ts"),
		OutputFile: filepath.Join(dir, "dist", "index.js"),
	}

	code := `import { foo } from "./foo";
import lib from "./lib";
import both from "./both";
export * from "./already.js";
import data from "./data.json";
import "./dot.file";
import cjs from "./legacy.cjs";
import React from "react";
const lazy = () => import("../up");
`
	want := `import { foo } from "./foo.mjs";
import lib from "./lib/index.mjs";
import both from "./both.mjs";
export * from "./already.mjs";
import data from "./data.json";
import "./dot.file.mjs";
import cjs from "./legacy.cjs";
import React from "react";
const lazy = () => import("../up.mjs");
`

	got, err := r.Transform(ctx, []byte(code))
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestRewriter_Rewrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		extname    string
		spec       string
		jsonExempt bool
		want       string
		changed    bool
	}{
		{"extensionless", ".cjs", "./a", false, "./a.cjs", true},
		{"parent", ".cjs", "../a", false, "../a.cjs", true},
		{"js extension swapped", ".cjs", "./a.js", false, "./a.cjs", true},
		{"js on default target", ".js", "./a.js", false, "./a.js", false},
		{"extensionless on default target", "", "./a", false, "./a.js", true},
		{"trailing slash", ".mjs", "./dir/", false, "./dir/index.mjs", true},
		{"json with resolveJsonModule", ".mjs", "./a.json", true, "./a.json", false},
		{"json", ".mjs", "./a.json", false, "./a.json", false},
		{"known extension", ".mjs", "./a.cts", false, "./a.cts", false},
		{"node addon", ".mjs", "./a.node", false, "./a.node", false},
		{"bare", ".mjs", "lodash", false, "lodash", false},
		{"scoped", ".mjs", "@scope/pkg/sub", false, "@scope/pkg/sub", false},
		{"dot only", ".mjs", ".", false, ".", false},
		{"unknown suffix", ".mjs", "./a.worker", false, "./a.worker.mjs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := rewrite.New(nil, tt.extname)
			got, changed := r.Rewrite(tt.spec, nil, tt.jsonExempt)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestRewriter_Transformers(t *testing.T) {
	t.Parallel()

	r := rewrite.New(nil, ".mjs")
	existing := domain.Transformers{After: []domain.Transformer{domain.TransformerFunc(
		func(_ domain.EmitContext, code []byte) ([]byte, error) { return code, nil },
	)}}

	merged := existing.Merge(r.Transformers())
	require.Len(t, merged.After, 2)
	assert.Same(t, r, merged.After[1])
}

func TestRewriter_UnchangedCodeIsReturnedAsIs(t *testing.T) {
	t.Parallel()

	r := rewrite.New(nil, ".mjs")
	code := []byte(`import x from "x"; // nothing relative`)
	got, err := r.Transform(domain.EmitContext{}, code)
	require.NoError(t, err)
	assert.Equal(t, code, got)
}
