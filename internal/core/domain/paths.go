package domain

import "strings"

const jsMapSuffix = DefaultExtname + ".map"

// RemapPath returns the physical path of an emitted file for a target
// extension. Only .js and .js.map paths are affected.
func RemapPath(p, extname string) string {
	if extname == "" || extname == DefaultExtname {
		return p
	}
	if base, ok := strings.CutSuffix(p, jsMapSuffix); ok {
		return base + extname + ".map"
	}
	if base, ok := strings.CutSuffix(p, DefaultExtname); ok {
		return base + extname
	}
	return p
}

// IsJSPath reports whether p is an emitted JavaScript path subject to remapping.
func IsJSPath(p string) bool {
	return strings.HasSuffix(p, DefaultExtname)
}

// IsJSMapPath reports whether p is an emitted source map path subject to remapping.
func IsJSMapPath(p string) bool {
	return strings.HasSuffix(p, jsMapSuffix)
}
