package esbuild

import (
	"bytes"
	"strings"
	"unicode/utf16"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const vlqAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// shiftMappings moves the generated columns of mappings from before to after,
// the code an After transformer produced from before. Only lines the
// transformer changed are touched. Mappings are returned unchanged when the
// line structure differs, since no column shift can describe that.
func shiftMappings(mappings string, before, after []byte) string {
	if bytes.Equal(before, after) {
		return mappings
	}
	oldLines := strings.Split(string(before), "\n")
	newLines := strings.Split(string(after), "\n")
	if len(oldLines) != len(newLines) {
		return mappings
	}

	dmp := diffmatchpatch.New()
	lines := strings.Split(mappings, ";")
	for i, line := range lines {
		if i >= len(oldLines) || line == "" || oldLines[i] == newLines[i] {
			continue
		}
		diffs := dmp.DiffMain(oldLines[i], newLines[i], false)
		shifted, ok := shiftLine(line, func(col int) int { return mapColumn(diffs, col) })
		if ok {
			lines[i] = shifted
		}
	}
	return strings.Join(lines, ";")
}

// shiftLine rewrites the generated column of every segment of one mappings
// line. Only the first field is relative within the line, the other fields
// are kept as they are.
func shiftLine(line string, mapCol func(int) int) (string, bool) {
	segments := strings.Split(line, ",")
	prevOld, prevNew := 0, 0
	var b strings.Builder
	for i, seg := range segments {
		fields, ok := decodeVLQ(seg)
		if !ok || len(fields) == 0 {
			return line, false
		}
		oldCol := prevOld + fields[0]
		newCol := mapCol(oldCol)
		fields[0] = newCol - prevNew
		prevOld, prevNew = oldCol, newCol

		if i > 0 {
			b.WriteByte(',')
		}
		for _, f := range fields {
			encodeVLQ(&b, f)
		}
	}
	return b.String(), true
}

// mapColumn translates a UTF-16 column of the old line to the new line.
// Columns inside deleted text land where the deletion happened.
func mapColumn(diffs []diffmatchpatch.Diff, col int) int {
	oldPos, newPos := 0, 0
	for _, d := range diffs {
		n := utf16Len(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if col < oldPos+n {
				return newPos + col - oldPos
			}
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			if col < oldPos+n {
				return newPos
			}
			oldPos += n
		case diffmatchpatch.DiffInsert:
			newPos += n
		}
	}
	return newPos + col - oldPos
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func decodeVLQ(seg string) ([]int, bool) {
	var fields []int
	value, shift := 0, 0
	for i := 0; i < len(seg); i++ {
		digit := strings.IndexByte(vlqAlphabet, seg[i])
		if digit < 0 {
			return nil, false
		}
		value += (digit & 31) << shift
		if digit&32 != 0 {
			shift += 5
			continue
		}
		if value&1 != 0 {
			fields = append(fields, -(value >> 1))
		} else {
			fields = append(fields, value>>1)
		}
		value, shift = 0, 0
	}
	if shift != 0 {
		return nil, false
	}
	return fields, true
}

func encodeVLQ(b *strings.Builder, v int) {
	vlq := v << 1
	if v < 0 {
		vlq = (-v << 1) | 1
	}
	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq > 0 {
			digit |= 32
		}
		b.WriteByte(vlqAlphabet[digit])
		if vlq == 0 {
			return
		}
	}
}
