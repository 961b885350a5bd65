package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a leading UTF-8 BOM and applies Unicode NFC
// normalization so that lexically equivalent source produces identical
// token streams regardless of encoding variations (e.g. "café" in NFC vs
// NFD). It runs over a file's whole contents each time the store takes
// them in (store.ApplyChange), rather than per-token.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
