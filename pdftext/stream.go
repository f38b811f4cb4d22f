package pdftext

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"
)

// literalRe matches PDF string literals in parentheses: (text here).
var literalRe = regexp.MustCompile(`\(([^)]*)\)`)

// decodeContentStream walks a page content stream line by line and collects
// the text shown by the Tj, TJ and ' operators. Positioning operators
// (Td/TD, T*) are approximated with a space or newline; full layout
// reconstruction is out of scope for report text.
func decodeContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			writeLiterals(&sb, line, false)
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			writeLiterals(&sb, line, true)
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return tidy(sb.String())
}

func writeLiterals(sb *strings.Builder, line []byte, newline bool) {
	for _, m := range literalRe.FindAllSubmatch(line, -1) {
		text := unescapeLiteral(m[1])
		if text == "" {
			continue
		}
		if newline {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
}

// unescapeLiteral resolves PDF string escapes: \n \r \t \\ \( \) and
// one-to-three digit octal codes.
func unescapeLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(c)
		default:
			if c < '0' || c > '7' {
				sb.WriteByte(c)
				break
			}
			val := int(c - '0')
			for d := 0; d < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; d++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}

// tidy collapses the whitespace runs introduced by positioning
// approximation. Full canonicalization is the pipeline normalizer's job;
// here only adjacent duplicates are squeezed.
func tidy(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteRune(r)
				prevSpace = true
			}
			continue
		}
		sb.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimSpace(sb.String())
}
