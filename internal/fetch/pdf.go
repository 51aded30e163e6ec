package fetch

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/lawfinder/pkg/formatting"
)

// ExtractPDF returns the text shown by each page's content stream, pages joined by newlines.
func ExtractPDF(data []byte) (string, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= ctx.PageCount; i++ {
		r, err := pdfcpu.ExtractPageContent(ctx, i)
		if err != nil || r == nil {
			continue
		}
		stream, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		if text := ContentText(stream); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n"), nil
}

// ContentText returns the string operands shown inside the text objects of a
// page content stream, joined by spaces. Literal strings honor PDF escapes and
// hex strings are decoded, as UTF-16BE when they carry a byte order mark or
// two-byte CID codes. Font encodings beyond that are not applied.
func ContentText(stream []byte) string {
	var (
		parts  []string
		inText bool
	)

	for i := 0; i < len(stream); {
		c := stream[i]
		switch {
		case isSpace(c):
			i++
		case c == '%':
			for i < len(stream) && stream[i] != '\n' && stream[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := readLiteral(stream, i+1)
			if inText {
				parts = append(parts, s)
			}
			i = next
		case c == '<' && i+1 < len(stream) && stream[i+1] == '<':
			i += 2
		case c == '<':
			s, next := readHex(stream, i+1)
			if inText {
				parts = append(parts, s)
			}
			i = next
		case isDelim(c):
			i++
		default:
			start := i
			for i < len(stream) && !isSpace(stream[i]) && !isDelim(stream[i]) {
				i++
			}
			switch string(stream[start:i]) {
			case "BT":
				inText = true
			case "ET":
				inText = false
			}
		}
	}

	return formatting.CollapseSpace(strings.Join(parts, " "))
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

// readLiteral decodes a literal string starting after its opening
// parenthesis and returns the text and the index past the closing one.
func readLiteral(b []byte, i int) (string, int) {
	var out []byte
	depth := 1
	for i < len(b) {
		c := b[i]
		switch c {
		case '\\':
			i++
			if i >= len(b) {
				return string(out), i
			}
			e := b[i]
			switch e {
			case 'n', 'r', 't', 'f':
				out = append(out, ' ')
			case 'b':
			case '\r', '\n':
				if e == '\r' && i+1 < len(b) && b[i+1] == '\n' {
					i++
				}
			default:
				if e >= '0' && e <= '7' {
					v := 0
					n := 0
					for n < 3 && i < len(b) && b[i] >= '0' && b[i] <= '7' {
						v = v*8 + int(b[i]-'0')
						i++
						n++
					}
					out = append(out, byte(v))
					continue
				}
				out = append(out, e)
			}
			i++
		case '(':
			depth++
			out = append(out, c)
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return decodeText(out), i
			}
			out = append(out, c)
		default:
			out = append(out, c)
			i++
		}
	}
	return decodeText(out), i
}

// readHex decodes a hex string starting after its opening angle bracket.
// An odd trailing digit is padded with 0.
func readHex(b []byte, i int) (string, int) {
	var digits []byte
	for i < len(b) && b[i] != '>' {
		if _, ok := hexValue(b[i]); ok {
			digits = append(digits, b[i])
		}
		i++
	}
	if i < len(b) {
		i++
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, len(digits)/2)
	for j := range out {
		hi, _ := hexValue(digits[2*j])
		lo, _ := hexValue(digits[2*j+1])
		out[j] = hi<<4 | lo
	}
	return decodeText(out), i
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// decodeText reads raw string bytes as UTF-16BE when they start with a byte
// order mark or every code has a zero high byte, and as single bytes otherwise.
func decodeText(raw []byte) string {
	if len(raw) >= 2 && len(raw)%2 == 0 && (bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) || zeroHighBytes(raw)) {
		if bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
			raw = raw[2:]
		}
		units := make([]uint16, len(raw)/2)
		for j := range units {
			units[j] = uint16(raw[2*j])<<8 | uint16(raw[2*j+1])
		}
		return printable(string(utf16.Decode(units)))
	}

	runes := make([]rune, len(raw))
	for j, c := range raw {
		runes[j] = rune(c)
	}
	return printable(string(runes))
}

func zeroHighBytes(raw []byte) bool {
	for j := 0; j < len(raw); j += 2 {
		if raw[j] != 0 {
			return false
		}
	}
	return true
}

func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return ' '
	}, s)
}
