package defold

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Encode writes a Document to writer.
func Encode(w io.Writer, d *Document, opt *FormatOptions) error {
	fopt := opt.normalize()
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, indent: fopt.Indent}
	if d != nil {
		if err := wr.writeNodes(d.nodes); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// EncodeFile writes a Document to a file.
func EncodeFile(path string, d *Document, opt *FormatOptions) error {
	b, err := Format(d, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// Format renders a Document to bytes.
func Format(d *Document, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writer writes a Document to a writer.
type writer struct {
	w      io.Writer // Writer to write to
	indent string    // Indentation string
	cache  []string  // Cache of indentation strings
	level  int       // Current nesting level
}

// writeNodes writes nodes in order.
func (w *writer) writeNodes(nodes []node) error {
	for _, n := range nodes {
		if err := w.writeNode(n); err != nil {
			return err
		}
	}

	return nil
}

// writeNode writes a node to the writer.
func (w *writer) writeNode(n node) error {
	switch t := n.(type) {
	case fieldNode:
		return w.writeField(t)
	case blockNode:
		return w.writeBlock(t)
	default:
		return nil
	}
}

// writeBlock writes a blockNode to the writer.
func (w *writer) writeBlock(b blockNode) error {
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString(b.Name); err != nil {
		return err
	}
	if err := w.writeString(" {\n"); err != nil {
		return err
	}

	w.level++
	if err := w.writeNodes(b.Body); err != nil {
		return err
	}
	w.level--

	if err := w.writeIndent(); err != nil {
		return err
	}

	return w.writeString("}\n")
}

// writeField writes a fieldNode to the writer.
func (w *writer) writeField(f fieldNode) error {
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString(f.Name); err != nil {
		return err
	}
	if err := w.writeString(": "); err != nil {
		return err
	}
	if err := w.writeValue(f.Value); err != nil {
		return err
	}

	return w.writeString("\n")
}

// writeIndent writes the current indentation level to the writer.
func (w *writer) writeIndent() error {
	if w.level <= 0 {
		return nil
	}

	return w.writeString(w.indentFor(w.level))
}

// writeValue writes a value to the writer.
func (w *writer) writeValue(v value) error {
	switch v.Kind {
	case valueNumber:
		// Numbers read from text keep their literal spelling.
		if v.Str != "" {
			return w.writeString(v.Str)
		}
		return w.writeNumber(v.Num)
	case valueString:
		return w.writeQuoted(v.Str)
	case valueIdent:
		return w.writeString(v.Str)
	default:
		return nil
	}
}

// writeNumber writes a float64 value to the writer.
func (w *writer) writeNumber(v float64) error {
	var buf [32]byte
	_, err := w.w.Write(appendFloat(buf[:0], v))

	return err
}

// writeQuoted writes an escaped quoted string to the writer.
func (w *writer) writeQuoted(s string) error {
	if err := w.writeString("\""); err != nil {
		return err
	}
	if err := w.writeString(escapeString(s)); err != nil {
		return err
	}

	return w.writeString("\"")
}

// writeString writes a string to the writer.
func (w *writer) writeString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// indentFor returns the indentation string for a nesting level.
func (w *writer) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(w.cache) <= level {
		w.cache = append(w.cache, make([]string, level-len(w.cache)+1)...)
	}
	if w.cache[level] == "" {
		w.cache[level] = strings.Repeat(w.indent, level)
	}

	return w.cache[level]
}

// stringEscaper escapes characters the lexer treats specially inside quotes.
var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// escapeString escapes s for a quoted string literal.
func escapeString(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t") {
		return s
	}
	return stringEscaper.Replace(s)
}

// formatFloat renders v in its shortest round-trip spelling.
func formatFloat(v float64) string {
	var buf [32]byte
	return string(appendFloat(buf[:0], v))
}

// appendFloat appends the shortest spelling that parses back to exactly v.
// Plain notation always carries a fractional part ("1.0"); exponent notation
// is used below 1e-4 and from 1e16 up ("1e-05", "1e+16").
func appendFloat(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "nan"...)
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.AppendFloat(dst, v, 'e', -1, 64)
	}

	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', -1, 64)
	if bytes.IndexByte(dst[start:], '.') < 0 {
		dst = append(dst, ".0"...)
	}

	return dst
}
