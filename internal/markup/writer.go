// Package markup streams HTML to an io.Writer.
//
// Tags and attributes are serialized through golang.org/x/net/html tokens, so
// attribute values and text are always escaped. Writes after the first error
// are dropped; callers check Err (or the error returned by a Begin closer)
// once at the end.
package markup

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnbalanced is returned when a closer is called out of order.
var ErrUnbalanced = errors.New("unbalanced markup scope")

// Writer writes HTML tokens. It is not safe for concurrent use.
type Writer struct {
	out  io.Writer
	err  error
	open []string
}

// NewWriter returns a Writer streaming to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Attr builds an attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}

// Depth returns the number of scopes still open.
func (w *Writer) Depth() int {
	return len(w.open)
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	if _, err := io.WriteString(w.out, s); err != nil {
		w.err = fmt.Errorf("writing markup: %w", err)
	}
}

func token(tt html.TokenType, tag string, attrs []html.Attribute) html.Token {
	return html.Token{Type: tt, DataAtom: atom.Lookup([]byte(tag)), Data: tag, Attr: attrs}
}

// Open writes a start tag. Prefer Begin, which guarantees the end tag.
func (w *Writer) Open(tag string, attrs ...html.Attribute) {
	w.write(token(html.StartTagToken, tag, attrs).String())
	w.open = append(w.open, tag)
}

// Close writes the end tag of the innermost open element, which must be tag.
func (w *Writer) Close(tag string) error {
	n := len(w.open)
	if n == 0 || w.open[n-1] != tag {
		return fmt.Errorf("%w: closing %q", ErrUnbalanced, tag)
	}
	w.open = w.open[:n-1]
	w.write(token(html.EndTagToken, tag, nil).String())
	return w.err
}

// Begin opens tag and returns the function that closes it. The closer is
// meant to be deferred so the end tag is written on every exit path. It also
// closes any element opened inside the scope and left open, such as after a
// panic in an undeferred nested scope, and returns the writer's sticky error.
func (w *Writer) Begin(tag string, attrs ...html.Attribute) func() error {
	depth := len(w.open)
	w.Open(tag, attrs...)
	return func() error {
		w.unwind(depth)
		return w.err
	}
}

// unwind writes the end tags of every element above depth, innermost first.
func (w *Writer) unwind(depth int) {
	for len(w.open) > depth {
		n := len(w.open) - 1
		tag := w.open[n]
		w.open = w.open[:n]
		w.write(token(html.EndTagToken, tag, nil).String())
	}
}

// Text writes escaped character data.
func (w *Writer) Text(s string) {
	w.write(html.EscapeString(s))
}

// Textf writes formatted, escaped character data.
func (w *Writer) Textf(format string, args ...any) {
	w.Text(fmt.Sprintf(format, args...))
}

// Element writes a complete element containing text.
func (w *Writer) Element(tag, text string, attrs ...html.Attribute) {
	end := w.Begin(tag, attrs...)
	w.Text(text)
	_ = end()
}

// Void writes a self-contained element such as <br> or <input>.
func (w *Writer) Void(tag string, attrs ...html.Attribute) {
	w.write(token(html.StartTagToken, tag, attrs).String())
}

// Raw writes trusted markup unchanged.
func (w *Writer) Raw(s string) {
	w.write(s)
}
