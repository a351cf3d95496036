package render

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/webtables/internal/table"
)

// DefaultTimeLayout is used for time.Time cells without a column format.
const DefaultTimeLayout = "2006-01-02 15:04"

// defaultFloatPrecision is used for float cells without a column format.
const defaultFloatPrecision = 2

// Formatter turns row values into display text. Numbers get thousand
// separators for its language.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for lang.
func NewFormatter(lang language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(lang)}
}

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func (f *Formatter) FormatNumber(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// FormatFloat formats a float with the given precision and thousand separators.
// Example: FormatFloat(1234.567, 2) returns "1,234.57".
func (f *Formatter) FormatFloat(v float64, precision int) string {
	const base = 10
	multiplier := math.Pow(base, float64(precision))
	rounded := math.Round(v*multiplier) / multiplier

	if precision <= 0 {
		return f.FormatNumber(int64(rounded))
	}

	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, fracPart, ok := strings.Cut(formatted, ".")
	if !ok {
		return formatted
	}
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}
	sign := ""
	if n == 0 && strings.HasPrefix(intPart, "-") {
		sign = "-"
	}
	return sign + f.FormatNumber(n) + "." + fracPart
}

// Cell returns the display text of col for row. Missing and nil values
// render as an empty string.
func (f *Formatter) Cell(row any, col table.Column) string {
	v, ok := table.PropertyValue(row, col.FieldPath())
	if !ok || !v.IsValid() || !v.CanInterface() {
		return ""
	}
	if col.Format != "" {
		return f.printer.Sprintf(col.Format, v.Interface())
	}
	return f.Value(v.Interface())
}

// Value formats a single value using type defaults.
func (f *Formatter) Value(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case time.Time:
		if typed.IsZero() {
			return ""
		}
		return typed.Format(DefaultTimeLayout)
	case fmt.Stringer:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	}

	rv := reflect.ValueOf(v)
	//nolint:exhaustive // Other kinds print with %v.
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.FormatNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return f.printer.Sprintf("%d", rv.Uint())
	case reflect.Float32, reflect.Float64:
		return f.FormatFloat(rv.Float(), defaultFloatPrecision)
	default:
		return fmt.Sprint(v)
	}
}
