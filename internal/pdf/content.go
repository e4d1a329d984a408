// =============================================================================
// Promo Missing Report - PDF Content Streams
// =============================================================================
//
// Page content is built as a list of Operations (operator + operands) and
// serialised here. Only the operand types the report actually needs are
// supported; anything else is rejected with ErrEncoding rather than written
// as a malformed stream.
//
// =============================================================================

package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEncoding is returned when a page cannot be serialised.
var ErrEncoding = errors.New("pdf encoding failed")

// Name is a PDF name operand, written as /Name.
type Name string

// Text is a PDF literal string operand, written as (Text).
type Text string

// Color is an RGB colour with components in 0..1.
type Color struct {
	R, G, B float64
}

var (
	Black   = Color{0, 0, 0}
	Red     = Color{1, 0, 0}
	Green   = Color{0, 1, 0}
	Yellow  = Color{1, 1, 0}
	Magenta = Color{1, 0, 1}
)

// Operation is one content-stream operator with its operands.
type Operation struct {
	Operator string
	Operands []any
}

// ===== OPERATION BUILDERS =====

func SaveState() Operation    { return Operation{Operator: "q"} }
func RestoreState() Operation { return Operation{Operator: "Q"} }
func BeginText() Operation    { return Operation{Operator: "BT"} }
func EndText() Operation      { return Operation{Operator: "ET"} }
func Stroke() Operation       { return Operation{Operator: "S"} }
func Fill() Operation         { return Operation{Operator: "f"} }

// SetFont selects the shared Helvetica resource at the given size.
func SetFont(size float64) Operation {
	return Operation{Operator: "Tf", Operands: []any{Name(FontResource), size}}
}

func MoveText(x, y float64) Operation {
	return Operation{Operator: "Td", Operands: []any{x, y}}
}

func ShowText(s string) Operation {
	return Operation{Operator: "Tj", Operands: []any{Text(s)}}
}

func Rectangle(x, y, w, h float64) Operation {
	return Operation{Operator: "re", Operands: []any{x, y, w, h}}
}

func LineWidth(w float64) Operation {
	return Operation{Operator: "w", Operands: []any{w}}
}

func StrokeColor(c Color) Operation {
	return Operation{Operator: "RG", Operands: []any{c.R, c.G, c.B}}
}

func FillColor(c Color) Operation {
	return Operation{Operator: "rg", Operands: []any{c.R, c.G, c.B}}
}

// ===== SERIALISATION =====

// EncodeContent serialises ops into an uncompressed content stream.
func EncodeContent(ops []Operation) ([]byte, error) {
	var buf bytes.Buffer
	for i, op := range ops {
		if op.Operator == "" {
			return nil, fmt.Errorf("%w: operation %d has no operator", ErrEncoding, i)
		}
		for _, operand := range op.Operands {
			if err := writeOperand(&buf, operand); err != nil {
				return nil, fmt.Errorf("%w: operator %s: %v", ErrEncoding, op.Operator, err)
			}
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func writeOperand(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case float64:
		return writeNumber(buf, val)
	case float32:
		return writeNumber(buf, float64(val))
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case Name:
		if val == "" || strings.ContainsAny(string(val), " /()<>[]{}%") {
			return fmt.Errorf("invalid name %q", string(val))
		}
		buf.WriteByte('/')
		buf.WriteString(string(val))
	case Text:
		buf.WriteByte('(')
		buf.WriteString(escapeText(string(val)))
		buf.WriteByte(')')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := writeOperand(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unsupported operand type %T", v)
	}
	return nil
}

func writeNumber(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("non-finite number %v", f)
	}
	s := strconv.FormatFloat(f, 'f', 3, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		s = "0"
	}
	buf.WriteString(s)
	return nil
}

// escapeText escapes a literal string for WinAnsiEncoding. Runes outside
// Latin-1 have no glyph in the standard font and are replaced with '?'.
func escapeText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '(' || r == ')':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r < 0x20:
			sb.WriteString(fmt.Sprintf(`\%03o`, r))
		case r < 0x7f:
			sb.WriteRune(r)
		case r < 0x100:
			sb.WriteString(fmt.Sprintf(`\%03o`, r))
		default:
			sb.WriteByte('?')
		}
	}
	return sb.String()
}
