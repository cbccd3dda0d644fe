package lookup

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Numeric strings are read up to the first character that cannot continue
// the number, so "12abc" is 12 and "3.5kg" is 3.5.
var (
	intPrefixRe   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefixRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// format consumes args for each %s, %d, %f or %o verb in s.
func (c *Catalog) format(s string, args []any) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+1 >= len(s) || !strings.ContainsRune("sdfo", rune(s[i+1])) {
			b.WriteByte(s[i])
			continue
		}
		if len(args) == 0 {
			b.WriteString(s[i : i+2])
			i++
			continue
		}
		arg := args[0]
		args = args[1:]
		b.WriteString(c.verb(s[i+1], arg))
		i++
	}
	return b.String()
}

func (c *Catalog) verb(v byte, arg any) string {
	switch v {
	case 'd':
		f, ok := toFloat(arg, intPrefixRe)
		if !ok {
			return "NaN"
		}
		n := int64(math.Trunc(f))
		if c.printer != nil {
			return c.printer.Sprintf("%d", n)
		}
		return strconv.FormatInt(n, 10)
	case 'f':
		f, ok := toFloat(arg, floatPrefixRe)
		if !ok {
			return "NaN"
		}
		if c.printer != nil {
			return c.printer.Sprint(f)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return fmt.Sprint(arg)
	}
}

// toFloat converts numeric arguments. Strings are parsed from the longest
// leading prefix matched by prefix.
func toFloat(arg any, prefix *regexp.Regexp) (float64, bool) {
	switch x := arg.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		num := prefix.FindString(strings.TrimSpace(x))
		if num == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(num, 64)
		return f, err == nil
	}
	return 0, false
}
