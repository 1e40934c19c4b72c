package literal

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// Int is an integer literal value. Values that fit in an int64 are stored
// directly and larger values are promoted to a big.Int.
type Int struct {
	small int64
	big   *big.Int
}

func NewInt(v int64) Int {
	return Int{small: v}
}

func (i Int) IsBig() bool {
	return i.big != nil
}

// Int64 returns the value and whether it fits in an int64.
func (i Int) Int64() (int64, bool) {
	if i.big != nil {
		return 0, false
	}
	return i.small, true
}

func (i Int) BigInt() *big.Int {
	if i.big != nil {
		return new(big.Int).Set(i.big)
	}
	return big.NewInt(i.small)
}

func (i Int) String() string {
	if i.big != nil {
		return i.big.String()
	}
	return strconv.FormatInt(i.small, 10)
}

// digitValue maps a character to its value as a digit in bases up to 36.
// Decimal digits from other scripts are accepted.
func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10, true
	case r >= 0x660 && r <= 0x669:
		return int(r - 0x660), true
	case r >= 0x6f0 && r <= 0x6f9:
		return int(r - 0x6f0), true
	}
	return 0, false
}

// ParseInteger decodes an integer in the given base. A base of 0 selects the
// base from the prefix: 0x, 0o and 0b as usual, and a bare leading zero for
// octal. Underscores between digits are ignored.
func ParseInteger(text string, base int) (Int, error) {
	s := strings.TrimFunc(text, unicode.IsSpace)
	offset := strings.Index(text, s)
	if base != 0 && (base < 2 || base > 36) {
		return Int{}, fail(ErrorInvalidBase, 0, "%d", base)
	}
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
		offset = offset + 1
	}
	if n := len(s); n > 0 && (s[n-1] == 'l' || s[n-1] == 'L') {
		s = s[:n-1]
	}
	prefix := func(p byte) bool {
		return len(s) > 1 && s[0] == '0' && (s[1] == p || s[1] == p-'a'+'A')
	}
	detect := base == 0
	switch {
	case (detect || base == 16) && prefix('x'):
		base, s, offset = 16, s[2:], offset+2
	case (detect || base == 8) && prefix('o'):
		base, s, offset = 8, s[2:], offset+2
	case (detect || base == 2) && prefix('b'):
		base, s, offset = 2, s[2:], offset+2
	case detect && len(strings.TrimLeft(s, "0_")) > 0 && s[0] == '0':
		base = 8
	case detect:
		base = 10
	}

	value := new(big.Int)
	var small int64
	overflow := false
	digits := 0
	bigBase := big.NewInt(int64(base))
	for x, r := range s {
		if r == '_' {
			continue
		}
		d, ok := digitValue(r)
		if !ok || d >= base {
			return Int{}, fail(ErrorInvalidDigit, offset+x, "%q in base %d", r, base)
		}
		digits = digits + 1
		if !overflow && small <= (math.MaxInt64-int64(d))/int64(base) {
			small = small*int64(base) + int64(d)
			continue
		}
		if !overflow {
			overflow = true
			value.SetInt64(small)
		}
		value.Mul(value, bigBase)
		value.Add(value, big.NewInt(int64(d)))
	}
	if digits == 0 {
		return Int{}, fail(ErrorNoDigits, offset, "")
	}
	if !overflow {
		if negative {
			small = -small
		}
		return Int{small: small}, nil
	}
	if negative {
		value.Neg(value)
	}
	return Int{big: value}, nil
}

// ParseFloat decodes a floating point literal. Values too large for a
// float64 become infinities.
func ParseFloat(text string) (float64, error) {
	s := strings.ToLower(strings.TrimFunc(text, unicode.IsSpace))
	sign := 1.0
	body := s
	if body != "" && (body[0] == '+' || body[0] == '-') {
		if body[0] == '-' {
			sign = -1
		}
		body = body[1:]
	}
	switch body {
	case "nan":
		return math.NaN(), nil
	case "inf", "infinity":
		return math.Inf(int(sign)), nil
	}
	if body == "" || strings.HasPrefix(body, "_") || strings.HasSuffix(body, "_") || strings.Contains(body, "__") {
		return 0, fail(ErrorMalformedFloat, 0, "%q", text)
	}
	if strings.ContainsAny(body, "xp") {
		return 0, fail(ErrorMalformedFloat, 0, "%q", text)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(body, "_", ""), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return sign * f, nil
		}
		return 0, fail(ErrorMalformedFloat, 0, "%q", text)
	}
	return sign * f, nil
}

// ParseComplex decodes the text of a complex number such as 1+2j, -3.5j or
// (1e3-1j). A single layer of parentheses is allowed. The imaginary part may
// also come first when written as 2j+1.
func ParseComplex(text string) (complex128, error) {
	s := strings.ToLower(strings.TrimFunc(text, unicode.IsSpace))
	malformed := fail(ErrorMalformedComplex, 0, "%q", text)
	if s == "" || strings.ContainsRune(s, ' ') {
		return 0, malformed
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return 0, malformed
	}

	var real, imag string
	if s[len(s)-1] == 'j' {
		split := strings.LastIndexAny(s, "+-")
		for n := 0; split > 0 && s[split-1] == 'e'; n = n + 1 {
			if n == 2 {
				return 0, malformed
			}
			split = strings.LastIndexAny(s[:split-1], "+-")
		}
		if split < 0 {
			if len(s) == 1 {
				return complex(0, 1), nil
			}
			f, err := ParseFloat(s[:len(s)-1])
			if err != nil {
				return 0, malformed
			}
			return complex(0, f), nil
		}
		real = s[:split]
		imag = s[split : len(s)-1]
		if len(imag) == 1 {
			imag = imag + "1"
		}
	} else {
		parts := strings.Split(s, "j")
		switch len(parts) {
		case 1:
			f, err := ParseFloat(s)
			if err != nil {
				return 0, malformed
			}
			return complex(f, 0), nil
		case 2:
		default:
			return 0, malformed
		}
		imag, real = parts[0], parts[1]
		if !strings.HasPrefix(real, "+") && !strings.HasPrefix(real, "-") {
			return 0, malformed
		}
	}

	var re float64
	if real != "" {
		f, err := ParseFloat(real)
		if err != nil {
			return 0, malformed
		}
		re = f
	}
	im, err := ParseFloat(imag)
	if err != nil {
		return 0, malformed
	}
	return complex(re, im), nil
}
