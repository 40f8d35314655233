package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"roomplanner/internal/converter/models"
)

// ============================================================
// Path Parser
// ============================================================

// ParsePath flattens the straight-line subset of SVG path data
// (M, L, H, V, Z in both cases) into points. Extra coordinate pairs after
// M or L repeat the command, as the SVG grammar allows.
func ParsePath(d string) ([]models.Point, error) {
	tokens := tokenize(d)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty path")
	}

	var (
		points []models.Point
		cur    models.Point
		start  models.Point
		cmd    byte
	)

	next := func(i *int) (float64, error) {
		if *i >= len(tokens) || isCommand(tokens[*i]) {
			return 0, fmt.Errorf("command %c: missing number", cmd)
		}
		v, err := strconv.ParseFloat(tokens[*i], 64)
		if err != nil {
			return 0, fmt.Errorf("command %c: %w", cmd, err)
		}
		*i++
		return v, nil
	}

	for i := 0; i < len(tokens); {
		if isCommand(tokens[i]) {
			cmd = tokens[i][0]
			i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("path must start with a command")
		}

		switch cmd {
		case 'M', 'm', 'L', 'l':
			x, err := next(&i)
			if err != nil {
				return nil, err
			}
			y, err := next(&i)
			if err != nil {
				return nil, err
			}
			if cmd == 'm' || cmd == 'l' {
				x, y = cur.X+x, cur.Y+y
			}
			cur = models.Point{X: x, Y: y}
			if cmd == 'M' || cmd == 'm' {
				start = cur
				// implicit repeats of a moveto are linetos
				cmd = map[byte]byte{'M': 'L', 'm': 'l'}[cmd]
			}
			points = append(points, cur)

		case 'H', 'h':
			x, err := next(&i)
			if err != nil {
				return nil, err
			}
			if cmd == 'h' {
				x += cur.X
			}
			cur.X = x
			points = append(points, cur)

		case 'V', 'v':
			y, err := next(&i)
			if err != nil {
				return nil, err
			}
			if cmd == 'v' {
				y += cur.Y
			}
			cur.Y = y
			points = append(points, cur)

		case 'Z', 'z':
			if len(points) > 0 {
				points = append(points, start)
			}
			cur = start
			cmd = 0
			if i < len(tokens) && !isCommand(tokens[i]) {
				return nil, fmt.Errorf("numbers after closepath")
			}

		default:
			return nil, fmt.Errorf("unsupported path command %c", cmd)
		}
	}

	return points, nil
}

func isCommand(tok string) bool {
	return len(tok) == 1 && unicode.IsLetter(rune(tok[0])) && tok != "e" && tok != "E"
}

// tokenize splits path data into single-letter commands and numbers.
func tokenize(d string) []string {
	var (
		tokens []string
		num    strings.Builder
	)
	flush := func() {
		if num.Len() > 0 {
			tokens = append(tokens, num.String())
			num.Reset()
		}
	}

	for i := 0; i < len(d); i++ {
		ch := d[i]
		switch {
		case ch == ',' || ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			flush()
		case ch == 'e' || ch == 'E':
			num.WriteByte(ch)
		case (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'):
			flush()
			tokens = append(tokens, string(ch))
		case ch == '-' || ch == '+':
			// a sign starts a new number unless it follows an exponent
			s := num.String()
			if len(s) > 0 && s[len(s)-1] != 'e' && s[len(s)-1] != 'E' {
				flush()
			}
			num.WriteByte(ch)
		default:
			num.WriteByte(ch)
		}
	}
	flush()
	return tokens
}
