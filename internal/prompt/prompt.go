// =============================================================================
// Ticket Counter - Prompt Channel
// =============================================================================
//
// The prompt channel asks the user for two kinds of answers:
//   - a bounded integer (menu choice)
//   - yes / no
//
// Invalid answers are never surfaced to the caller: the channel explains what
// it expects and asks again. The only error a caller sees is ErrInputClosed,
// returned when the input stream ends.
//
// The retry behaviour lives in Retry, which knows nothing about terminals.
// Console plugs a line reader into it; tests can plug in anything.
//
// =============================================================================

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned when the input stream ends before a valid
// answer is read.
var ErrInputClosed = errors.New("input closed")

// Rejection reasons passed to the reject callback of Retry.
var (
	ErrNotANumber = errors.New("not a number")
	ErrOutOfRange = errors.New("out of range")
	ErrNotYesOrNo = errors.New("not a yes/no answer")
)

// Channel is the request/response interface the purchase session talks to.
type Channel interface {
	// AskBoundedInt asks until the answer is an integer in [min, max].
	AskBoundedInt(prompt string, min, max int) (int, error)

	// AskYesNo asks until the answer is y, yes, n or no (any case).
	AskYesNo(prompt string) (bool, error)
}

// =============================================================================
// RETRY CONTRACT
// =============================================================================

// Retry reads answers from next and parses them until parse succeeds.
// Every rejected answer is reported to reject (which may be nil). Retry only
// fails when next fails.
func Retry[T any](next func() (string, error), parse func(string) (T, error), reject func(error)) (T, error) {
	for {
		answer, err := next()
		if err != nil {
			var zero T
			return zero, err
		}

		value, perr := parse(answer)
		if perr == nil {
			return value, nil
		}
		if reject != nil {
			reject(perr)
		}
	}
}

// BoundedInt returns a parser accepting plain decimal digits whose value lies
// in [min, max]. Signs, spaces inside the number and fractions are rejected.
func BoundedInt(min, max int) func(string) (int, error) {
	return func(s string) (int, error) {
		s = strings.TrimSpace(s)
		if s == "" || strings.TrimLeft(s, "0123456789") != "" {
			return 0, ErrNotANumber
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			// Only overflow is possible here.
			return 0, ErrOutOfRange
		}
		if n < min || n > max {
			return 0, ErrOutOfRange
		}
		return n, nil
	}
}

// YesNo parses y, yes, n and no, ignoring case and surrounding whitespace.
func YesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, ErrNotYesOrNo
	}
}

// =============================================================================
// CONSOLE CHANNEL
// =============================================================================

// Console is a line-oriented Channel over an input stream and an output
// writer, usually os.Stdin and os.Stdout.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a console channel.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// AskBoundedInt implements Channel.
func (c *Console) AskBoundedInt(prompt string, min, max int) (int, error) {
	return Retry(c.asker(prompt), BoundedInt(min, max), func(error) {
		fmt.Fprintf(c.out, "Please enter a number between %d and %d.\n", min, max)
	})
}

// AskYesNo implements Channel.
func (c *Console) AskYesNo(prompt string) (bool, error) {
	return Retry(c.asker(prompt), YesNo, func(error) {
		fmt.Fprintln(c.out, "Please type y or n.")
	})
}

// asker returns a next func that prints prompt and reads one line.
func (c *Console) asker(prompt string) func() (string, error) {
	return func() (string, error) {
		fmt.Fprint(c.out, prompt)
		return c.readLine()
	}
}

// readLine reads one line without its terminator. A final line without a
// newline is still returned; ErrInputClosed follows on the next call.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				return strings.TrimRight(line, "\r\n"), nil
			}
			fmt.Fprintln(c.out)
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
