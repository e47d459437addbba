package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a next func that yields answers in order and then
// ErrInputClosed.
func scripted(answers ...string) func() (string, error) {
	return func() (string, error) {
		if len(answers) == 0 {
			return "", ErrInputClosed
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
}

func TestRetry_RepromptsUntilValid(t *testing.T) {
	var rejected []error

	got, err := Retry(scripted("abc", "0", "7", "-1", "2.5", " 3 "), BoundedInt(1, 5), func(err error) {
		rejected = append(rejected, err)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, []error{ErrNotANumber, ErrOutOfRange, ErrOutOfRange, ErrNotANumber, ErrNotANumber}, rejected)
}

func TestRetry_PropagatesSourceError(t *testing.T) {
	_, err := Retry(scripted("x", "y"), BoundedInt(1, 2), nil)
	assert.True(t, errors.Is(err, ErrInputClosed))
}

func TestBoundedInt(t *testing.T) {
	parse := BoundedInt(1, 3)

	tests := []struct {
		in      string
		want    int
		wantErr error
	}{
		{"1", 1, nil},
		{"3", 3, nil},
		{"03", 3, nil},
		{"4", 0, ErrOutOfRange},
		{"0", 0, ErrOutOfRange},
		{"+2", 0, ErrNotANumber},
		{"", 0, ErrNotANumber},
		{"two", 0, ErrNotANumber},
		{"99999999999999999999999", 0, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYesNo(t *testing.T) {
	for _, s := range []string{"y", "Y", "yes", " YES "} {
		got, err := YesNo(s)
		require.NoError(t, err, s)
		assert.True(t, got, s)
	}
	for _, s := range []string{"n", "N", "no", "No"} {
		got, err := YesNo(s)
		require.NoError(t, err, s)
		assert.False(t, got, s)
	}
	for _, s := range []string{"", "maybe", "yep", "1"} {
		_, err := YesNo(s)
		assert.ErrorIs(t, err, ErrNotYesOrNo, s)
	}
}

func TestConsole_AskBoundedInt(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("x\n9\n2\n"), &out)

	got, err := c.AskBoundedInt("Enter category number: ", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a number between 1 and 3."))
	assert.Equal(t, 3, strings.Count(out.String(), "Enter category number: "))
}

func TestConsole_AskYesNo_CRLFAndFinalLine(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("huh\r\nYes"), &out)

	got, err := c.AskYesNo("Confirm purchase? (y/n): ")
	require.NoError(t, err)
	assert.True(t, got)
	assert.Contains(t, out.String(), "Please type y or n.")

	_, err = c.AskYesNo("again? ")
	assert.ErrorIs(t, err, ErrInputClosed)
}
