// File: internal/ui/prompt/prompt.go
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the operator to confirm destructive operations
type Prompter interface {
	// Requires the operator to type expectedValue back before proceeding
	Confirm(message string, expectedValue string) (bool, error)
}

type StandardPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewStandardPrompter(in io.Reader, out io.Writer) *StandardPrompter {
	return &StandardPrompter{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// Confirm returns false without error when input ends before a line is entered
func (p *StandardPrompter) Confirm(message string, expectedValue string) (bool, error) {
	if expectedValue == "" {
		return false, fmt.Errorf("expected confirmation value cannot be empty")
	}

	fmt.Fprintln(p.writer, message)
	fmt.Fprintf(p.writer, "To confirm, type '%s': ", expectedValue)

	input, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("error reading user input: %w", err)
	}
	if err != nil && input == "" {
		return false, nil
	}

	return strings.TrimSpace(input) == expectedValue, nil
}

// AlwaysConfirm is used when confirmation has been waived, e.g. by --force
type AlwaysConfirm struct{}

func (AlwaysConfirm) Confirm(string, string) (bool, error) {
	return true, nil
}
