package dialog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CancelAnswer dismisses a console prompt.
const CancelAnswer = ":q"

// Console is a line oriented Dialog, usually on stdin and stdout.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{scanner: bufio.NewScanner(in), out: out}
}

func (c *Console) Input(title, message string) (string, error) {
	c.printf("\n== %s ==\n%s\n(%s para cancelar)\n> ", title, message, CancelAnswer)
	return c.readLine()
}

func (c *Console) Message(title, message string, level Level) {
	c.printf("\n[%s] %s\n%s\n", strings.ToUpper(string(level)), title, message)
}

// Choose prints the options numbered from 1 and asks until one of the numbers is entered.
func (c *Console) Choose(title, message string, options []string) (int, error) {
	c.printf("\n== %s ==\n%s\n", title, message)
	for i, option := range options {
		c.printf("  %d) %s\n", i+1, option)
	}

	for {
		c.printf("(%s para cancelar)\n> ", CancelAnswer)
		answer, err := c.readLine()
		if err != nil {
			return -1, err
		}
		choice, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && choice >= 1 && choice <= len(options) {
			return choice - 1, nil
		}
		c.printf("Escolha um número entre 1 e %d.\n", len(options))
	}
}

func (c *Console) readLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", fmt.Errorf("error reading console input: %w", err)
		}
		return "", io.EOF
	}
	line := c.scanner.Text()
	if strings.TrimSpace(line) == CancelAnswer {
		return "", ErrCancelled
	}
	return line, nil
}

func (c *Console) printf(format string, a ...any) {
	if _, err := fmt.Fprintf(c.out, format, a...); err != nil {
		log.WithError(err).Warn("Could not write to console")
	}
}
