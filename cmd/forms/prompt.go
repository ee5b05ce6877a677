package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var errAborted = errors.New("aborted")

// prompter reads answers line by line from the command's input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // terminal descriptor for hidden input, -1 when not a terminal
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// line prints label and returns the next input line without its newline.
// A final line without a newline is returned as is.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, labelStyle.Render(label)+" ")
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return "", errAborted
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// secret reads a password, hiding it when the input is a terminal.
func (p *prompter) secret(label string) (string, error) {
	if p.fd < 0 {
		return p.line(label)
	}
	fmt.Fprint(p.out, labelStyle.Render(label)+" ")
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (p *prompter) confirm(label string) (bool, error) {
	s, err := p.line(label + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// choice asks for one of options by number. An empty answer is allowed
// unless required.
func (p *prompter) choice(label string, options []string, required bool) (string, error) {
	for {
		s, err := p.line(label)
		if err != nil {
			return "", err
		}
		s = strings.TrimSpace(s)
		if s == "" && !required {
			return "", nil
		}
		picked, err := parseSelection(s, len(options))
		if err == nil && len(picked) == 1 {
			return options[picked[0]], nil
		}
		fmt.Fprintln(p.out, fieldErr.Render(fmt.Sprintf("Enter a number between 1 and %d", len(options))))
	}
}

// parseSelection turns "1, 3" into zero based indexes and checks each is
// within n options.
func parseSelection(s string, n int) ([]int, error) {
	var out []int
	seen := map[int]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil || i < 1 || i > n {
			return nil, fmt.Errorf("invalid choice %q", part)
		}
		if !seen[i-1] {
			seen[i-1] = true
			out = append(out, i-1)
		}
	}
	return out, nil
}
