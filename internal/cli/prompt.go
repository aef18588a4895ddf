package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

var errInterrupted = errors.New("input interrupted")

const (
	keyCtrlC     = 3
	keyCtrlD     = 4
	keyBackspace = 8
	keyDelete    = 127
)

// prompter reads answers from the user. Password entry is masked when the
// input is a terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// line prints label and reads one line without its terminator. io.EOF is
// returned only when no input is left at all.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || s == "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *prompter) password(label string) (string, error) {
	if p.fd < 0 {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	state, err := term.MakeRaw(p.fd)
	if err != nil {
		return "", err
	}
	pass, err := readMasked(p.in, p.out)
	_ = term.Restore(p.fd, state)
	fmt.Fprintln(p.out)
	return pass, err
}

// readMasked reads keystrokes up to Enter, echoing '*' for every character
// and erasing one on backspace.
func readMasked(r io.ByteReader, w io.Writer) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}
		switch {
		case b == '\r' || b == '\n':
			return string(buf), nil
		case b == keyCtrlC:
			return "", errInterrupted
		case b == keyCtrlD:
			if len(buf) == 0 {
				return "", io.EOF
			}
		case b == keyBackspace || b == keyDelete:
			if len(buf) > 0 {
				_, size := utf8.DecodeLastRune(buf)
				buf = buf[:len(buf)-size]
				fmt.Fprint(w, "\b \b")
			}
		case b < ' ':
			// other control keys are ignored
		default:
			buf = append(buf, b)
			// one '*' per character, not per UTF-8 continuation byte
			if b&0xC0 != 0x80 {
				fmt.Fprint(w, "*")
			}
		}
	}
}
