package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/pothosware/pothos-starlark/label"
	"github.com/pothosware/pothos-starlark/proxy"
	"github.com/pothosware/pothos-starlark/starlarklabel"
	"go.starlark.net/starlark"
)

// failing is a label iterator whose At fails at failAt.
type failing struct {
	n, failAt int
}

func (f *failing) At(i int) (int, error) {
	if i == f.failAt {
		return 0, errors.New("device gone")
	}
	if i > f.n {
		return f.n, nil
	}
	return i, nil
}

func (f *failing) End() int                { return f.n }
func (f *failing) Deref(i int) label.Label { return label.New("tick", nil, uint64(i)) }

type session struct {
	*Session
	out, err bytes.Buffer
}

func newSession(t *testing.T) *session {
	s := &session{Session: &Session{Globals: make(starlark.StringDict)}}
	s.Stdout, s.Stderr = &s.out, &s.err

	env := proxy.NewRegistry()
	env.MustRegister("Failing", func(n, failAt int) *failing { return &failing{n, failAt} })
	s.Globals["labels"] = starlarklabel.NewModule(env, starlarklabel.WithStopHandler(s.Stopped))
	s.Thread = &starlark.Thread{
		Name:  t.Name(),
		Print: func(_ *starlark.Thread, msg string) { s.out.WriteString(msg + "\n") },
	}
	return s
}

// lines returns a line source over src followed by io.EOF.
func lines(src ...string) func() ([]byte, error) {
	return func() ([]byte, error) {
		if len(src) == 0 {
			return nil, io.EOF
		}
		line := src[0] + "\n"
		src = src[1:]
		return []byte(line), nil
	}
}

func TestSessionItems(t *testing.T) {
	s := newSession(t)
	for _, item := range [][]string{
		{`x = labels.Label("sob", None, 3)`},
		{`x.index`},
		{`def ids(r):`, `    return [l.index for l in r]`, ``},
		{`print(x.id)`},
		{`None`},
	} {
		if err := s.item(lines(item...)); err != nil {
			t.Fatalf("item %q: %v", item, err)
		}
	}
	if got, want := s.out.String(), "3\nsob\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if s.err.Len() != 0 {
		t.Errorf("stderr = %q, want empty", s.err.String())
	}
	if s.Globals["ids"] == nil {
		t.Error("multi-line def did not define ids")
	}
}

func TestSessionReportsStoppedLoops(t *testing.T) {
	s := newSession(t)
	if err := s.item(lines(`[l.index for l in labels.LabelIteratorRange(labels.env.find_proxy("Failing")(5, 2))]`)); err != nil {
		t.Fatal(err)
	}
	if got, want := s.out.String(), "[0, 1]\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if got := s.err.String(); !strings.Contains(got, "stopped after 2 labels") || !strings.Contains(got, "device gone") {
		t.Errorf("stderr = %q, want a stopped-loop warning", got)
	}

	// Reports do not carry over to later items.
	s.err.Reset()
	if err := s.item(lines(`1 + 1`)); err != nil {
		t.Fatal(err)
	}
	if s.err.Len() != 0 {
		t.Errorf("stderr after a clean item = %q, want empty", s.err.String())
	}
}

func TestSessionErrors(t *testing.T) {
	s := newSession(t)
	if err := s.item(lines(`labels.env.find_proxy("Pothos/Nope")`)); err != nil {
		t.Fatal(err)
	}
	if got := s.err.String(); !strings.Contains(got, "Traceback") || !strings.Contains(got, `proxy "Pothos/Nope" not found`) {
		t.Errorf("stderr = %q, want a backtrace", got)
	}

	s.err.Reset()
	if err := s.item(lines(`1 +* 2`)); err != nil {
		t.Fatal(err)
	}
	if s.err.Len() == 0 {
		t.Error("syntax error not reported")
	}

	if err := s.item(lines()); err != io.EOF {
		t.Errorf("item at end of input = %v, want io.EOF", err)
	}
}
