package script

import (
	"strings"
	"testing"
)

func TestRenderIndentation(t *testing.T) {
	s := New()
	body := s.Body()
	body.Line("set -e")
	body.Blank()
	body.Line("for ITERATION in $(seq 1 3); do")
	inner := body.Nested()
	inner.Comment("Step: s1")
	inner.Line(`echo "iteration ${ITERATION}"`)
	body.Line("done")

	want := `#!/usr/bin/env bash
set -e

for ITERATION in $(seq 1 3); do
  # Step: s1
  echo "iteration ${ITERATION}"
done
`
	if got := s.Render(); got != want {
		t.Errorf("Render() mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestNestedBlocksIndentTwice(t *testing.T) {
	s := New()
	body := s.Body()
	outer := body.Nested()
	inner := outer.Nested()
	inner.Line("echo deep")

	if !strings.Contains(s.Render(), "    echo deep") {
		t.Errorf("expected two indent levels, got:\n%s", s.Render())
	}
}

func TestRawPreservesMultiline(t *testing.T) {
	s := New()
	body := s.Body()
	loop := body.Nested()
	loop.Raw("echo one\necho two")

	out := s.Render()
	if !strings.Contains(out, "  echo one\n  echo two") {
		t.Errorf("multi-line raw text should be indented per line, got:\n%s", out)
	}
}

func TestExtend(t *testing.T) {
	a := &Block{}
	a.Line("first")
	b := &Block{}
	b.Line("second")
	a.Extend(b)

	if a.Len() != 2 {
		t.Errorf("expected 2 statements after Extend, got %d", a.Len())
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "double quotes",
			in:   `say "hello"`,
			want: `say \"hello\"`,
		},
		{
			name: "backticks",
			in:   "run `ls`",
			want: "run \\`ls\\`",
		},
		{
			name: "backslashes escaped before quotes",
			in:   `path \"x`,
			want: `path \\\"x`,
		},
		{
			name: "dollar left expandable",
			in:   "use ${NAME}",
			want: "use ${NAME}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.in); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVarName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bug", "BUG"},
		{"feature-name", "FEATURE_NAME"},
		{"path/to/doc.md", "PATH_TO_DOC_MD"},
		{"already_UPPER", "ALREADY_UPPER"},
	}

	for _, tt := range tests {
		if got := VarName(tt.in); got != tt.want {
			t.Errorf("VarName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
