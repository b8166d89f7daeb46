// Package script provides a small intermediate representation for the bash
// scripts the compiler emits. Statements are collected into blocks and only
// rendered to text at the end, so indentation and escaping are applied
// uniformly instead of by ad hoc string surgery at each emission site.
package script

import (
	"fmt"
	"strings"
)

// node is a single renderable statement.
type node struct {
	text  string // Statement text, may span multiple lines
	blank bool   // True for a deliberate blank line
	child *Block // Non-nil for a nested block
}

// Block is an ordered list of statements sharing one indentation level.
type Block struct {
	nodes []node
}

// Line appends a single shell statement with printf formatting.
func (b *Block) Line(format string, args ...any) {
	b.nodes = append(b.nodes, node{text: fmt.Sprintf(format, args...)})
}

// Raw appends pre-formatted text verbatim. Embedded newlines are preserved
// and each line receives the block's indentation on render.
func (b *Block) Raw(text string) {
	b.nodes = append(b.nodes, node{text: text})
}

// Comment appends a shell comment line.
func (b *Block) Comment(format string, args ...any) {
	b.nodes = append(b.nodes, node{text: "# " + fmt.Sprintf(format, args...)})
}

// Blank appends an empty line.
func (b *Block) Blank() {
	b.nodes = append(b.nodes, node{blank: true})
}

// Nested appends and returns a child block rendered one indent level deeper.
func (b *Block) Nested() *Block {
	child := &Block{}
	b.nodes = append(b.nodes, node{child: child})
	return child
}

// Extend appends all statements of other to this block at the same level.
func (b *Block) Extend(other *Block) {
	b.nodes = append(b.nodes, other.nodes...)
}

// Len returns the number of statements in the block, counting a nested
// block as one.
func (b *Block) Len() int {
	return len(b.nodes)
}

const indentUnit = "  "

func (b *Block) render(sb *strings.Builder, depth int) {
	prefix := strings.Repeat(indentUnit, depth)
	for _, n := range b.nodes {
		switch {
		case n.blank:
			sb.WriteString("\n")
		case n.child != nil:
			n.child.render(sb, depth+1)
		default:
			for _, line := range strings.Split(n.text, "\n") {
				if line == "" {
					sb.WriteString("\n")
					continue
				}
				sb.WriteString(prefix)
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
	}
}

// Script is a complete shell script: a shebang plus a top-level block.
type Script struct {
	shebang string
	body    Block
}

// New creates an empty script with the standard bash shebang.
func New() *Script {
	return &Script{shebang: "#!/usr/bin/env bash"}
}

// Body returns the script's top-level block.
func (s *Script) Body() *Block {
	return &s.body
}

// Render produces the final script text.
func (s *Script) Render() string {
	var sb strings.Builder
	sb.WriteString(s.shebang)
	sb.WriteString("\n")
	s.body.render(&sb, 0)
	return sb.String()
}

// Escape makes text safe for embedding inside a double-quoted shell string.
// Backslashes, double quotes, and backticks are escaped. Dollar signs are
// left alone on purpose: substituted ${VAR} references must still expand at
// script runtime.
func Escape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"`, `\"`)
	text = strings.ReplaceAll(text, "`", "\\`")
	return text
}

// VarName converts an identifier into a shell variable name: uppercased,
// with any character outside [A-Za-z0-9_] replaced by an underscore.
func VarName(id string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(id) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
