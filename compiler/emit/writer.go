// Package emit provides the line-oriented source builder used by the
// capability generators.
//
// A Writer accumulates lines in call order. Indentation is derived from
// brace characters only: a line ending with "{" or "(" indents the lines
// that follow, a line starting with "}" or ")" dedents itself and the lines
// that follow. Imports are collected on the side and rendered sorted.
package emit

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"golang.org/x/tools/imports"
)

// TypeRef is a reference to a named declaration of another package.
// It renders as "pkgname.Name" and records the import on the writer.
type TypeRef struct {
	Path string
	Name string
}

// Ref returns a reference to name declared in the package at path.
func Ref(path, name string) TypeRef {
	return TypeRef{Path: path, Name: name}
}

// String returns the qualified form of the reference.
func (r TypeRef) String() string {
	if r.Path == "" {
		return r.Name
	}
	return PackageName(r.Path) + "." + r.Name
}

// Writer is an append-only builder of Go source lines.
// It is not safe for concurrent use; every generated unit owns one.
type Writer struct {
	lines   []string
	imports map[string]struct{}
	depth   int
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{imports: make(map[string]struct{})}
}

// Write concatenates parts into a single logical line and appends it.
// Strings are written as is, TypeRef values are qualified and their import
// recorded, anything else is formatted with fmt.Sprint. Calling Write
// without parts appends an empty line.
func (w *Writer) Write(parts ...any) {
	var b strings.Builder
	for _, p := range parts {
		switch p := p.(type) {
		case string:
			b.WriteString(p)
		case TypeRef:
			if p.Path != "" {
				w.AddImport(p.Path)
			}
			b.WriteString(p.String())
		default:
			fmt.Fprint(&b, p)
		}
	}
	w.line(b.String())
}

// Writef appends a formatted line.
func (w *Writer) Writef(format string, args ...any) {
	w.line(fmt.Sprintf(format, args...))
}

func (w *Writer) line(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		w.lines = append(w.lines, "")
		return
	}
	if opensWith(s, '}', ')') && w.depth > 0 {
		w.depth--
	}
	w.lines = append(w.lines, strings.Repeat("\t", w.depth)+s)
	if closesWith(s, '{', '(') {
		w.depth++
	}
}

func opensWith(s string, chars ...byte) bool {
	return slices.Contains(chars, s[0])
}

func closesWith(s string, chars ...byte) bool {
	return slices.Contains(chars, s[len(s)-1])
}

// AddImport records an import path. Duplicates are ignored.
func (w *Writer) AddImport(path string) {
	if path == "" {
		return
	}
	w.imports[path] = struct{}{}
}

// Imports returns the recorded import paths, sorted.
func (w *Writer) Imports() []string {
	paths := make([]string, 0, len(w.imports))
	for p := range w.imports {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Lines returns the body lines written so far.
func (w *Writer) Lines() []string {
	return slices.Clone(w.lines)
}

// Len returns the number of body lines.
func (w *Writer) Len() int {
	return len(w.lines)
}

// Depth returns the current indentation depth. A balanced body ends at 0.
func (w *Writer) Depth() int {
	return w.depth
}

// Render concatenates the header comment, the package clause, the import
// block and the body lines.
func (w *Writer) Render(header, pkgName string) []byte {
	var b strings.Builder
	for _, h := range strings.Split(strings.TrimSpace(header), "\n") {
		if h = strings.TrimSpace(h); h == "" {
			continue
		}
		if !strings.HasPrefix(h, "//") {
			h = "// " + h
		}
		b.WriteString(h)
		b.WriteByte('\n')
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString("package " + pkgName + "\n")
	if paths := w.Imports(); len(paths) > 0 {
		b.WriteString("\nimport (\n")
		for _, p := range paths {
			fmt.Fprintf(&b, "\t%q\n", p)
		}
		b.WriteString(")\n")
	}
	if len(w.lines) > 0 {
		b.WriteByte('\n')
	}
	for _, l := range w.lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Format runs gofmt over a rendered unit without touching its imports.
func Format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	return out, nil
}

// PackageName returns the default package name of an import path,
// skipping a trailing major version element such as "/v2".
func PackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." && dir != "/" {
			base = path.Base(dir)
		}
	}
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return strings.ReplaceAll(base, "-", "_")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
