package load

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/schema/marker"
)

// GeneratedBy is the marker put in the header of every generated file.
// Files carrying it are reduced to their package clause while loading, so a
// stale generated file never breaks type checking of its package.
const GeneratedBy = "Code generated by derive"

// Loader discovers annotated types in Go packages.
type Loader struct {
	// Dir is the working directory of the build tool.
	Dir string
	// BuildFlags are passed to the build tool, e.g. "-tags=integration".
	BuildFlags []string
	// Reporter receives marker errors and unsupported declarations.
	Reporter diag.Reporter
	Logger   *zap.Logger
}

// LoadError is returned when the requested packages cannot be listed or
// parsed. Type errors are not fatal.
type LoadError struct {
	Patterns []string
	Errs     []error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("derive/load: loading %s: %s", strings.Join(e.Patterns, " "), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying package errors.
func (e *LoadError) Unwrap() []error { return e.Errs }

// IsLoadError reports whether err is, or wraps, a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo

// Load loads the packages matching the patterns and returns every named type
// carrying at least one type-level derive marker, in source order.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*Type, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	logger := l.logger()
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        l.Dir,
		BuildFlags: l.BuildFlags,
		ParseFile:  parseFile,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, &LoadError{Patterns: patterns, Errs: []error{err}}
	}
	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			if e.Kind == packages.TypeError && pkg.TypesInfo != nil {
				// Type checking goes on after an error. User code calling
				// functions of a generated file, which is reduced to its
				// package clause, fails here on every run after the first.
				logger.Debug("type error ignored", zap.String("package", pkg.PkgPath), zap.String("error", e.Error()))
				continue
			}
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, &LoadError{Patterns: patterns, Errs: errs}
	}
	var all []*Type
	for _, pkg := range pkgs {
		found := l.inspect(pkg)
		logger.Debug("package inspected",
			zap.String("package", pkg.PkgPath),
			zap.Int("types", len(found)),
		)
		all = append(all, found...)
	}
	return all, nil
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l *Loader) report(d diag.Diagnostic) {
	if l.Reporter != nil {
		l.Reporter.Report(d)
	}
}

// parseFile parses a source file with comments. Files generated by derive
// keep only their package clause, since they may refer to members that no
// longer exist.
func parseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	const mode = parser.ParseComments | parser.AllErrors
	f, err := parser.ParseFile(fset, filename, src, mode)
	if err != nil || !generatedByDerive(f) {
		return f, err
	}
	return parser.ParseFile(fset, filename, src, parser.PackageClauseOnly)
}

func generatedByDerive(f *ast.File) bool {
	if !ast.IsGenerated(f) {
		return false
	}
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}
		if strings.Contains(cg.Text(), GeneratedBy) {
			return true
		}
	}
	return false
}

// inspector collects annotated types of a single package.
type inspector struct {
	*Loader
	pkg   *packages.Package
	types map[string]*Type
	order []*Type
}

func (l *Loader) inspect(pkg *packages.Package) []*Type {
	in := &inspector{Loader: l, pkg: pkg, types: make(map[string]*Type)}
	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.TYPE {
				for _, spec := range gd.Specs {
					in.typeSpec(gd, spec.(*ast.TypeSpec))
				}
			}
		}
	}
	if len(in.order) == 0 {
		return nil
	}
	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				in.funcDecl(decl)
			case *ast.GenDecl:
				if decl.Tok == token.VAR || decl.Tok == token.CONST {
					in.valueDecl(decl)
				}
			}
		}
	}
	for _, t := range in.order {
		t.SortMembers()
	}
	return in.order
}

func (in *inspector) position(pos token.Pos) diag.Position {
	p := in.pkg.Fset.Position(pos)
	return diag.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

func (in *inspector) typeSpec(gd *ast.GenDecl, spec *ast.TypeSpec) {
	doc := spec.Doc
	if doc == nil && len(gd.Specs) == 1 {
		doc = gd.Doc
	}
	pos := in.position(spec.Name.Pos())
	subject := in.pkg.Name + "." + spec.Name.Name
	var markers marker.TypeMarkers
	for _, d := range in.directives(doc, pos, subject) {
		if err := markers.Apply(d); err != nil {
			in.report(diag.Errorf(pos, subject, "%v", err))
		}
	}
	if markers.IsZero() {
		return
	}
	switch {
	case spec.TypeParams != nil:
		in.report(diag.Errorf(pos, subject, "derive markers are not supported on generic types"))
		return
	case spec.Assign.IsValid():
		in.report(diag.Errorf(pos, subject, "derive markers are not supported on type aliases"))
		return
	}
	obj, ok := in.pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
	if !ok {
		return
	}
	if types.IsInterface(obj.Type()) {
		in.report(diag.Errorf(pos, subject, "derive markers are not supported on interface types"))
		return
	}
	t := &Type{
		Name:    spec.Name.Name,
		Package: in.pkg.PkgPath,
		PkgName: in.pkg.Name,
		Dir:     filepath.Dir(pos.Filename),
		Pos:     pos,
		Markers: markers,
	}
	if st, ok := spec.Type.(*ast.StructType); ok {
		in.fields(t, st)
	}
	in.types[t.Name] = t
	in.order = append(in.order, t)
}

func (in *inspector) fields(t *Type, st *ast.StructType) {
	for _, f := range st.Fields.List {
		var tag reflect.StructTag
		if f.Tag != nil {
			if s, err := strconv.Unquote(f.Tag.Value); err == nil {
				tag = reflect.StructTag(s)
			}
		}
		typ := in.pkg.TypesInfo.TypeOf(f.Type)
		if len(f.Names) == 0 {
			m := &Member{
				Name: embeddedName(f.Type),
				Kind: KindEmbedded,
				Pos:  in.position(f.Type.Pos()),
				Type: in.typeString(typ),
			}
			m.Markers = in.memberMarkers(t, m, f.Doc, tag)
			t.Members = append(t.Members, m)
			continue
		}
		for _, name := range f.Names {
			if name.Name == "_" {
				continue
			}
			m := &Member{
				Name:  name.Name,
				Kind:  KindField,
				Pos:   in.position(name.Pos()),
				Type:  in.typeString(typ),
				Value: classify(typ),
			}
			m.Markers = in.memberMarkers(t, m, f.Doc, tag)
			t.Members = append(t.Members, m)
		}
	}
}

func (in *inspector) funcDecl(fd *ast.FuncDecl) {
	fn, ok := in.pkg.TypesInfo.Defs[fd.Name].(*types.Func)
	if !ok || fd.Name.Name == "_" {
		return
	}
	sig := fn.Type().(*types.Signature)
	var (
		t      *Type
		static bool
	)
	if recv := sig.Recv(); recv != nil {
		t = in.owner(recv.Type())
	} else if sig.Results().Len() > 0 {
		t, static = in.owner(sig.Results().At(0).Type()), true
	}
	if t == nil {
		return
	}
	m := &Member{
		Name:    fd.Name.Name,
		Kind:    KindMethod,
		Static:  static,
		Params:  sig.Params().Len(),
		Results: sig.Results().Len(),
		Pos:     in.position(fd.Name.Pos()),
		Value:   ValueAny,
	}
	if sig.Results().Len() > 0 {
		res := sig.Results().At(0).Type()
		m.Type = in.typeString(res)
		m.Value = classify(res)
	}
	m.Markers = in.memberMarkers(t, m, fd.Doc, "")
	t.Members = append(t.Members, m)
}

func (in *inspector) valueDecl(gd *ast.GenDecl) {
	for _, spec := range gd.Specs {
		vs := spec.(*ast.ValueSpec)
		doc := vs.Doc
		if doc == nil && len(gd.Specs) == 1 {
			doc = gd.Doc
		}
		for _, name := range vs.Names {
			if name.Name == "_" {
				continue
			}
			obj := in.pkg.TypesInfo.Defs[name]
			if obj == nil {
				continue
			}
			t := in.owner(obj.Type())
			if t == nil {
				continue
			}
			m := &Member{
				Name:   name.Name,
				Kind:   KindField,
				Static: true,
				Pos:    in.position(name.Pos()),
				Type:   in.typeString(obj.Type()),
				Value:  classify(obj.Type()),
			}
			m.Markers = in.memberMarkers(t, m, doc, "")
			t.Members = append(t.Members, m)
		}
	}
}

// owner returns the annotated type of this package that typ, or *typ,
// refers to.
func (in *inspector) owner(typ types.Type) *Type {
	typ = types.Unalias(typ)
	if p, ok := typ.(*types.Pointer); ok {
		typ = types.Unalias(p.Elem())
	}
	named, ok := typ.(*types.Named)
	if !ok || named.Obj().Pkg() != in.pkg.Types {
		return nil
	}
	return in.types[named.Obj().Name()]
}

func (in *inspector) memberMarkers(t *Type, m *Member, doc *ast.CommentGroup, tag reflect.StructTag) marker.MemberMarkers {
	subject := t.QualifiedName() + "." + m.Name
	ds := in.directives(doc, m.Pos, subject)
	if tag != "" {
		parsed, err := marker.ParseTag(tag)
		if err != nil {
			in.report(diag.Errorf(m.Pos, subject, "%v", err))
		}
		ds = append(ds, parsed...)
	}
	var mm marker.MemberMarkers
	for _, d := range ds {
		if err := mm.Apply(d); err != nil {
			in.report(diag.Errorf(m.Pos, subject, "%v", err))
		}
	}
	return mm
}

// directives returns the well-formed derive directives of a comment group
// and reports the malformed ones.
func (in *inspector) directives(doc *ast.CommentGroup, pos diag.Position, subject string) []marker.Directive {
	if doc == nil {
		return nil
	}
	var ds []marker.Directive
	for _, c := range doc.List {
		d, ok, err := marker.ParseDirective(c.Text)
		switch {
		case !ok:
		case err != nil:
			in.report(diag.Errorf(in.position(c.Slash), subject, "%v", err))
		default:
			ds = append(ds, d)
		}
	}
	return ds
}

func (in *inspector) typeString(typ types.Type) string {
	if typ == nil {
		return ""
	}
	return types.TypeString(typ, types.RelativeTo(in.pkg.Types))
}

func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	case *ast.Ident:
		return e.Name
	}
	return ""
}

// classify returns the value class of typ. A type with a method
// "Compare(T) int" in its value method set compares through it, basic types
// compare by their natural order, everything else by runtime kind.
func classify(typ types.Type) ValueClass {
	if typ == nil {
		return ValueAny
	}
	if hasCompareMethod(typ) {
		return ValueCompare
	}
	basic, ok := typ.Underlying().(*types.Basic)
	if !ok {
		return ValueAny
	}
	info := basic.Info()
	switch {
	case info&types.IsInteger != 0 && info&types.IsUnsigned != 0:
		return ValueUint
	case info&types.IsInteger != 0:
		return ValueInt
	case info&types.IsFloat != 0:
		return ValueFloat
	case info&types.IsString != 0:
		return ValueString
	case info&types.IsBoolean != 0:
		return ValueBool
	}
	return ValueAny
}

func hasCompareMethod(typ types.Type) bool {
	sel := types.NewMethodSet(typ).Lookup(nil, "Compare")
	if sel == nil {
		return false
	}
	sig, ok := sel.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 1 || sig.Results().Len() != 1 {
		return false
	}
	res, ok := sig.Results().At(0).Type().(*types.Basic)
	return ok && res.Kind() == types.Int && types.Identical(sig.Params().At(0).Type(), typ)
}
