package adapter

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"regexp"
	"strconv"

	m "ducktape.dev/pkg/ducktape/internal/model"
)

// EmbedRef names an embedded field's type. ImportPath is empty for types of
// the same package.
type EmbedRef struct {
	ImportPath string
	Name       string
}

// TypeSpec is a struct type declared at the top level of a file.
type TypeSpec struct {
	Name   string
	Line   int
	Embeds []EmbedRef
}

// FileDecls is everything discovery needs to know about one Go file.
type FileDecls struct {
	PackageName string
	Imports     []string
	Types       []TypeSpec
	Methods     []m.MethodDecl
}

// GoFileAdapter encapsulates Go-specific parsing so the registry can focus on
// qualification and type relationships.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and optional source bytes.
	Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// ExtractDecls collects struct types, their embedded fields and the
	// methods declared in file.
	ExtractDecls(fileSet *token.FileSet, file *ast.File) FileDecls
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fileSet, filename, src, parser.SkipObjectResolution)
}

// ExtractDecls inspects top-level declarations in source order.
func (a *LocalGoFileAdapter) ExtractDecls(fileSet *token.FileSet, file *ast.File) FileDecls {
	decls := FileDecls{PackageName: file.Name.Name}
	imports := importNames(file)

	for _, imp := range file.Imports {
		if p, err := strconv.Unquote(imp.Path.Value); err == nil {
			decls.Imports = append(decls.Imports, p)
		}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}

			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Assign.IsValid() {
					continue
				}

				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}

				decls.Types = append(decls.Types, TypeSpec{
					Name:   ts.Name.Name,
					Line:   fileSet.Position(ts.Pos()).Line,
					Embeds: embeddedFields(st, imports),
				})
			}

		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 {
				continue
			}

			receiver, pointer := receiverName(d.Recv.List[0].Type)
			if receiver == "" {
				continue
			}

			decls.Methods = append(decls.Methods, m.MethodDecl{
				Receiver: receiver,
				Name:     d.Name.Name,
				Pointer:  pointer,
				Line:     fileSet.Position(d.Pos()).Line,
			})
		}
	}

	return decls
}

func embeddedFields(st *ast.StructType, imports map[string]string) []EmbedRef {
	var refs []EmbedRef

	for _, field := range st.Fields.List {
		if len(field.Names) != 0 {
			continue
		}

		if ref, ok := typeRef(field.Type, imports); ok {
			refs = append(refs, ref)
		}
	}

	return refs
}

// typeRef resolves Base, *Base, pkg.Base and generic instantiations thereof.
func typeRef(expr ast.Expr, imports map[string]string) (EmbedRef, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return EmbedRef{Name: e.Name}, true
	case *ast.StarExpr:
		return typeRef(e.X, imports)
	case *ast.IndexExpr:
		return typeRef(e.X, imports)
	case *ast.IndexListExpr:
		return typeRef(e.X, imports)
	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok {
			return EmbedRef{}, false
		}

		importPath, ok := imports[pkg.Name]
		if !ok {
			return EmbedRef{}, false
		}

		return EmbedRef{ImportPath: importPath, Name: e.Sel.Name}, true
	}

	return EmbedRef{}, false
}

func receiverName(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name, false
	case *ast.StarExpr:
		name, _ := receiverName(e.X)
		return name, true
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	case *ast.ParenExpr:
		return receiverName(e.X)
	}

	return "", false
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// importNames maps the identifier each import is referred to by onto its
// path. Without an explicit name the last path element is assumed, skipping
// a trailing major version element.
func importNames(file *ast.File) map[string]string {
	names := make(map[string]string, len(file.Imports))

	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}

			names[imp.Name.Name] = p

			continue
		}

		name := path.Base(p)
		if majorVersion.MatchString(name) && path.Dir(p) != "." {
			name = path.Base(path.Dir(p))
		}

		names[name] = p
	}

	return names
}
