package discovery

import (
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"strconv"

	"github.com/toyz/mapkey/internal/annotations"
	"github.com/toyz/mapkey/internal/errors"
	"github.com/toyz/mapkey/internal/utils"
	"github.com/toyz/mapkey/pkg/mapkey"
)

const unwrapKeyMethod = "UnwrapKey"

// Scanner collects map key types and provider bindings from package directories
type Scanner struct {
	processor *utils.FileProcessor
	parser    *annotations.Parser
}

// NewScanner creates a scanner. A nil parser uses the builtin annotation schemas.
func NewScanner(processor *utils.FileProcessor, parser *annotations.Parser) *Scanner {
	if parser == nil {
		parser = annotations.NewParser(nil)
	}
	return &Scanner{
		processor: processor,
		parser:    parser,
	}
}

// ScanPackage parses the Go files in dir and collects what they declare. The
// package is returned along with every problem found in it, so callers can
// report all errors at once.
func (s *Scanner) ScanPackage(dir, importPath string) (*Package, error) {
	files, packageName, err := s.processor.ParseDirectoryFiles(dir)
	if err != nil {
		return nil, err
	}

	pkg := &Package{
		Name:       packageName,
		Dir:        dir,
		ImportPath: importPath,
	}
	return pkg, s.scanFiles(pkg, files)
}

// packageScan is the per-package state while walking declarations
type packageScan struct {
	pkg        *Package
	errs       *errors.MultipleErrors
	keys       map[string]*KeyType
	accessors  map[string]*Accessor
	unwrappers map[string]bool
	typeDecls  map[string]ast.Expr
}

func (s *Scanner) scanFiles(pkg *Package, files []utils.ParsedFile) error {
	scan := &packageScan{
		pkg:        pkg,
		errs:       errors.NewMultipleErrors(),
		keys:       make(map[string]*KeyType),
		accessors:  make(map[string]*Accessor),
		unwrappers: make(map[string]bool),
		typeDecls:  make(map[string]ast.Expr),
	}

	for _, file := range files {
		imports := fileImports(file.AST)
		for _, decl := range file.AST.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				s.scanGenDecl(scan, d)
			case *ast.FuncDecl:
				s.scanFuncDecl(scan, d, imports)
			}
		}
	}

	cmp := &comparability{decls: scan.typeDecls, visiting: make(map[string]bool)}
	for _, kt := range pkg.KeyTypes {
		kt.Accessor = scan.accessors[kt.Name]
		kt.Unwrapper = scan.unwrappers[kt.Name]
		kt.Comparable = cmp.expr(kt.typeExpr)
		if a := kt.Accessor; a != nil {
			if a.resultExpr != nil {
				a.ResultComparable = cmp.expr(a.resultExpr)
			}
			kt.Pointer = kt.Mode == mapkey.UnwrapValue && !kt.Unwrapper && a.PointerReceiver
		}
		if err := CheckKeyType(kt); err != nil {
			scan.errs.Add(err)
		}
	}

	return scan.errs.ErrorOrNil()
}

func (s *Scanner) scanGenDecl(scan *packageScan, d *ast.GenDecl) {
	if d.Tok != token.TYPE {
		for _, ann := range s.annotations(scan, d.Doc) {
			scan.errs.Add(misplacedAnnotation(ann, "a type or function declaration"))
		}
		return
	}

	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		scan.typeDecls[ts.Name.Name] = ts.Type

		doc := ts.Doc
		if doc == nil && len(d.Specs) == 1 {
			doc = d.Doc
		}

		for _, ann := range s.annotations(scan, doc) {
			if ann.Type != annotations.MapKeyAnnotation {
				scan.errs.Add(misplacedAnnotation(ann, "a function"))
				continue
			}
			ann.Target = ts.Name.Name
			s.addKeyType(scan, ts, ann)
		}
	}
}

func (s *Scanner) addKeyType(scan *packageScan, ts *ast.TypeSpec, ann *annotations.ParsedAnnotation) {
	name := ts.Name.Name
	if existing, exists := scan.keys[name]; exists {
		scan.errs.Add(errors.Newf(errors.ValidationErrorCode,
			"%s is annotated with //axon::mapkey more than once (first at %s)", name, existing.Location).
			WithLocation(ann.Location))
		return
	}
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		scan.errs.Add(errors.Newf(errors.ValidationErrorCode, "generic type %s cannot be a map key type", name).
			WithLocation(ann.Location).
			WithSuggestion("Declare a concrete type and mark that with //axon::mapkey"))
		return
	}

	kt := &KeyType{
		Name:          name,
		PackageName:   scan.pkg.Name,
		ImportPath:    scan.pkg.ImportPath,
		Mode:          mapkey.ModeFor(ann.GetBool("Unwrap", true)),
		Underlying:    qualify(ts.Type, scan.pkg.Name),
		HasValueField: hasValueField(ts.Type),
		Location:      ann.Location,
		typeExpr:      ts.Type,
	}
	scan.keys[name] = kt
	scan.pkg.KeyTypes = append(scan.pkg.KeyTypes, kt)
}

func (s *Scanner) scanFuncDecl(scan *packageScan, d *ast.FuncDecl, imports map[string]string) {
	if d.Recv != nil && len(d.Recv.List) > 0 {
		recvName, pointer := receiverType(d.Recv.List[0].Type)
		switch d.Name.Name {
		case mapkey.ValueMethod:
			scan.accessors[recvName] = s.accessor(scan.pkg.Name, d, pointer)
		case unwrapKeyMethod:
			scan.unwrappers[recvName] = true
		}
	}

	for _, ann := range s.annotations(scan, d.Doc) {
		switch {
		case ann.Type != annotations.ProvidesAnnotation:
			scan.errs.Add(misplacedAnnotation(ann, "a type declaration"))
		case d.Recv != nil:
			scan.errs.Add(misplacedAnnotation(ann, "a top-level function"))
		default:
			ann.Target = d.Name.Name
			s.addBinding(scan, d, ann, imports)
		}
	}
}

func (s *Scanner) addBinding(scan *packageScan, d *ast.FuncDecl, ann *annotations.ParsedAnnotation, imports map[string]string) {
	results := expandFields(d.Type.Results)
	if len(results) == 0 {
		scan.errs.Add(errors.Newf(errors.ValidationErrorCode,
			"provider %s must return the value it contributes", d.Name.Name).WithLocation(ann.Location))
		return
	}

	scan.pkg.Bindings = append(scan.pkg.Bindings, &Binding{
		Provider:    d.Name.Name,
		PackageName: scan.pkg.Name,
		ImportPath:  scan.pkg.ImportPath,
		ElementType: qualify(results[0], scan.pkg.Name),
		KeyName:     ann.GetString("Key"),
		Literal:     ann.GetString("Value"),
		HasLiteral:  ann.HasParameter("Value"),
		Location:    ann.Location,
		imports:     imports,
	})
}

func (s *Scanner) accessor(packageName string, d *ast.FuncDecl, pointer bool) *Accessor {
	a := &Accessor{
		Params:          len(expandFields(d.Type.Params)),
		PointerReceiver: pointer,
		Location:        s.processor.FileReader().Position(d.Name.Pos()),
	}

	results := expandFields(d.Type.Results)
	a.Results = len(results)
	if len(results) > 0 {
		a.ResultType = qualify(results[0], packageName)
		a.resultExpr = results[0]
	}
	if len(results) == 2 {
		a.SecondResult = types.ExprString(results[1])
	}
	return a
}

// annotations parses the //axon:: lines of a comment group. Parse errors are
// collected and the offending line skipped.
func (s *Scanner) annotations(scan *packageScan, doc *ast.CommentGroup) []*annotations.ParsedAnnotation {
	if doc == nil {
		return nil
	}

	var parsed []*annotations.ParsedAnnotation
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		ann, err := s.parser.ParseAnnotation(comment.Text, s.processor.FileReader().Position(comment.Pos()))
		if err != nil {
			addError(scan.errs, err)
			continue
		}
		parsed = append(parsed, ann)
	}
	return parsed
}

func misplacedAnnotation(ann *annotations.ParsedAnnotation, want string) *errors.BaseError {
	return errors.Newf(errors.ValidationErrorCode, "//axon::%s must annotate %s", ann.Type, want).
		WithLocation(ann.Location)
}

func addError(errs *errors.MultipleErrors, err error) {
	if coded, ok := err.(errors.CodedError); ok {
		errs.Add(coded)
		return
	}
	errs.Add(errors.Wrap(errors.SyntaxErrorCode, "invalid annotation", err))
}

// fileImports maps each import's local name to its path
func fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(importPath)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = importPath
	}
	return imports
}

func receiverType(expr ast.Expr) (string, bool) {
	pointer := false
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name, pointer
	case *ast.IndexExpr:
		name, _ := receiverType(e.X)
		return name, pointer
	case *ast.IndexListExpr:
		name, _ := receiverType(e.X)
		return name, pointer
	}
	return "", pointer
}

// expandFields returns one type expression per declared name
func expandFields(fields *ast.FieldList) []ast.Expr {
	if fields == nil {
		return nil
	}
	var exprs []ast.Expr
	for _, field := range fields.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			exprs = append(exprs, field.Type)
		}
	}
	return exprs
}

// qualify renders expr, prefixing package-local type names with packageName
func qualify(expr ast.Expr, packageName string) string {
	switch e := expr.(type) {
	case *ast.Ident:
		if types.Universe.Lookup(e.Name) != nil {
			return e.Name
		}
		return packageName + "." + e.Name
	case *ast.StarExpr:
		return "*" + qualify(e.X, packageName)
	default:
		return types.ExprString(expr)
	}
}

// comparability decides whether type expressions of one package can key a
// Go map. Named types declared in the package are followed to their
// definitions. Types from other packages are taken as comparable, since only
// their name is visible here; FindMapKey still rejects them at runtime.
type comparability struct {
	decls    map[string]ast.Expr
	visiting map[string]bool
}

func (c *comparability) expr(expr ast.Expr) bool {
	switch e := expr.(type) {
	case nil:
		return true
	case *ast.Ident:
		decl, ok := c.decls[e.Name]
		if !ok || c.visiting[e.Name] {
			return true
		}
		c.visiting[e.Name] = true
		defer delete(c.visiting, e.Name)
		return c.expr(decl)
	case *ast.ArrayType:
		return e.Len != nil && c.expr(e.Elt)
	case *ast.MapType, *ast.FuncType:
		return false
	case *ast.StructType:
		for _, field := range e.Fields.List {
			if !c.expr(field.Type) {
				return false
			}
		}
		return true
	case *ast.ParenExpr:
		return c.expr(e.X)
	case *ast.IndexExpr:
		return c.expr(e.X)
	case *ast.IndexListExpr:
		return c.expr(e.X)
	default:
		// pointers, channels, interfaces and qualified names
		return true
	}
}

func hasValueField(expr ast.Expr) bool {
	st, ok := expr.(*ast.StructType)
	if !ok {
		return false
	}
	for _, field := range st.Fields.List {
		for _, name := range field.Names {
			if name.Name == mapkey.ValueMethod {
				return true
			}
		}
	}
	return false
}
