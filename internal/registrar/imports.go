package registrar

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/errors"
	"github.com/veylang/typecore/internal/loader"
)

// ImportKind distinguishes an ordinary module import from one that
// requires the standard-library environment (§4.4's ModuleEnvError).
type ImportKind int

const (
	ImportOrdinary ImportKind = iota
	ImportStdlib
)

// ImportMod resolves the filesystem path of an imported module
// (§4.4). modNameLiteral is NFC-normalized before it ever reaches the
// loader: two source files spelling the same module path with
// differently composed Unicode (a precomposed accented letter versus
// a base letter plus combining mark, for instance) must resolve to
// one canonical module, not two distinct cache entries.
func (r *Registrar) ImportMod(kind ImportKind, modNameLiteral string, ld loader.Loader, stdlibReady bool, loc ast.Span) (string, *errors.Report) {
	name := norm.NFC.String(modNameLiteral)

	if kind == ImportStdlib && !stdlibReady {
		return "", errors.New("registrar", errors.ModuleEnvError,
			fmt.Sprintf("module %q requires the standard-library environment", name), spanPtr(loc)).
			WithData("module", name)
	}

	path, ok := ld.ResolveRealPath(name)
	if !ok {
		return "", errors.New("registrar", errors.ImportError, fmt.Sprintf("module %q not found", name), spanPtr(loc)).
			WithData("module", name)
	}
	return loader.CanonicalModuleID(path), nil
}
