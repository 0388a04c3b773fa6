// Package loader is the core's one external-collaborator dependency
// outside the parser/evaluator surfaces: the injected module loader of
// §6 ("the core calls resolve_real_path(name) and resolve_decl_path(name)
// on an injected loader, which returns a filesystem path or None. The
// loader is also responsible for determining whether a path is a
// package-init file").
package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Loader is the narrow interface the Registrar's import_mod operation
// consults (§4.4). The core never parses or reads module contents
// itself; it only asks the loader where things live.
type Loader interface {
	// ResolveRealPath returns the filesystem path backing a module name,
	// and whether it was found.
	ResolveRealPath(name string) (string, bool)
	// ResolveDeclPath returns the filesystem path of a module's
	// declaration/stub form, and whether one was found. When a module
	// has no separate declaration file, callers should fall back to
	// ResolveRealPath.
	ResolveDeclPath(name string) (string, bool)
	// IsPackageInit reports whether path is a package's init file (the
	// file whose declarations populate the package's own namespace
	// rather than a member module's).
	IsPackageInit(path string) bool
}

// FileLoader is the default filesystem-backed Loader. It never parses;
// it only resolves names to paths the external parser can later read.
type FileLoader struct {
	basePath   string // repo-relative import root
	stdlibPath string // root for "std/..." imports
}

// NewFileLoader builds a FileLoader rooted at basePath, resolving
// "std/..." imports under stdlibPath.
func NewFileLoader(basePath, stdlibPath string) *FileLoader {
	return &FileLoader{basePath: basePath, stdlibPath: stdlibPath}
}

// sourceExt is this core's module source extension.
const sourceExt = ".tc"

// ResolveRealPath implements Loader (§6).
func (fl *FileLoader) ResolveRealPath(name string) (string, bool) {
	p := fl.resolvePath(name)
	if fileExists(p) {
		return p, true
	}
	return "", false
}

// ResolveDeclPath implements Loader. Declaration files sit alongside
// their module under a ".tcd" (type-core declaration) extension; when
// none exists the real source file doubles as its own declaration.
func (fl *FileLoader) ResolveDeclPath(name string) (string, bool) {
	p := fl.resolvePath(name)
	declPath := strings.TrimSuffix(p, sourceExt) + ".tcd"
	if fileExists(declPath) {
		return declPath, true
	}
	return fl.ResolveRealPath(name)
}

// IsPackageInit implements Loader: a package-init file opens with a
// "# package" marker comment as its first non-blank line.
func (fl *FileLoader) IsPackageInit(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content = NormalizeContent(content)
	return bytes.HasPrefix(bytes.TrimSpace(content), []byte("# package"))
}

// resolvePath resolves a module name to a candidate filesystem path,
// without checking existence.
func (fl *FileLoader) resolvePath(name string) string {
	if strings.HasSuffix(name, sourceExt) {
		return name
	}
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		return filepath.Join(fl.basePath, name) + sourceExt
	}
	if strings.HasPrefix(name, "std/") {
		rest := strings.TrimPrefix(name, "std/")
		return filepath.Join(fl.stdlibPath, rest) + sourceExt
	}
	return filepath.Join(fl.basePath, name) + sourceExt
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// CanonicalModuleID returns the canonical module ID for a path: repo-
// relative, forward-slashed, extensionless. Two names that resolve to
// the same file must produce the same canonical ID so the Registrar's
// module cache never double-loads a module reached by two spellings.
func CanonicalModuleID(p string) string {
	p = filepath.Clean(p)
	p = strings.TrimSuffix(p, sourceExt)
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}

// NormalizeContent strips a UTF-8 BOM and normalizes line endings to
// LF, the minimal text hygiene any reader of module source needs
// before a parser ever sees it.
func NormalizeContent(content []byte) []byte {
	if bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		content = content[3:]
	}
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	content = bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))
	return content
}
