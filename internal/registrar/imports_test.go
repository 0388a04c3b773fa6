package registrar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veylang/typecore/internal/ast"
)

type fakeLoader struct {
	real map[string]string
}

func (f *fakeLoader) ResolveRealPath(name string) (string, bool) { p, ok := f.real[name]; return p, ok }
func (f *fakeLoader) ResolveDeclPath(name string) (string, bool) { return "", false }
func (f *fakeLoader) IsPackageInit(path string) bool             { return false }

func TestImportModNormalizesUnicodeBeforeResolving(t *testing.T) {
	r, _ := newRegistrar()
	// "café" spelled with a combining acute accent (e + U+0301) versus
	// the precomposed form must resolve to the same registered entry.
	precomposed := "café"
	decomposed := "café"
	ld := &fakeLoader{real: map[string]string{precomposed: "/mods/cafe.tc"}}

	path, rep := r.ImportMod(ImportOrdinary, decomposed, ld, false, ast.Span{})
	require.Nil(t, rep)
	assert.Contains(t, path, "cafe")
}

func TestImportModNotFoundReportsImportError(t *testing.T) {
	r, _ := newRegistrar()
	ld := &fakeLoader{real: map[string]string{}}
	_, rep := r.ImportMod(ImportOrdinary, "ghost", ld, false, ast.Span{})
	require.NotNil(t, rep)
	assert.Equal(t, "TC013", rep.Code)
}

func TestImportModStdlibWithoutEnvironmentErrors(t *testing.T) {
	r, _ := newRegistrar()
	ld := &fakeLoader{real: map[string]string{"math": "/stdlib/math.tc"}}
	_, rep := r.ImportMod(ImportStdlib, "math", ld, false, ast.Span{})
	require.NotNil(t, rep)
	assert.Equal(t, "TC014", rep.Code)
}

func TestImportModStdlibWithEnvironmentSucceeds(t *testing.T) {
	r, _ := newRegistrar()
	ld := &fakeLoader{real: map[string]string{"math": "/stdlib/math.tc"}}
	_, rep := r.ImportMod(ImportStdlib, "math", ld, true, ast.Span{})
	assert.Nil(t, rep)
}
