// Package repl is an interactive query console over the Subtype Oracle
// and Unifier: declare named types, then ask whether one is a subtype
// of another, whether two are the same type, or unify two terms and
// see what each free variable linked to.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/veylang/typecore/internal/ast"
	"github.com/veylang/typecore/internal/evaluator"
	"github.com/veylang/typecore/internal/instantiate"
	"github.com/veylang/typecore/internal/registrar"
	"github.com/veylang/typecore/internal/subtype"
	"github.com/veylang/typecore/internal/types"
	"github.com/veylang/typecore/internal/unify"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Config holds REPL session options.
type Config struct {
	LegacyMutableRefVariance bool
	Verbose                  bool
}

// REPL is the read-eval-print loop over the core's five components.
type REPL struct {
	config  *Config
	cache   *subtype.Cache
	oracle  *subtype.Oracle
	uni     *unify.Unifier
	ins     *instantiate.Instantiator
	reg     *registrar.Registrar
	ctx     *types.Context
	history []string
	version string
}

// New creates a REPL with default configuration.
func New() *REPL { return NewWithVersion("") }

// NewWithVersion creates a REPL around a fresh Context, reporting
// version in the welcome banner.
func NewWithVersion(version string) *REPL {
	return NewWithConfig(&Config{}, version)
}

// NewWithConfig creates a REPL honoring cfg's feature flags (notably
// LegacyMutableRefVariance, which must be set before the Oracle is
// built since the Oracle closes over it at construction).
func NewWithConfig(cfg *Config, version string) *REPL {
	if version == "" {
		version = "dev"
	}
	cache := subtype.NewCache()
	oracle := subtype.NewWithFeatures(cache, cfg.LegacyMutableRefVariance)
	uni := unify.New(oracle)
	ins := instantiate.New(evaluator.New(), uni)
	reg := registrar.New(ins, uni)
	ctx := types.NewRootContext("repl", cache)
	declarePreludeTypes(ctx)

	return &REPL{
		config:  cfg,
		cache:   cache,
		oracle:  oracle,
		uni:     uni,
		ins:     ins,
		reg:     reg,
		ctx:     ctx,
		history: []string{},
		version: version,
	}
}

// declarePreludeTypes seeds the root context with the primitive names a
// session's type expressions can refer to without a prior :let.
func declarePreludeTypes(ctx *types.Context) {
	for name, t := range map[string]types.Type{
		"Bool":  types.TBool,
		"Nat":   types.TNat,
		"Int":   types.TInt,
		"Ratio": types.TRatio,
		"Float": types.TFloat,
		"Str":   types.TStr,
		"Obj":   types.TObj,
	} {
		ctx.Declare(name, &types.Binding{Type: t, Kind: types.BindDefined})
	}
}

// EnableTrace turns on verbose per-step output.
func (r *REPL) EnableTrace() { r.config.Verbose = true }

func (r *REPL) getPrompt() string { return "oracle> " }

// Start runs the prompt loop against in/out until EOF or :quit.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".typecore_oracle_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("typecore oracle"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(l string) (c []string) {
		if strings.HasPrefix(l, ":") {
			for _, cmd := range []string{":help", ":quit", ":sub", ":same", ":unify", ":let", ":vars", ":legacy", ":trace", ":history"} {
				if strings.HasPrefix(cmd, l) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt(r.getPrompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":quit") || strings.HasPrefix(input, ":q") || strings.HasPrefix(input, ":exit") {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}

		r.HandleCommand(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// HandleCommand dispatches one REPL line to the matching query.
func (r *REPL) HandleCommand(input string, out io.Writer) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case ":help":
		r.printHelp(out)
	case ":vars":
		r.printVars(out)
	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%4d  %s\n", i+1, h)
		}
	case ":legacy":
		r.handleLegacy(fields, out)
	case ":trace":
		r.handleTrace(fields, out)
	case ":let":
		r.handleLet(input, out)
	case ":sub":
		r.handleRelation(fields, out, "subtype")
	case ":same":
		r.handleRelation(fields, out, "same")
	case ":unify":
		r.handleRelation(fields, out, "unify")
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", yellow("warning"), fields[0])
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :let NAME = TYPEEXPR     declare a named type")
	fmt.Fprintln(out, "  :sub  A B                is A a subtype of B?")
	fmt.Fprintln(out, "  :same A B                are A and B the same type?")
	fmt.Fprintln(out, "  :unify A B               unify A and B, report the result")
	fmt.Fprintln(out, "  :vars                    list declared names")
	fmt.Fprintln(out, "  :legacy on|off           toggle legacy_mutable_ref_variance")
	fmt.Fprintln(out, "  :trace on|off            toggle verbose per-step tracing")
	fmt.Fprintln(out, "  :history                 show input history")
	fmt.Fprintln(out, "  :quit                    exit")
	fmt.Fprintln(out)
	fmt.Fprintln(out, dim("TYPEEXPR grammar: NAME | NAME(ARG, ARG, ...) — e.g. List(Int), RefMut(Str)"))
}

func (r *REPL) printVars(out io.Writer) {
	names := r.ctx.LocalNames()
	sort.Strings(names)
	for _, name := range names {
		b, _ := r.ctx.LookupLocal(name)
		fmt.Fprintf(out, "  %s : %s\n", cyan(name), b.Type.String())
	}
}

func (r *REPL) handleLegacy(fields []string, out io.Writer) {
	if len(fields) != 2 {
		fmt.Fprintf(out, "%s: usage :legacy on|off\n", red("error"))
		return
	}
	on := fields[1] == "on"
	r.config.LegacyMutableRefVariance = on
	r.oracle = subtype.NewWithFeatures(r.cache, on)
	r.uni = unify.New(r.oracle)
	r.ins = instantiate.New(evaluator.New(), r.uni)
	r.reg = registrar.New(r.ins, r.uni)
	fmt.Fprintf(out, "legacy_mutable_ref_variance = %v\n", on)
}

func (r *REPL) handleTrace(fields []string, out io.Writer) {
	if len(fields) != 2 {
		fmt.Fprintf(out, "%s: usage :trace on|off\n", red("error"))
		return
	}
	r.config.Verbose = fields[1] == "on"
	fmt.Fprintf(out, "trace = %v\n", r.config.Verbose)
}

func (r *REPL) handleLet(input string, out io.Writer) {
	rest := strings.TrimSpace(strings.TrimPrefix(input, ":let"))
	parts := strings.SplitN(rest, "=", 2)
	if len(parts) != 2 {
		fmt.Fprintf(out, "%s: usage :let NAME = TYPEEXPR\n", red("error"))
		return
	}
	name := strings.TrimSpace(parts[0])
	spec, err := parseTypeExpr(strings.TrimSpace(parts[1]))
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	t, errs := r.ins.InstantiateTypeSpec(spec, instantiate.Normal, instantiate.NewCache(), r.ctx)
	if len(errs) > 0 {
		fmt.Fprintf(out, "%s: %s\n", red("error"), errs[0].Message)
		return
	}
	if err := r.ctx.Declare(name, &types.Binding{Type: t, Kind: types.BindDefined}); err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	fmt.Fprintf(out, "%s %s : %s\n", green("declared"), cyan(name), t.String())
}

func (r *REPL) handleRelation(fields []string, out io.Writer, kind string) {
	if len(fields) != 3 {
		fmt.Fprintf(out, "%s: usage :%s A B\n", red("error"), kind)
		return
	}
	a, err := r.resolve(fields[1])
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	b, err := r.resolve(fields[2])
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}

	if r.config.Verbose {
		fmt.Fprintf(out, "%s :%s %s %s\n", dim("trace"), kind, a.String(), b.String())
	}

	switch kind {
	case "subtype":
		if r.oracle.SupertypeOf(b, a, r.ctx) {
			fmt.Fprintf(out, "%s %s <: %s\n", green("yes"), a.String(), b.String())
		} else {
			fmt.Fprintf(out, "%s %s <: %s\n", red("no"), a.String(), b.String())
		}
	case "same":
		if r.config.Verbose {
			fmt.Fprintf(out, "%s sameTypeOf = supertypeOf(a,b) && supertypeOf(b,a)\n", dim("trace"))
		}
		if r.oracle.SameTypeOf(a, b, r.ctx) {
			fmt.Fprintf(out, "%s %s == %s\n", green("yes"), a.String(), b.String())
		} else {
			fmt.Fprintf(out, "%s %s == %s\n", red("no"), a.String(), b.String())
		}
	case "unify":
		if rep := r.uni.Unify(a, b, r.ctx); rep != nil {
			fmt.Fprintf(out, "%s %s\n", red("failed"), rep.Message)
			return
		}
		if r.config.Verbose {
			fmt.Fprintf(out, "%s %s now resolves to %s\n", dim("trace"), a.String(), a.String())
		}
		fmt.Fprintf(out, "%s %s ~ %s\n", green("unified"), a.String(), b.String())
	}
}

// resolve turns one REPL token into a Type: an already-declared name
// looked up directly, or a fresh type expression instantiated through
// the Instantiator.
func (r *REPL) resolve(tok string) (types.Type, error) {
	if b, ok := r.ctx.LookupLocal(tok); ok {
		return b.Type, nil
	}
	spec, err := parseTypeExpr(tok)
	if err != nil {
		return nil, err
	}
	t, errs := r.ins.InstantiateTypeSpec(spec, instantiate.Normal, instantiate.NewCache(), r.ctx)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", errs[0].Message)
	}
	return t, nil
}

// parseTypeExpr reads the REPL's minimal type-expression grammar
// (NAME | NAME(ARG, ...)) into an ast.TypeSpec. This is intentionally
// narrow: the core's real surface syntax comes from an external parser
// (§6), so the REPL's own reader exists only to let a human type a
// query without hand-building an ast.TypeSpec tree first.
func parseTypeExpr(s string) (ast.TypeSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type expression")
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return &ast.PreDecl{Kind: ast.PreDeclMono, Name: s}, nil
	}
	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	name := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	args, err := splitArgs(inner)
	if err != nil {
		return nil, err
	}
	specs := make([]ast.TypeSpec, len(args))
	for i, a := range args {
		spec, err := parseTypeExpr(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	return &ast.TypeApp{Callee: &ast.PreDecl{Kind: ast.PreDeclMono, Name: name}, Args: specs}, nil
}

// splitArgs splits a comma list at top level only, respecting nested
// parentheses.
func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out, nil
}
