package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wit-adapter/engine"
	"github.com/wippyai/wit-adapter/interpreter"
	"github.com/wippyai/wit-adapter/manifest"
	"github.com/wippyai/wit-adapter/types"
)

// argList collects repeated -arg flags.
type argList []string

func (a *argList) String() string { return strings.Join(*a, ",") }

func (a *argList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	var (
		wasmFile     = flag.String("wasm", "", "Path to core wasm module (defaults to the manifest's module)")
		manifestFile = flag.String("manifest", "", "Path to adapter manifest (YAML)")
		adapterName  = flag.String("adapter", "", "Adapter to run (optional when the manifest has one)")
		list         = flag.Bool("list", false, "List adapters and exit")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
		verbose      = flag.Bool("v", false, "Verbose logging")
		args         argList
	)
	flag.Var(&args, "arg", "Adapter argument, repeat once per parameter")
	flag.Parse()

	if *manifestFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -manifest <adapters.yaml> [-wasm file.wasm] [-adapter name] [-arg v ...]")
		fmt.Fprintln(os.Stderr, "       run -manifest <adapters.yaml> -list")
		fmt.Fprintln(os.Stderr, "       run -manifest <adapters.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		if err := enableLogging(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*manifestFile, *wasmFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	out := newPrinter(os.Stdout)
	if err := run(out, *manifestFile, *wasmFile, *adapterName, args, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func enableLogging() error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	interpreter.SetLogger(log)
	engine.SetLogger(log)
	return nil
}

// session is a loaded manifest with its instantiated module.
type session struct {
	eng      *engine.Engine
	inst     *engine.Instance
	manifest *manifest.Manifest
	programs map[string]*interpreter.Program
	compile  map[string]error
	wasmPath string
}

func openSession(ctx context.Context, manifestFile, wasmFile string) (*session, error) {
	m, err := manifest.Load(manifestFile)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	wasmPath := wasmFile
	if wasmPath == "" {
		wasmPath = m.ModulePath()
	}
	if wasmPath == "" {
		return nil, fmt.Errorf("no module: pass -wasm or set module in the manifest")
	}

	data, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	eng, err := engine.New(ctx, &engine.Config{CloseOnContextDone: true, EnableWASI: true})
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	inst, err := eng.Instantiate(ctx, data, "")
	if err != nil {
		eng.Close(ctx)
		return nil, fmt.Errorf("instantiate: %w", err)
	}

	s := &session{
		eng:      eng,
		inst:     inst,
		manifest: m,
		programs: make(map[string]*interpreter.Program),
		compile:  make(map[string]error),
		wasmPath: wasmPath,
	}
	for _, a := range m.Adapters {
		prog, err := a.Compile()
		if err != nil {
			s.compile[a.Name] = err
			continue
		}
		s.programs[a.Name] = prog
	}
	return s, nil
}

func (s *session) Close(ctx context.Context) {
	s.inst.Close(ctx)
	s.eng.Close(ctx)
}

// call parses textual arguments for the adapter and runs it.
func (s *session) call(ctx context.Context, a *manifest.Adapter, rawArgs []string) ([]types.Value, error) {
	if err := s.compile[a.Name]; err != nil {
		return nil, err
	}
	values, err := a.ParseArgs(rawArgs)
	if err != nil {
		return nil, err
	}
	return s.programs[a.Name].Run(ctx, values, s.inst)
}

func run(out *printer, manifestFile, wasmFile, adapterName string, rawArgs []string, listOnly bool) error {
	ctx := context.Background()

	s, err := openSession(ctx, manifestFile, wasmFile)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	out.line("Module: %s", s.wasmPath)
	out.line("Exports: %s", strings.Join(s.inst.ExportNames(), ", "))
	out.line("")
	out.line("Adapters:")
	for _, a := range s.manifest.Adapters {
		status := ""
		if err := s.compile[a.Name]; err != nil {
			status = " " + out.paint(errorStyle, "(unsupported: "+err.Error()+")")
		}
		out.line("  %s%s", formatSignature(out, a), status)
	}

	if listOnly {
		return nil
	}

	if adapterName == "" {
		if len(s.manifest.Adapters) != 1 {
			out.line("")
			out.line("No adapter specified. Use -adapter to pick one.")
			return nil
		}
		adapterName = s.manifest.Adapters[0].Name
	}

	a, ok := s.manifest.Lookup(adapterName)
	if !ok {
		return fmt.Errorf("adapter %q not found", adapterName)
	}

	out.line("")
	out.line("Running %s(%s)...", a.Name, strings.Join(rawArgs, ", "))

	stack, err := s.call(ctx, a, rawArgs)
	if err != nil {
		return fmt.Errorf("run %s: %w", a.Name, err)
	}

	out.line("Stack:")
	printStack(out, stack)

	if err := a.CheckResults(stack); err != nil {
		out.line("%s", out.paint(helpStyle, "note: "+err.Error()))
	}
	return nil
}

func printStack(out *printer, stack []types.Value) {
	if len(stack) == 0 {
		out.line("  (empty)")
		return
	}
	// Top of the stack first.
	for i := len(stack) - 1; i >= 0; i-- {
		out.line("  %d: %s", i, out.paint(resultStyle, stack[i].String()))
	}
}

func formatSignature(out *printer, a *manifest.Adapter) string {
	sig := a.WIT()
	params := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = p.Name + ": " + out.paint(typeStyle, witTypeStr(p.Type))
	}
	result := ""
	switch len(sig.Results) {
	case 0:
	case 1:
		result = " -> " + out.paint(typeStyle, witTypeStr(sig.Results[0]))
	default:
		rs := make([]string, len(sig.Results))
		for i, r := range sig.Results {
			rs[i] = witTypeStr(r)
		}
		result = " -> " + out.paint(typeStyle, "("+strings.Join(rs, ", ")+")")
	}
	return out.paint(funcStyle, a.Name) + "(" + strings.Join(params, ", ") + ")" + result
}

// printer writes lines, styled only when the output is a terminal.
type printer struct {
	f      *os.File
	styled bool
}

func newPrinter(f *os.File) *printer {
	fd := f.Fd()
	return &printer{
		f:      f,
		styled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

func (p *printer) paint(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.f, format+"\n", args...)
}
