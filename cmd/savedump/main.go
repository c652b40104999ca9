package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/savedump/binary"
	"github.com/wippyai/savedump/memory"
	"github.com/wippyai/savedump/savefile"
	"github.com/wippyai/savedump/schema"
	"github.com/wippyai/savedump/types"
	"github.com/wippyai/savedump/witschema"
)

// demo is dumped when no -fields are given.
type demo struct {
	A int32   `save:"a"`
	B float32 `save:"b"`
	C int8    `save:"c"`
}

type options struct {
	output      string
	name        string
	fields      string
	values      string
	wasmFile    string
	memoryName  string
	addr        uint
	showSchema  bool
	interactive bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.output, "o", "-", "Output file (- for stdout)")
	flag.StringVar(&opts.name, "name", "Test", "Record name used with -fields")
	flag.StringVar(&opts.fields, "fields", "", "Record fields as name:type,... with WIT primitive types")
	flag.StringVar(&opts.values, "values", "", "Instance bytes as hex")
	flag.StringVar(&opts.wasmFile, "wasm", "", "Core wasm module to snapshot the instance from")
	flag.StringVar(&opts.memoryName, "memory", "memory", "Exported memory name used with -wasm")
	flag.UintVar(&opts.addr, "addr", 0, "Instance address in the module's memory")
	flag.BoolVar(&opts.showSchema, "schema", false, "Print the schema table and exit")
	flag.BoolVar(&opts.interactive, "i", false, "Browse the schema interactively")
	flag.BoolVar(&opts.verbose, "v", false, "Debug logging")
	flag.Parse()

	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
		defer func() { _ = logger.Sync() }()
	}
	types.SetLogger(logger.Named("types"))
	schema.SetLogger(logger.Named("schema"))
	savefile.SetLogger(logger.Named("savefile"))
	witschema.SetLogger(logger.Named("witschema"))

	if err := run(context.Background(), opts, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer, logger *zap.Logger) error {
	typ, obj, err := buildObject(ctx, opts)
	if err != nil {
		return err
	}

	if opts.showSchema || opts.interactive {
		table, err := schema.Build(typ)
		if err != nil {
			return err
		}
		if opts.interactive {
			return runInteractive(table, typ.Name())
		}
		printSchema(stdout, table)
		return nil
	}

	if opts.output != "" && opts.output != "-" {
		sum, err := savefile.Create(opts.output, []savefile.Object{obj}, savefile.WithLogger(logger))
		if err != nil {
			return err
		}
		logger.Info("dump created",
			zap.String("path", opts.output),
			zap.Int("bytes", sum.Bytes),
			zap.Int("types", sum.Types),
		)
		return nil
	}

	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("refusing to write a binary dump to a terminal, use -o or redirect stdout")
	}
	w := binary.NewWriter()
	if _, err := savefile.WriteFile(w, []savefile.Object{obj}); err != nil {
		return err
	}
	_, err = w.WriteTo(stdout)
	return err
}

// buildObject resolves the record descriptor and the instance bytes.
func buildObject(ctx context.Context, opts options) (*types.Type, savefile.Object, error) {
	var typ *types.Type
	if opts.fields == "" {
		t, err := types.For[demo]()
		if err != nil {
			return nil, savefile.Object{}, err
		}
		typ = t
	} else {
		fields, err := witschema.ParseFields(opts.fields)
		if err != nil {
			return nil, savefile.Object{}, err
		}
		t, err := witschema.NewConverter().Convert(witschema.NewRecord(opts.name, fields...))
		if err != nil {
			return nil, savefile.Object{}, err
		}
		typ = t
	}

	switch {
	case opts.wasmFile != "":
		obj, err := snapshot(ctx, opts, typ)
		return typ, obj, err
	case opts.values != "":
		data, err := hex.DecodeString(strings.ReplaceAll(opts.values, " ", ""))
		if err != nil {
			return nil, savefile.Object{}, fmt.Errorf("parse -values: %w", err)
		}
		return typ, savefile.Raw(typ, 0, data), nil
	case opts.fields == "":
		obj, err := savefile.ValueOf(typ, &demo{A: 1, B: 2, C: 3})
		return typ, obj, err
	default:
		return typ, savefile.Raw(typ, 0, make([]byte, typ.Size())), nil
	}
}

func snapshot(ctx context.Context, opts options, typ *types.Type) (savefile.Object, error) {
	data, err := os.ReadFile(opts.wasmFile)
	if err != nil {
		return savefile.Object{}, fmt.Errorf("read file: %w", err)
	}
	mod, err := memory.Load(ctx, data)
	if err != nil {
		return savefile.Object{}, err
	}
	defer mod.Close(ctx)

	mem, err := mod.Memory(opts.memoryName)
	if err != nil {
		return savefile.Object{}, err
	}
	if opts.addr > uint(^uint32(0)) {
		return savefile.Object{}, fmt.Errorf("address %#x exceeds 32-bit memory", opts.addr)
	}
	return savefile.FromMemory(mem, typ, uint32(opts.addr))
}

func printSchema(out io.Writer, table *schema.Table) {
	for id, t := range table.Types() {
		fmt.Fprintf(out, "%3d  %-24s %s\n", id, t.Name(), t.Describe())
		for _, m := range t.Members() {
			fmt.Fprintf(out, "       +%-4d %-16s %s\n", m.Offset, m.Name, m.Type.Name())
		}
	}
}
