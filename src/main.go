package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"sysyc/src/frontend"
	"sysyc/src/irgen"
	"sysyc/src/target/riscv"
	"sysyc/src/util"
)

// run drives one compilation: read source, parse, lower to IR, then either
// print the IR or lower further to RISC-V assembly, per opt.
func run(opt util.Options) error {
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %w", err)
	}

	cu, err := frontend.Parse(src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	prog, err := irgen.NewTranslator().Translate(cu)
	if err != nil {
		return fmt.Errorf("semantic error: %w", err)
	}

	if opt.Verbose {
		fmt.Fprintln(os.Stderr, spew.Sdump(prog))
	}

	var out string
	if opt.Koopa {
		out = prog.String()
	} else {
		out = riscv.TranslateProgram(prog)
	}

	w := util.NewWriter(nil)
	if len(opt.Out) > 0 {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open output file: %w", err)
		}
		defer f.Close()
		w = util.NewWriter(f)
	}
	w.WriteString(out)
	return w.Flush()
}

// newRootCmd builds the cobra command tree: one positional source path and
// the -o/-k/-vb flags of spec §7.
func newRootCmd() *cobra.Command {
	opt := util.Options{}

	cmd := &cobra.Command{
		Use:   "sysyc [source]",
		Short: "sysyc compiles a SysY source file to RISC-V 32 assembly or Koopa IR",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opt.Src = args[0]
			}
			return run(opt)
		},
	}

	cmd.Flags().StringVarP(&opt.Out, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().BoolVarP(&opt.Koopa, "koopa", "k", false, "emit textual Koopa IR instead of assembly")
	cmd.Flags().BoolVar(&opt.Verbose, "verbose", false, "dump the lowered IR before emitting output")

	return cmd
}

// longFlagAliases rewrites multi-character single-dash spellings into their
// double-dash form before cobra ever sees them: pflag treats a single
// leading dash as a run of one-character shorthands, so "-koopa" or "-vb"
// would otherwise be parsed as a string of undefined shorthands and fail.
var longFlagAliases = map[string]string{
	"-koopa": "--koopa",
	"-vb":    "--verbose",
}

func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if alias, ok := longFlagAliases[a]; ok {
			out[i] = alias
		} else {
			out[i] = a
		}
	}
	return out
}

func main() {
	cmd := newRootCmd()
	cmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
