package util

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options carries every knob the compiler pipeline needs, gathered from the
// command line by the cobra command tree in package main. It is the one
// struct passed down through frontend, irgen and target/riscv, the same
// role the teacher's util.Options plays — trimmed to only the flags this
// core's single target (RISC-V 32) and single pass (IR or assembly) need.
type Options struct {
	Src     string // Path to the input source file; empty means read stdin.
	Out     string // Path to the output file; empty means write stdout.
	Koopa   bool   // Emit textual Koopa IR instead of assembly (-k/--koopa/-koopa).
	Verbose bool   // Dump the lowered IR with spew before emitting output (-vb/--verbose).
}
