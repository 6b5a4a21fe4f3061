package vm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/compiler"
	ivyerrors "github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/errz"
	"github.com/ivylang/ivy/op"
	"github.com/ivylang/ivy/parser"
	"github.com/ivylang/ivy/source"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, input string) *bytecode.Code {
	t.Helper()
	program, err := parser.Parse(context.Background(), input)
	require.Nil(t, err)
	code, err := compiler.Compile(program)
	require.Nil(t, err)
	return code
}

func run(t *testing.T, input string, opts ...Option) (string, error) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out)}, opts...)
	_, err := Run(context.Background(), compile(t, input), opts...)
	return out.String(), err
}

func requireFault(t *testing.T, err error, kind errz.Kind) *errz.Fault {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "expected %s, got %v", kind, err)
	var fault *errz.Fault
	require.True(t, errors.As(err, &fault))
	return fault
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"subtraction order", `print 10 - 3;`, "7\n"},
		{"division order", `print 20 / 4;`, "5\n"},
		{"precedence", `print 1 + 2 * 3;`, "7\n"},
		{"grouping", `print (1 + 2) * 3;`, "9\n"},
		{"unary minus", `print -5 + 2;`, "-3\n"},
		{"less", `print 1 < 2; print 2 < 1;`, "1\n0\n"},
		{"greater", `print 3 > 2; print 2 > 3;`, "1\n0\n"},
		{"shifts", `print 1 << 4; print 256 >> 2; print -8 >> 1;`, "16\n64\n-4\n"},
		{"truncating division", `print -7 / 2;`, "-3\n"},
		{"wrapping", `print 9223372036854775807 + 1;`, "-9223372036854775808\n"},
		{"else branch", `if 0: print 1; else: print 2; end`, "2\n"},
		{"then branch", `if 1: print 1; else: print 2; end`, "1\n"},
		{"false without else", `if 0: print 1; end`, ""},
		{"while", `let i = 0; while i < 3: print i; i = i + 1; end`, "0\n1\n2\n"},
		{"until zero iterations", `let i = 5; until i > 0: print i; end print 9;`, "9\n"},
		{"until counts", `let i = 0; until i > 2: print i; i = i + 1; end`, "0\n1\n2\n"},
		{"slot round trip", `let x = 5; let y = x + 1; print y;`, "6\n"},
		{"expression statement", `1 + 2; print 3;`, "3\n"},
		{"nested loops", `
let i = 0;
while i < 2:
  let j = 0;
  while j < 2:
    print i * 10 + j;
    j = j + 1;
  end
  i = i + 1;
end`, "0\n1\n10\n11\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.input)
			require.Nil(t, err)
			require.Equal(t, tt.want, out)
		})
	}
}

func TestDeterministic(t *testing.T) {
	input := `let n = 10; let a = 0; let b = 1;
while n > 0: print a; let t = a + b; a = b; b = t; n = n - 1; end`
	first, err := run(t, input)
	require.Nil(t, err)
	for i := 0; i < 3; i++ {
		again, err := run(t, input)
		require.Nil(t, err)
		require.Equal(t, first, again)
		require.True(t, compile(t, input).Equal(compile(t, input)))
	}
}

func TestSlotsAssignedInOrder(t *testing.T) {
	machine := New(compile(t, `let x = 5; let y = x + 1; let z = 0;`), WithOutput(&bytes.Buffer{}))
	require.Nil(t, machine.Run(context.Background()))
	require.Equal(t, []int64{5, 6, 0}, machine.Locals())
}

func TestDivisionByZeroStopsOutput(t *testing.T) {
	c := bytecode.NewChunk()
	c.EmitInt(op.PushInt, 42)
	c.Emit(op.Print)
	c.EmitInt(op.PushInt, 0)
	c.EmitInt(op.PushInt, 1)
	divAt := c.Emit(op.Div)
	c.EmitInt(op.PushInt, 7)
	c.Emit(op.Print)

	var out bytes.Buffer
	_, err := Run(context.Background(), c.Code(), WithOutput(&out))
	fault := requireFault(t, err, errz.DivisionByZero)
	require.Equal(t, divAt, fault.Offset)
	require.Equal(t, "DIV", fault.Opcode)
	require.Equal(t, "42\n", out.String())
}

func TestDivisionByZeroFromSource(t *testing.T) {
	out, err := run(t, "print 1;\nlet z = 0;\nprint 5 / z;\nprint 2;")
	requireFault(t, err, errz.DivisionByZero)
	require.Equal(t, "1\n", out)
}

func TestFaultLine(t *testing.T) {
	input := "let z = 0;\n\nprint 5 / z;"
	diags := ivyerrors.NewDiagnostics(source.FromString("fault.ivy", input))
	program, err := parser.Parse(context.Background(), input, parser.WithDiagnostics(diags))
	require.Nil(t, err)
	c := compiler.New(compiler.WithDiagnostics(diags))
	code := c.CompileProgram(program)
	require.False(t, diags.HasErrors())

	_, err = Run(context.Background(), code,
		WithOutput(&bytes.Buffer{}), WithDebugInfo(c.DebugInfo()))
	fault := requireFault(t, err, errz.DivisionByZero)
	require.Equal(t, 3, fault.Line)
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name string
		code func(c *bytecode.Chunk)
		opts []Option
		kind errz.Kind
		want string
	}{
		{
			name: "pop on empty stack",
			code: func(c *bytecode.Chunk) { c.Emit(op.Pop) },
			kind: errz.StackUnderflow,
			want: "runtime error: stack underflow (POP at offset 0)",
		},
		{
			name: "binary with one operand",
			code: func(c *bytecode.Chunk) {
				c.EmitInt(op.PushInt, 1)
				c.Emit(op.Add)
			},
			kind: errz.StackUnderflow,
			want: "runtime error: stack underflow: need 2 operands, have 1 (ADD at offset 9)",
		},
		{
			name: "print on empty stack",
			code: func(c *bytecode.Chunk) { c.Emit(op.Print) },
			kind: errz.StackUnderflow,
		},
		{
			name: "load unset slot",
			code: func(c *bytecode.Chunk) { c.EmitUint(op.LoadLocal, 3) },
			kind: errz.LocalOutOfRange,
			want: "runtime error: local slot out of range: slot 3, 0 locals defined (LOAD_LOCAL at offset 0)",
		},
		{
			name: "store past limit",
			code: func(c *bytecode.Chunk) {
				c.EmitInt(op.PushInt, 1)
				c.EmitUint(op.StoreLocal, 8)
			},
			opts: []Option{WithMaxLocals(8)},
			kind: errz.LocalOutOfRange,
		},
		{
			name: "negative shift",
			code: func(c *bytecode.Chunk) {
				c.EmitInt(op.PushInt, -1)
				c.EmitInt(op.PushInt, 1)
				c.Emit(op.ShiftLeft)
			},
			kind: errz.NegativeShift,
		},
		{
			name: "stack overflow",
			code: func(c *bytecode.Chunk) {
				c.EmitInt(op.PushInt, 1)
				c.EmitInt(op.PushInt, 2)
				c.EmitInt(op.PushInt, 3)
			},
			opts: []Option{WithMaxStackDepth(2)},
			kind: errz.StackOverflow,
		},
		{
			name: "relative jump past end",
			code: func(c *bytecode.Chunk) { c.EmitInt(op.JumpRelative, 1) },
			kind: errz.InvalidJump,
		},
		{
			name: "relative jump before start",
			code: func(c *bytecode.Chunk) { c.EmitInt(op.JumpRelative, -10) },
			kind: errz.InvalidJump,
		},
		{
			name: "absolute jump past end",
			code: func(c *bytecode.Chunk) { c.EmitUint(op.JumpAbsolute, 100) },
			kind: errz.InvalidJump,
		},
		{
			name: "step limit",
			code: func(c *bytecode.Chunk) { c.EmitInt(op.JumpRelative, -9) },
			opts: []Option{WithStepLimit(50)},
			kind: errz.StepLimit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := bytecode.NewChunk()
			tt.code(c)
			opts := append([]Option{WithOutput(&bytes.Buffer{})}, tt.opts...)
			_, err := Run(context.Background(), c.Code(), opts...)
			requireFault(t, err, tt.kind)
			if tt.want != "" {
				require.Equal(t, tt.want, err.Error())
			}
		})
	}
}

func TestInvalidOpcode(t *testing.T) {
	var out bytes.Buffer
	code := bytecode.New([]byte{byte(op.PushInt), 9, 0, 0, 0, 0, 0, 0, 0, byte(op.Print), 0xEE, byte(op.Print)})
	_, err := Run(context.Background(), code, WithOutput(&out))
	fault := requireFault(t, err, errz.InvalidOpcode)
	require.Equal(t, 10, fault.Offset)
	require.Equal(t, "", fault.Opcode)
	require.Equal(t, "9\n", out.String())
}

func TestTruncatedOperand(t *testing.T) {
	code := bytecode.New([]byte{byte(op.PushInt), 1, 2, 3})
	_, err := Run(context.Background(), code, WithOutput(&bytes.Buffer{}))
	fault := requireFault(t, err, errz.TruncatedOperand)
	require.Equal(t, "PUSH_INT", fault.Opcode)
}

func TestJumpToEndHalts(t *testing.T) {
	c := bytecode.NewChunk()
	p := c.EmitJump(op.JumpRelative)
	c.EmitInt(op.PushInt, 1)
	c.Emit(op.Print)
	c.PatchHere(p)

	var out bytes.Buffer
	stats, err := Run(context.Background(), c.Code(), WithOutput(&out))
	require.Nil(t, err)
	require.Equal(t, "", out.String())
	require.Equal(t, int64(1), stats.Steps)
}

func TestJumpAbsolute(t *testing.T) {
	c := bytecode.NewChunk()
	c.EmitUint(op.JumpAbsolute, 19)
	c.EmitInt(op.PushInt, 1) // skipped
	c.Emit(op.Nop)
	c.EmitInt(op.PushInt, 2)
	c.Emit(op.Print)

	var out bytes.Buffer
	_, err := Run(context.Background(), c.Code(), WithOutput(&out))
	require.Nil(t, err)
	require.Equal(t, "2\n", out.String())
}

func TestConditionalJumpsPopTheTest(t *testing.T) {
	c := bytecode.NewChunk()
	c.EmitInt(op.PushInt, 0)
	p := c.EmitJump(op.JumpIfNotZero)
	c.PatchHere(p)
	c.EmitInt(op.PushInt, 3)
	p = c.EmitJump(op.JumpIfZero)
	c.PatchHere(p)

	machine := New(c.Code(), WithOutput(&bytes.Buffer{}))
	require.Nil(t, machine.Run(context.Background()))
	require.Empty(t, machine.Stack())
}

func TestEmptyCode(t *testing.T) {
	stats, err := Run(context.Background(), bytecode.New(nil))
	require.Nil(t, err)
	require.Equal(t, Stats{}, stats)
}

func TestStats(t *testing.T) {
	machine := New(compile(t, `let x = 1; print x + 2; print x;`), WithOutput(&bytes.Buffer{}))
	require.Nil(t, machine.Run(context.Background()))
	stats := machine.Stats()
	// PUSH STORE PUSH LOAD ADD PRINT LOAD PRINT
	require.Equal(t, int64(8), stats.Steps)
	require.Equal(t, int64(2), stats.Prints)
	require.Equal(t, 2, stats.PeakStack)
	require.Equal(t, 1, stats.Locals)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestOutputFailure(t *testing.T) {
	_, err := run(t, `print 1;`, WithOutput(failingWriter{}))
	fault := requireFault(t, err, errz.OutputFailure)
	require.EqualError(t, fault.Cause, "disk full")
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, compile(t, `print 1;`), WithOutput(&bytes.Buffer{}))
	requireFault(t, err, errz.Canceled)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestContextCancellationDuringLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	steps := 0
	observer := ObserverFunc(func(StepEvent) bool {
		steps++
		if steps == 25 {
			cancel()
		}
		return true
	})
	_, err := Run(ctx, compile(t, `while 1: end`),
		WithContextCheckInterval(10), WithObserver(observer))
	requireFault(t, err, errz.Canceled)
	require.LessOrEqual(t, steps, 35)
}

func TestRunCodeKeepsLocals(t *testing.T) {
	symbols := compiler.NewSymbolTable()
	compileLine := func(line string) *bytecode.Code {
		program, err := parser.Parse(context.Background(), line)
		require.Nil(t, err)
		code, err := compiler.Compile(program, compiler.WithSymbols(symbols))
		require.Nil(t, err)
		return code
	}
	var out bytes.Buffer
	machine := New(compileLine(`let x = 40;`), WithOutput(&out))
	require.Nil(t, machine.Run(context.Background()))
	require.Nil(t, machine.RunCode(context.Background(), compileLine(`let y = x + 2;`)))
	require.Nil(t, machine.RunCode(context.Background(), compileLine(`print y;`)))
	require.Equal(t, "42\n", out.String())
	require.Equal(t, []int64{40, 42}, machine.Locals())

	// Run starts over with an empty locals store.
	require.Nil(t, machine.Run(context.Background()))
	require.Equal(t, []int64{40}, machine.Locals())
}
