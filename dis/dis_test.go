package dis

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/compiler"
	"github.com/ivylang/ivy/errors"
	"github.com/ivylang/ivy/op"
	"github.com/ivylang/ivy/parser"
	"github.com/ivylang/ivy/source"
	"github.com/stretchr/testify/require"
)

func disableColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })
}

func compileWithDebug(t *testing.T, input string) (*bytecode.Code, *bytecode.DebugInfo) {
	t.Helper()
	diags := errors.NewDiagnostics(source.FromString("loop.ivy", input))
	program, err := parser.Parse(context.Background(), input, parser.WithDiagnostics(diags))
	require.Nil(t, err)
	c := compiler.New(compiler.WithDiagnostics(diags))
	code := c.CompileProgram(program)
	require.False(t, diags.HasErrors())
	return code, c.DebugInfo()
}

func TestLoopDisassembly(t *testing.T) {
	disableColor(t)
	code, debug := compileWithDebug(t, "let x = 1;\nwhile x < 3:\n  x = x + 1;\nend\nprint x;")
	instructions, err := Disassemble(code, debug)
	require.Nil(t, err)
	require.Len(t, instructions, 13)

	var buf bytes.Buffer
	require.Nil(t, Print(instructions, &buf))

	expected := strings.TrimSpace(`
+------+--------+---------------+---------+-------+
| LINE | OFFSET |    OPCODE     | OPERAND | INFO  |
+------+--------+---------------+---------+-------+
|    1 |      0 | PUSH_INT      |       1 |       |
|      |      9 | STORE_LOCAL   |       0 | x     |
|    2 |     18 | PUSH_INT      |       3 |       |
|      |     27 | LOAD_LOCAL    |       0 | x     |
|      |     36 | CMP_LESS      |         |       |
|      |     37 | JUMP_IF_ZERO  |      37 | -> 83 |
|    3 |     46 | PUSH_INT      |       1 |       |
|      |     55 | LOAD_LOCAL    |       0 | x     |
|      |     64 | ADD           |         |       |
|      |     65 | STORE_LOCAL   |       0 | x     |
|    2 |     74 | JUMP_RELATIVE |     -65 | -> 18 |
|    5 |     83 | LOAD_LOCAL    |       0 | x     |
|      |     92 | PRINT         |         |       |
+------+--------+---------------+---------+-------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestDisassemblyWithoutDebugInfo(t *testing.T) {
	disableColor(t)
	program, err := parser.Parse(context.Background(), "let a = -2; print a;")
	require.Nil(t, err)
	code, err := compiler.Compile(program)
	require.Nil(t, err)

	instructions, err := Disassemble(code, nil)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, Print(instructions, &buf))
	expected := strings.TrimSpace(`
+--------+-------------+---------+------+
| OFFSET |   OPCODE    | OPERAND | INFO |
+--------+-------------+---------+------+
|      0 | PUSH_INT    |       2 |      |
|      9 | PUSH_INT    |       0 |      |
|     18 | SUB         |         |      |
|     19 | STORE_LOCAL |       0 |      |
|     28 | LOAD_LOCAL  |       0 |      |
|     37 | PRINT       |         |      |
+--------+-------------+---------+------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestEveryOpcode(t *testing.T) {
	c := bytecode.NewChunk()
	for _, code := range op.Codes() {
		info, ok := op.GetInfo(code)
		require.True(t, ok)
		if info.HasOperand() {
			c.EmitUint(code, 0)
		} else {
			c.Emit(code)
		}
	}
	instructions, err := Disassemble(c.Code(), nil)
	require.Nil(t, err)
	require.Len(t, instructions, len(op.Codes()))
	for i, code := range op.Codes() {
		require.Equal(t, code, instructions[i].Opcode)
		require.Equal(t, code.String(), instructions[i].Name)
		back, ok := op.Lookup(instructions[i].Name)
		require.True(t, ok)
		require.Equal(t, code, back)
	}
}

func TestJumpTargets(t *testing.T) {
	c := bytecode.NewChunk()
	skip := c.EmitJump(op.JumpIfNotZero)
	c.Emit(op.Nop)
	c.PatchHere(skip)
	c.EmitUint(op.JumpAbsolute, 0)

	instructions, err := Disassemble(c.Code(), nil)
	require.Nil(t, err)
	require.Len(t, instructions, 3)
	require.NotNil(t, instructions[0].Target)
	require.Equal(t, 10, *instructions[0].Target)
	require.Equal(t, "-> 10", instructions[0].Annotation)
	require.Nil(t, instructions[1].Target)
	require.Equal(t, 0, *instructions[2].Target)
}

func TestDisassemblyError(t *testing.T) {
	code := bytecode.New([]byte{byte(op.Pop), byte(op.Print), 0xFF, byte(op.Pop)})
	instructions, err := Disassemble(code, nil)
	require.ErrorIs(t, err, bytecode.ErrInvalidOpcode)
	require.Len(t, instructions, 2)

	var decodeErr *bytecode.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, 2, decodeErr.Offset)
}

func TestInstructionJSON(t *testing.T) {
	code, debug := compileWithDebug(t, "let n = 0;\nuntil n > 0: n = 1; end")
	instructions, err := Disassemble(code, debug)
	require.Nil(t, err)

	data, err := json.Marshal(instructions[:2])
	require.Nil(t, err)
	require.JSONEq(t, `[
		{"offset": 0, "opcode": "PUSH_INT", "code": 1, "operand": 0, "line": 1},
		{"offset": 9, "opcode": "STORE_LOCAL", "code": 9, "operand": 0, "info": "n", "line": 1}
	]`, string(data))
}

func TestColoredOutput(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	c := bytecode.NewChunk()
	p := c.EmitJump(op.JumpRelative)
	c.PatchHere(p)
	instructions, err := Disassemble(c.Code(), nil)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, Print(instructions, &buf))
	require.Contains(t, buf.String(), "\x1b[")
	require.Contains(t, buf.String(), "JUMP_RELATIVE")
}
