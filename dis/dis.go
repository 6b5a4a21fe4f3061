// Package dis supports analysis of Ivy bytecode by disassembling it.
// This works with the opcodes defined in the `op` package and uses the
// Iter type from the `bytecode` package.
package dis

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/ivylang/ivy/bytecode"
	"github.com/ivylang/ivy/internal/table"
	"github.com/ivylang/ivy/op"
)

// Instruction represents a single bytecode instruction and its operand.
type Instruction struct {
	Offset     int     `json:"offset"`
	Name       string  `json:"opcode"`
	Opcode     op.Code `json:"code"`
	Operand    *int64  `json:"operand,omitempty"`
	Target     *int    `json:"target,omitempty"`
	Annotation string  `json:"info,omitempty"`
	Line       int     `json:"line,omitempty"`
}

// Disassemble returns a parsed representation of the given bytecode. Debug
// info is optional; when present, local slots are annotated with their names
// and each instruction carries its source line.
//
// If the code cannot be fully decoded, the instructions decoded before the
// failure are returned along with the error.
func Disassemble(code *bytecode.Code, debug *bytecode.DebugInfo) ([]Instruction, error) {
	var instructions []Instruction
	iter := bytecode.NewIter(code)
	for iter.Next() {
		inst := iter.Instruction()
		instr := Instruction{
			Offset: inst.Offset,
			Name:   inst.Info.Name,
			Opcode: inst.Opcode(),
			Line:   debug.LineFor(inst.Offset),
		}
		if inst.Info.HasOperand() {
			operand := int64(inst.Operand)
			instr.Operand = &operand
		}
		if target, ok := inst.Target(); ok {
			instr.Target = &target
			instr.Annotation = "-> " + strconv.Itoa(target)
		}
		if inst.Info.Operand == op.Slot {
			instr.Annotation = debug.LocalName(inst.Operand)
		}
		instructions = append(instructions, instr)
	}
	return instructions, iter.Err()
}

// Print a string representation of the given instructions to the given
// writer. A LINE column is included when any instruction has a source line;
// the line is shown on the first instruction compiled from it.
func Print(instructions []Instruction, writer io.Writer) error {
	bold := color.New(color.Bold).SprintFunc()
	info := color.New(color.FgHiCyan).SprintFunc()
	jump := color.New(color.FgYellow).SprintFunc()

	withLines := false
	for _, instr := range instructions {
		if instr.Line > 0 {
			withLines = true
			break
		}
	}

	var rows [][]string
	lastLine := 0
	for _, instr := range instructions {
		var row []string
		if withLines {
			if instr.Line != lastLine {
				row = append(row, lineLabel(instr.Line))
				lastLine = instr.Line
			} else {
				row = append(row, "")
			}
		}
		row = append(row, strconv.Itoa(instr.Offset), bold(instr.Name))
		if instr.Operand != nil {
			row = append(row, strconv.FormatInt(*instr.Operand, 10))
		} else {
			row = append(row, "")
		}
		switch {
		case instr.Annotation == "":
			row = append(row, "")
		case instr.Target != nil:
			row = append(row, jump(instr.Annotation))
		default:
			row = append(row, info(instr.Annotation))
		}
		rows = append(rows, row)
	}

	header := []string{"OFFSET", "OPCODE", "OPERAND", "INFO"}
	align := []table.Alignment{table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft}
	if withLines {
		header = append([]string{"LINE"}, header...)
		align = append([]table.Alignment{table.AlignRight}, align...)
	}
	centered := make([]table.Alignment, len(header))
	for i := range centered {
		centered[i] = table.AlignCenter
	}
	return table.NewTable(writer).
		WithHeader(header).
		WithColumnAlignment(align).
		WithHeaderAlignment(centered).
		WithRows(rows).
		Render()
}

func lineLabel(line int) string {
	if line <= 0 {
		return ""
	}
	return strconv.Itoa(line)
}
