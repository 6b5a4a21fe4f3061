package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/ivylang/ivy/op"
)

// Chunk is a growable instruction buffer used during compilation. Only the
// chunk computes operand positions and jump offsets; callers work with
// absolute offsets within the chunk and with Patch handles.
type Chunk struct {
	code  []byte
	lines []LineEntry
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Patch identifies a jump placeholder that has not been resolved yet. It is
// only valid for the chunk that returned it.
type Patch struct {
	operand int // offset of the placeholder operand
}

// Len returns the number of bytes emitted so far.
func (c *Chunk) Len() int {
	return len(c.code)
}

// Emit appends an instruction without an operand and returns its offset.
func (c *Chunk) Emit(code op.Code) int {
	info := mustInfo(code)
	if info.HasOperand() {
		panic(fmt.Sprintf("bytecode: %s requires an operand", info.Name))
	}
	offset := len(c.code)
	c.code = append(c.code, byte(code))
	return offset
}

// EmitInt appends an instruction with a signed operand and returns its offset.
func (c *Chunk) EmitInt(code op.Code, operand int64) int {
	return c.emitOperand(code, uint64(operand))
}

// EmitUint appends an instruction with an unsigned operand and returns its
// offset.
func (c *Chunk) EmitUint(code op.Code, operand uint64) int {
	return c.emitOperand(code, operand)
}

func (c *Chunk) emitOperand(code op.Code, operand uint64) int {
	info := mustInfo(code)
	if !info.HasOperand() {
		panic(fmt.Sprintf("bytecode: %s takes no operand", info.Name))
	}
	offset := len(c.code)
	c.code = append(c.code, byte(code))
	c.code = binary.LittleEndian.AppendUint64(c.code, operand)
	return offset
}

// EmitJump appends a relative jump with a zero placeholder offset and returns
// a handle used to resolve it once the target is known.
func (c *Chunk) EmitJump(code op.Code) Patch {
	requireRelative(code)
	offset := c.emitOperand(code, 0)
	return Patch{operand: offset + 1}
}

// EmitJumpTo appends a relative jump to a target that has already been
// emitted, typically a loop head.
func (c *Chunk) EmitJumpTo(code op.Code, target int) {
	requireRelative(code)
	end := len(c.code) + 1 + op.OperandWidth
	c.emitOperand(code, uint64(int64(target-end)))
}

// Patch resolves a placeholder so that the jump lands on target.
func (c *Chunk) Patch(p Patch, target int) {
	end := p.operand + op.OperandWidth
	if p.operand <= 0 || end > len(c.code) {
		panic(fmt.Sprintf("bytecode: invalid patch handle at %d", p.operand))
	}
	binary.LittleEndian.PutUint64(c.code[p.operand:end], uint64(int64(target-end)))
}

// PatchHere resolves a placeholder so that the jump lands on the next
// instruction to be emitted.
func (c *Chunk) PatchHere(p Patch) {
	c.Patch(p, len(c.code))
}

// Append splices another chunk onto the end of this one. Line entries of
// the other chunk are shifted to their new offsets. Patch handles issued by
// other are not valid for c.
func (c *Chunk) Append(other *Chunk) {
	base := len(c.code)
	c.code = append(c.code, other.code...)
	for _, entry := range other.lines {
		c.addLine(base+entry.Offset, entry.Line)
	}
}

// MarkLine records that code emitted from here on belongs to the given
// source line.
func (c *Chunk) MarkLine(line int) {
	c.addLine(len(c.code), line)
}

func (c *Chunk) addLine(offset, line int) {
	if n := len(c.lines); n > 0 {
		last := &c.lines[n-1]
		if last.Line == line {
			return
		}
		if last.Offset == offset {
			last.Line = line
			return
		}
	}
	c.lines = append(c.lines, LineEntry{Offset: offset, Line: line})
}

// Lines returns the offset to line table collected so far.
func (c *Chunk) Lines() []LineEntry {
	out := make([]LineEntry, len(c.lines))
	copy(out, c.lines)
	return out
}

// Code returns an immutable copy of the emitted bytes.
func (c *Chunk) Code() *Code {
	return New(c.code)
}

func mustInfo(code op.Code) op.Info {
	info, ok := op.GetInfo(code)
	if !ok {
		panic(fmt.Sprintf("bytecode: unknown opcode %d", code))
	}
	return info
}

func requireRelative(code op.Code) {
	if info := mustInfo(code); info.Operand != op.Offset {
		panic(fmt.Sprintf("bytecode: %s is not a relative jump", info.Name))
	}
}
