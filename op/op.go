// Package op defines the opcodes shared by the Ivy compiler, virtual machine
// and disassembler.
//
// The numeric value of every opcode is part of the persisted bytecode format
// and must not change. An instruction is one opcode byte, optionally followed
// by a fixed OperandWidth-byte little-endian operand.
package op

import "strconv"

// Code is a one-byte opcode that indicates an operation to execute.
type Code byte

const (
	Nop Code = 0

	// Stack
	PushInt Code = 1
	Pop     Code = 2

	// Arithmetic
	Add Code = 3
	Sub Code = 4
	Mul Code = 5
	Div Code = 6

	// Comparison
	CmpLess    Code = 7
	CmpGreater Code = 8

	// Locals
	StoreLocal Code = 9
	LoadLocal  Code = 10

	// Jump
	JumpAbsolute  Code = 11
	JumpRelative  Code = 12
	JumpIfZero    Code = 13
	JumpIfNotZero Code = 14

	// Output
	Print Code = 15

	// Shifts
	ShiftLeft  Code = 16
	ShiftRight Code = 17
)

// OperandWidth is the size in bytes of every operand.
const OperandWidth = 8

// OperandKind describes how an instruction's operand is interpreted.
type OperandKind int

const (
	// None means the opcode carries no operand.
	None OperandKind = iota
	// Int is a signed literal pushed onto the stack.
	Int
	// Slot is an unsigned index into the locals store.
	Slot
	// Address is an unsigned absolute offset into the code.
	Address
	// Offset is a signed displacement measured from the end of the operand.
	Offset
)

func (k OperandKind) String() string {
	switch k {
	case Int:
		return "int"
	case Slot:
		return "slot"
	case Address:
		return "address"
	case Offset:
		return "offset"
	default:
		return "none"
	}
}

// Signed reports whether the operand is decoded as a signed integer.
func (k OperandKind) Signed() bool {
	return k == Int || k == Offset
}

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	Operand OperandKind
}

// HasOperand reports whether the opcode is followed by an operand.
func (i Info) HasOperand() bool {
	return i.Operand != None
}

// Size returns the encoded size of the instruction in bytes.
func (i Info) Size() int {
	if i.HasOperand() {
		return 1 + OperandWidth
	}
	return 1
}

// IsJump reports whether the opcode transfers control.
func (i Info) IsJump() bool {
	return i.Operand == Offset || i.Operand == Address
}

var (
	infos  [256]Info
	valid  [256]bool
	byName = map[string]Code{}
)

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand OperandKind
	}
	ops := []opInfo{
		{Add, "ADD", None},
		{CmpGreater, "CMP_GREATER", None},
		{CmpLess, "CMP_LESS", None},
		{Div, "DIV", None},
		{JumpAbsolute, "JUMP_ABSOLUTE", Address},
		{JumpIfNotZero, "JUMP_IF_NOT_ZERO", Offset},
		{JumpIfZero, "JUMP_IF_ZERO", Offset},
		{JumpRelative, "JUMP_RELATIVE", Offset},
		{LoadLocal, "LOAD_LOCAL", Slot},
		{Mul, "MUL", None},
		{Nop, "NOP", None},
		{Pop, "POP", None},
		{Print, "PRINT", None},
		{PushInt, "PUSH_INT", Int},
		{ShiftLeft, "SHIFT_LEFT", None},
		{ShiftRight, "SHIFT_RIGHT", None},
		{StoreLocal, "STORE_LOCAL", Slot},
		{Sub, "SUB", None},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			Operand: o.operand,
		}
		valid[o.op] = true
		byName[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode. The second result is
// false if the byte is not a known opcode.
func GetInfo(code Code) (Info, bool) {
	return infos[code], valid[code]
}

// Lookup returns the opcode with the given mnemonic.
func Lookup(name string) (Code, bool) {
	code, ok := byName[name]
	return code, ok
}

// Valid reports whether the code is a known opcode.
func (c Code) Valid() bool {
	return valid[c]
}

// String returns the opcode mnemonic, or UNKNOWN(n) for unassigned values.
func (c Code) String() string {
	if !valid[c] {
		return "UNKNOWN(" + strconv.Itoa(int(c)) + ")"
	}
	return infos[c].Name
}

// Codes returns every defined opcode in numeric order.
func Codes() []Code {
	var codes []Code
	for i := range valid {
		if valid[i] {
			codes = append(codes, Code(i))
		}
	}
	return codes
}
