// Package bytecode provides the binary representation of compiled Ivy code.
//
// A compiled program is a flat byte buffer. Each instruction is one opcode
// byte, optionally followed by an 8-byte little-endian operand (see package
// op). There is no header, version tag or length prefix: the file boundary is
// the buffer boundary.
//
// # Key Types
//
//   - [Chunk]: a growable buffer used while compiling. Forward jumps are
//     emitted with a placeholder and a [Patch] handle that is resolved once
//     the target is known. Chunks can be spliced into one another since every
//     jump offset is relative.
//   - [Code]: an immutable buffer handed to the virtual machine and the
//     disassembler.
//   - [Instruction] and [Iter]: a decoder that walks a buffer one instruction
//     at a time.
//   - [DebugInfo]: optional metadata (file name, local names, line table)
//     stored next to a bytecode file as a CBOR sidecar.
//
// # Jump Offsets
//
// Relative jump offsets are measured from the address immediately after the
// jump's operand:
//
//	target = offset_of_jump + 9 + operand
//
// Chunk computes all offsets itself; callers only deal in absolute targets
// within the chunk or in patch handles.
package bytecode
