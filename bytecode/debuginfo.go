package bytecode

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// DebugExtension is appended to a bytecode path to name its debug sidecar.
const DebugExtension = ".dbg"

// LineEntry marks the first byte of code generated for a source line.
type LineEntry struct {
	Offset int `cbor:"1,keyasint"`
	Line   int `cbor:"2,keyasint"`
}

// DebugInfo carries optional metadata about a compiled buffer. It is never
// needed for execution.
type DebugInfo struct {
	Filename string      `cbor:"1,keyasint,omitempty"`
	Locals   []string    `cbor:"2,keyasint,omitempty"` // name of each slot
	Lines    []LineEntry `cbor:"3,keyasint,omitempty"` // sorted by Offset
}

// LocalName returns the name bound to a slot, or "" if unknown.
func (d *DebugInfo) LocalName(slot uint64) string {
	if d == nil || slot >= uint64(len(d.Locals)) {
		return ""
	}
	return d.Locals[slot]
}

// LineFor returns the source line of the instruction at offset, or 0 if the
// line table does not cover it.
func (d *DebugInfo) LineFor(offset int) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}
	i := sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].Offset > offset
	})
	if i == 0 {
		return 0
	}
	return d.Lines[i-1].Line
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalDebugInfo serializes debug info to canonical CBOR.
func MarshalDebugInfo(d *DebugInfo) ([]byte, error) {
	return cborEncMode.Marshal(d)
}

// UnmarshalDebugInfo deserializes debug info from CBOR.
func UnmarshalDebugInfo(data []byte) (*DebugInfo, error) {
	var d DebugInfo
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal debug info: %w", err)
	}
	return &d, nil
}

// DebugPath returns the sidecar path for a bytecode file.
func DebugPath(path string) string {
	return path + DebugExtension
}

// WriteDebugFile writes the debug sidecar for the bytecode file at path.
func WriteDebugFile(path string, d *DebugInfo) error {
	data, err := MarshalDebugInfo(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(DebugPath(path), data, 0o644); err != nil {
		return fmt.Errorf("write debug info: %w", err)
	}
	return nil
}

// ReadDebugFile reads the debug sidecar for the bytecode file at path. A
// missing sidecar yields nil and no error.
func ReadDebugFile(path string) (*DebugInfo, error) {
	data, err := os.ReadFile(DebugPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read debug info: %w", err)
	}
	return UnmarshalDebugInfo(data)
}
