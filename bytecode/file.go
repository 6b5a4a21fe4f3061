package bytecode

import (
	"fmt"
	"os"
)

// WriteFile writes the raw instruction bytes to path.
func WriteFile(path string, code *Code) error {
	if err := os.WriteFile(path, code.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write bytecode: %w", err)
	}
	return nil
}

// ReadFile reads a raw bytecode file. The contents are not validated; use
// DecodeAll or the virtual machine to detect malformed input.
func ReadFile(path string) (*Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bytecode: %w", err)
	}
	return &Code{code: data}, nil
}
