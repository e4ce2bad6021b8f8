// Package bytecode walks EVM runtime bytecode looking for opcodes that
// change the risk picture of a contract: SELFDESTRUCT and DELEGATECALL.
package bytecode

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/rawblock/shield-engine/pkg/models"
)

// Analyze walks hex-encoded runtime bytecode (with or without the 0x
// prefix) one opcode at a time, skipping PUSH1..PUSH32 immediate data so
// immediate bytes that happen to equal 0xFF or 0xF4 are never
// misread as opcodes.
func Analyze(hexCode string) models.BytecodeAnalysis {
	var result models.BytecodeAnalysis

	raw := strings.TrimPrefix(hexCode, "0x")
	if raw == "" || raw == "0" {
		return result
	}
	result.CodeSize = len(raw) / 2

	i := 0
	length := len(raw)
	for i < length-1 {
		b, err := strconv.ParseUint(raw[i:i+2], 16, 8)
		if err != nil {
			i += 2
			continue
		}
		op := vm.OpCode(b)

		if op == vm.SELFDESTRUCT {
			result.HasSelfDestruct = true
			result.Notes = append(result.Notes, "SELFDESTRUCT opcode found")
		}
		if op == vm.DELEGATECALL {
			result.HasDelegateCall = true
			result.Notes = append(result.Notes, "DELEGATECALL opcode found")
		}

		if op >= vm.PUSH1 && op <= vm.PUSH32 {
			pushBytes := int(op) - int(vm.PUSH1) + 1
			i += 2 + pushBytes*2
		} else {
			i += 2
		}
	}

	return result
}
