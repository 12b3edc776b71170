// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import "fmt"

type FaultKind int

const (
	StackOverflow FaultKind = iota
	StackUnderflow
	MemoryFault
)

func (k FaultKind) String() string {
	switch k {
	case StackOverflow:
		return "stack overflow"
	case StackUnderflow:
		return "stack underflow"
	case MemoryFault:
		return "memory fault"
	default:
		return "unknown fault"
	}
}

// Fault is a fatal machine fault. The historical hardware left these
// undefined; this machine aborts with full register context instead of
// silently corrupting state.
type Fault struct {
	Kind    FaultKind
	Opcode  uint16
	Program uint16
	Index   uint16
	Pointer uint8
	Detail  string
}

func (f *Fault) Error() string {
	return fmt.Sprintf(
		"%s: %s (opcode:%#04x pc:%#04x i:%#04x sp:%d)",
		f.Kind, f.Detail, f.Opcode, f.Program, f.Index, f.Pointer,
	)
}

// LoadError reports a program image that cannot be placed into the user
// memory region
type LoadError struct {
	Size int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot load program: %v", e.Err)
	}

	return fmt.Sprintf(
		"cannot load program: %d bytes exceeds the %d byte program region",
		e.Size, PROGRAM_MAX,
	)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (mc *Machine) fault(kind FaultKind, opcode uint16, detail string) *Fault {
	return &Fault{
		Kind:    kind,
		Opcode:  opcode,
		Program: mc.State.Program,
		Index:   mc.State.Index,
		Pointer: mc.State.Pointer,
		Detail:  detail,
	}
}
