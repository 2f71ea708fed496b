// Package fault defines the two classes of error raised by the emulated
// hardware: CPU exceptions, which the CPU routes to its exception vector,
// and unsupported conditions, which stop the emulation.
package fault

import (
	"errors"
	"fmt"
)

// Exception is a CPU exception code as stored in the Cop0 Cause register.
type Exception uint8

const (
	Interrupt          Exception = 0x0
	LoadAddressError   Exception = 0x4
	StoreAddressError  Exception = 0x5
	SysCall            Exception = 0x8
	Break              Exception = 0x9
	IllegalInstruction Exception = 0xa
	CoprocessorError   Exception = 0xb
	Overflow           Exception = 0xc
)

func (e Exception) String() string {
	switch e {
	case Interrupt:
		return "Interrupt"
	case LoadAddressError:
		return "LoadAddressError"
	case StoreAddressError:
		return "StoreAddressError"
	case SysCall:
		return "SysCall"
	case Break:
		return "Break"
	case IllegalInstruction:
		return "IllegalInstruction"
	case CoprocessorError:
		return "CoprocessorError"
	case Overflow:
		return "Overflow"
	}
	return fmt.Sprintf("Exception(%d)", uint8(e))
}

// Fault is a recoverable CPU exception.
type Fault struct {
	Exception Exception
	Address   uint32
}

func (f *Fault) Error() string {
	return fmt.Sprintf("cpu exception %s at 0x%08X", f.Exception, f.Address)
}

// Raise returns a Fault for the given exception.
func Raise(e Exception, address uint32) error {
	return &Fault{Exception: e, Address: address}
}

// ErrUnsupported matches every *Unsupported through errors.Is.
var ErrUnsupported = errors.New("unsupported")

// Unsupported is a condition the emulator cannot continue from: an
// unmapped address, an unhandled opcode or register, or a hardware mode
// that is not emulated.
type Unsupported struct {
	Component string
	What      string
	Value     uint32
}

func (u *Unsupported) Error() string {
	return fmt.Sprintf("%s: unsupported %s 0x%08X", u.Component, u.What, u.Value)
}

func (u *Unsupported) Is(target error) bool {
	return target == ErrUnsupported
}

// Unsupportedf builds an *Unsupported error.
func Unsupportedf(component, what string, value uint32) error {
	return &Unsupported{Component: component, What: what, Value: value}
}

// AsFault returns the Fault wrapped in err, if any.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
