package memory

import (
	"fmt"
	"log/slog"
)

// AccessSize is the width of a bus access in bytes.
type AccessSize uint8

const (
	Byte AccessSize = 1
	Half AccessSize = 2
	Word AccessSize = 4
)

func (s AccessSize) mask() uint32 {
	switch s {
	case Byte:
		return 0xff
	case Half:
		return 0xffff
	}
	return 0xffffffff
}

// Stub is a mapped peripheral that is not emulated. Loads return a fixed
// value and stores are logged and dropped, so BIOS probing code keeps going.
type Stub struct {
	name   string
	fill   uint32
	logger *slog.Logger

	loads  int
	stores int
}

type StubOption func(*Stub)

// WithStubLogger sets the logger used to report accesses.
func WithStubLogger(l *slog.Logger) StubOption { return func(s *Stub) { s.logger = l } }

// NewStub creates a stub whose loads return fill repeated in every byte.
func NewStub(name string, fill uint8, opts ...StubOption) *Stub {
	s := &Stub{
		name:   name,
		fill:   uint32(fill) * 0x01010101,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stub) Name() string { return s.name }

func (s *Stub) Load(offset uint32, size AccessSize) uint32 {
	s.loads++
	s.logger.Debug("unhandled load", "device", s.name,
		"offset", fmt.Sprintf("0x%X", offset), "size", size)
	return s.fill & size.mask()
}

func (s *Stub) Store(offset, value uint32, size AccessSize) {
	s.stores++
	s.logger.Debug("unhandled store", "device", s.name,
		"offset", fmt.Sprintf("0x%X", offset), "size", size,
		"value", fmt.Sprintf("0x%08X", value&size.mask()))
}

// Accesses returns the number of loads and stores seen so far.
func (s *Stub) Accesses() (loads, stores int) {
	return s.loads, s.stores
}
