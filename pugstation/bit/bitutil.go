package bit

// IsSet reports whether the bit at the specified index is set to 1.
func IsSet(index uint8, value uint32) bool {
	return (value>>index)&1 == 1
}

// Set returns value with the bit at the specified index set to 1.
func Set(index uint8, value uint32) uint32 {
	return value | (1 << index)
}

// Clear returns value with the bit at the specified index set to 0.
func Clear(index uint8, value uint32) uint32 {
	return value &^ (1 << index)
}

// SetTo sets or clears the bit at index depending on on.
func SetTo(index uint8, value uint32, on bool) uint32 {
	if on {
		return Set(index, value)
	}
	return Clear(index, value)
}

// FromBool returns 1 for true and 0 for false.
func FromBool(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Extract extracts bits from highBit to lowBit (inclusive).
// Example: Extract(0b11010110, 6, 4) -> 0b101 (extracts bits 6, 5, 4)
func Extract(value uint32, highBit, lowBit uint8) uint32 {
	width := highBit - lowBit + 1
	if width >= 32 {
		return value >> lowBit
	}
	mask := uint32(1)<<width - 1
	return (value >> lowBit) & mask
}

// Insert returns value with bits highBit..lowBit replaced by field.
// Bits of field that do not fit are dropped.
func Insert(value, field uint32, highBit, lowBit uint8) uint32 {
	width := highBit - lowBit + 1
	mask := ^uint32(0)
	if width < 32 {
		mask = uint32(1)<<width - 1
	}
	return value&^(mask<<lowBit) | (field&mask)<<lowBit
}

// SignExtend interprets the low width bits of value as a two's complement
// number and extends it to 32 bits.
func SignExtend(value uint32, width uint8) int32 {
	shift := 32 - width
	return int32(value<<shift) >> shift
}

// Low returns the low 16 bits of a 32 bit value.
func Low(value uint32) uint16 {
	return uint16(value)
}

// High returns the high 16 bits of a 32 bit value.
func High(value uint32) uint16 {
	return uint16(value >> 16)
}

// CheckedAdd adds two signed 32 bit values and reports signed overflow.
func CheckedAdd(a, b uint32) (result uint32, overflow bool) {
	result = a + b
	overflow = (a^b)&0x80000000 == 0 && (result^a)&0x80000000 != 0
	return
}

// CheckedSub subtracts two signed 32 bit values and reports signed overflow.
func CheckedSub(a, b uint32) (result uint32, overflow bool) {
	result = a - b
	overflow = (a^b)&0x80000000 != 0 && (result^a)&0x80000000 != 0
	return
}
