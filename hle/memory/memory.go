// This file is part of hleaudio.
//
// hleaudio is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// hleaudio is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with hleaudio.  If not, see <https://www.gnu.org/licenses/>.

package memory

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/jetsetilly/hleaudio/curated"
)

// Origin is the first address of main memory.
const Origin = 0x08000000

// DefaultSize is the size of main memory if no size is specified.
const DefaultSize = 0x02000000

// Sentinal errors.
const (
	InvalidRange = "memory: invalid range (%#08x, %d bytes)"
	OutOfMemory  = "memory: out of memory (%d bytes requested)"
)

// Memory is the emulated main memory.
type Memory struct {
	origin uint32
	memtop uint32
	memory []uint8

	// next address returned by Alloc()
	next uint32
}

// NewMemory is the preferred method of initialisation for the Memory type. A
// size of zero or less means DefaultSize.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultSize
	}
	return &Memory{
		origin: Origin,
		memtop: Origin + uint32(size) - 1,
		memory: make([]uint8, size),
		next:   Origin,
	}
}

func (mem *Memory) String() string {
	return fmt.Sprintf("%#08x-%#08x (%d bytes allocated)", mem.origin, mem.memtop, mem.next-mem.origin)
}

// Dump returns a hex dump of a region of memory.
func (mem *Memory) Dump(address uint32, size int) string {
	s := strings.Builder{}
	for i := 0; i < size; i += 16 {
		s.WriteString(fmt.Sprintf("%08x |", address+uint32(i)))
		for x := 0; x < 16 && i+x < size; x++ {
			s.WriteString(fmt.Sprintf(" %02x", mem.Read8(address+uint32(i+x))))
		}
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

// IsValidAddress returns true if the address is in main memory.
func (mem *Memory) IsValidAddress(address uint32) bool {
	return address >= mem.origin && address <= mem.memtop
}

// IsValidRange returns true if every byte of the range is in main memory. A
// range of zero bytes is valid if the address is valid.
func (mem *Memory) IsValidRange(address uint32, size uint32) bool {
	if !mem.IsValidAddress(address) {
		return false
	}
	return uint64(address)+uint64(size) <= uint64(mem.memtop)+1
}

// Slice returns the bytes of the range directly. The returned slice aliases
// main memory. Returns nil if the range is invalid.
func (mem *Memory) Slice(address uint32, size uint32) []uint8 {
	if !mem.IsValidRange(address, size) {
		return nil
	}
	oa := address - mem.origin
	return mem.memory[oa : oa+size : oa+size]
}

// Read8 returns the byte at the address.
func (mem *Memory) Read8(address uint32) uint8 {
	if !mem.IsValidAddress(address) {
		return 0
	}
	return mem.memory[address-mem.origin]
}

// Write8 writes a byte to the address.
func (mem *Memory) Write8(address uint32, data uint8) {
	if !mem.IsValidAddress(address) {
		return
	}
	mem.memory[address-mem.origin] = data
}

// Read16 returns the 16bit value at the address.
func (mem *Memory) Read16(address uint32) uint16 {
	b := mem.Slice(address, 2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// Write16 writes a 16bit value to the address.
func (mem *Memory) Write16(address uint32, data uint16) {
	b := mem.Slice(address, 2)
	if b == nil {
		return
	}
	binary.LittleEndian.PutUint16(b, data)
}

// Read32 returns the 32bit value at the address.
func (mem *Memory) Read32(address uint32) uint32 {
	b := mem.Slice(address, 4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Write32 writes a 32bit value to the address.
func (mem *Memory) Write32(address uint32, data uint32) {
	b := mem.Slice(address, 4)
	if b == nil {
		return
	}
	binary.LittleEndian.PutUint32(b, data)
}

// WriteBytes copies data into memory starting at the address.
func (mem *Memory) WriteBytes(address uint32, data []uint8) error {
	b := mem.Slice(address, uint32(len(data)))
	if b == nil {
		return curated.Errorf(InvalidRange, address, len(data))
	}
	copy(b, data)
	return nil
}

// WriteSamples copies 16bit samples into memory starting at the address.
func (mem *Memory) WriteSamples(address uint32, data []int16) error {
	b := mem.Slice(address, uint32(len(data)*2))
	if b == nil {
		return curated.Errorf(InvalidRange, address, len(data)*2)
	}
	for i, s := range data {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}
	return nil
}

// Alloc reserves size bytes of memory and returns the address of the first
// byte. Allocations are aligned to 16 bytes.
func (mem *Memory) Alloc(size uint32) (uint32, error) {
	address := (mem.next + 15) &^ 15
	if !mem.IsValidRange(address, size) {
		return 0, curated.Errorf(OutOfMemory, size)
	}
	mem.next = address + size
	return address, nil
}

// Reset clears main memory and forgets all allocations.
func (mem *Memory) Reset() {
	clear(mem.memory)
	mem.next = mem.origin
}
