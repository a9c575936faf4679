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

// Package memory is the emulated main memory. It is a single flat area of RAM
// starting at Origin. Addresses outside of the area are invalid. Reading
// from an invalid address returns zero and writing to an invalid address
// does nothing. Callers that need to know should check with
// IsValidAddress() or IsValidRange() first.
//
// Multi-byte values are stored little-endian.
//
// A simple allocator is provided for the convenience of code that needs to
// place data in emulated memory. Allocations are never freed.
package memory
