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

package audio

import (
	"github.com/jetsetilly/hleaudio/curated"
)

// Sentinal errors.
const (
	ChannelBusy        = "audio: channel %d is busy"
	ChannelNotReserved = "audio: channel %d is not reserved"
	ChannelReserved    = "audio: channel %d is already reserved"
	NoChannels         = "audio: no channels available"
	InvalidSize        = "audio: invalid sample count (%d)"
	InvalidAddress     = "audio: invalid sample address (%#08x)"
	InvalidFormat      = "audio: invalid format (%#02x)"
	InvalidChannel     = "audio: invalid channel (%d)"
	IllegalRange       = "audio: %s out of range (%d)"
	StateError         = "audio: state: %v"
)

// Result codes given to the emulated program.
const (
	ResultOK                 uint32 = 0x00000000
	ResultChannelBusy        uint32 = 0x80260002
	ResultInvalidChannel     uint32 = 0x80260003
	ResultNoChannels         uint32 = 0x80260005
	ResultInvalidSize        uint32 = 0x80260006
	ResultInvalidFormat      uint32 = 0x80260007
	ResultChannelNotReserved uint32 = 0x80260008
	ResultChannelReserved    uint32 = 0x80268002
	ResultInvalidAddress     uint32 = 0x800200d3
	ResultIllegalRange       uint32 = 0x80000104
	ResultUnknown            uint32 = 0x80000001
)

// ResultCode converts an error returned by an Engine function to the result
// code given to the emulated program. A nil error is ResultOK.
func ResultCode(err error) uint32 {
	switch {
	case err == nil:
		return ResultOK
	case curated.Is(err, ChannelBusy):
		return ResultChannelBusy
	case curated.Is(err, ChannelNotReserved):
		return ResultChannelNotReserved
	case curated.Is(err, ChannelReserved):
		return ResultChannelReserved
	case curated.Is(err, NoChannels):
		return ResultNoChannels
	case curated.Is(err, InvalidSize):
		return ResultInvalidSize
	case curated.Is(err, InvalidAddress):
		return ResultInvalidAddress
	case curated.Is(err, InvalidFormat):
		return ResultInvalidFormat
	case curated.Is(err, InvalidChannel):
		return ResultInvalidChannel
	case curated.Is(err, IllegalRange):
		return ResultIllegalRange
	}
	return ResultUnknown
}

// IsError returns true if the result code is an error.
func IsError(code uint32) bool {
	return code&0x80000000 == 0x80000000
}
