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

package format

import (
	"golang.org/x/sys/cpu"
)

// Detector implementations report whether the vector variant of the volume
// functions should be used.
type Detector interface {
	VectorSupported() bool
}

type hostCPU struct{}

// VectorSupported implements the Detector interface. The vector variant is
// written with four stereo frames per iteration, which maps onto one 128bit
// register on both amd64 and arm64.
func (hostCPU) VectorSupported() bool {
	return cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD
}

// HostCPU is the Detector for the machine the program is running on.
var HostCPU Detector = hostCPU{}

// AdjustVolumeBlock scales a block of interleaved stereo samples. It is one
// of AdjustVolumeBlockStandard() or AdjustVolumeBlockVector() depending on
// the most recent call to Setup(). The two variants produce identical
// output.
var AdjustVolumeBlock func(out []int16, in []int16, leftVol int, rightVol int) = AdjustVolumeBlockStandard

// Variant is the name of the currently selected AdjustVolumeBlock variant.
var Variant = "standard"

func init() {
	Setup(HostCPU)
}

// Setup selects the AdjustVolumeBlock variant using the Detector. Returns the
// name of the variant selected.
func Setup(d Detector) string {
	if d != nil && d.VectorSupported() {
		AdjustVolumeBlock = AdjustVolumeBlockVector
		Variant = "vector"
	} else {
		AdjustVolumeBlock = AdjustVolumeBlockStandard
		Variant = "standard"
	}
	return Variant
}

// AdjustVolumeBlockVector processes four stereo frames at a time. Any frames
// left over, and any volumes that do not fit into 16bits, are handled by the
// standard implementation.
func AdjustVolumeBlockVector(out []int16, in []int16, leftVol int, rightVol int) {
	if !Fits16(leftVol) || !Fits16(rightVol) {
		AdjustVolumeBlockStandard(out, in, leftVol, rightVol)
		return
	}

	n := min(len(in), len(out)) &^ 1
	l := int32(leftVol)
	r := int32(rightVol)

	i := 0
	for ; i+8 <= n; i += 8 {
		// bounds check elimination hint
		o := out[i : i+8 : i+8]
		s := in[i : i+8 : i+8]

		// with both volumes in the 16bit range the product always fits in
		// 32bits and after the shift always fits in 16bits. no clamping is
		// required
		o[0] = int16((int32(s[0]) * l) >> 16)
		o[1] = int16((int32(s[1]) * r) >> 16)
		o[2] = int16((int32(s[2]) * l) >> 16)
		o[3] = int16((int32(s[3]) * r) >> 16)
		o[4] = int16((int32(s[4]) * l) >> 16)
		o[5] = int16((int32(s[5]) * r) >> 16)
		o[6] = int16((int32(s[6]) * l) >> 16)
		o[7] = int16((int32(s[7]) * r) >> 16)
	}

	if i < n {
		AdjustVolumeBlockStandard(out[i:n], in[i:n], leftVol, rightVol)
	}
}
