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

// FullVolume is the nominal full-scale channel gain. A channel with both
// gains at FullVolume outputs samples unchanged.
const FullVolume = 1 << 15

// MaxVolume is the largest gain a channel can be given. Gains above
// FullVolume boost the signal.
const MaxVolume = 0xfffff

// ClampS16 clamps a wide sample value to the signed 16bit range.
func ClampS16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// ApplySampleVolume scales a single sample. The vol argument is the channel
// gain shifted left by one bit, so that full volume is 1<<16 and the result
// can be taken from the upper half of the product.
func ApplySampleVolume(sample int16, vol int) int16 {
	return ClampS16(int32((int(sample) * vol) >> 16))
}

// ApplySampleVolume20Bit scales a single sample by a gain that may not fit
// into 16bits. The bottom four bits of the gain are discarded.
func ApplySampleVolume20Bit(sample int16, vol int) int16 {
	return ClampS16(int32((int(sample) * (vol >> 4)) >> 12))
}

// Fits16 returns true if the shifted volume can be used with
// ApplySampleVolume() without loss of precision. Otherwise
// ApplySampleVolume20Bit() must be used.
func Fits16(vol int) bool {
	return vol <= 0x7fff && -vol <= 0x8000
}

// ApplyVolume scales a single sample with whichever of ApplySampleVolume()
// or ApplySampleVolume20Bit() suits the shifted volume.
func ApplyVolume(sample int16, vol int) int16 {
	if Fits16(vol) {
		return ApplySampleVolume(sample, vol)
	}
	return ApplySampleVolume20Bit(sample, vol)
}

// AdjustVolumeBlockStandard is the reference implementation of
// AdjustVolumeBlock. The in and out slices are interleaved stereo samples and
// the left and right volumes are shifted gains, as described for
// ApplySampleVolume().
//
// Only min(len(in), len(out)) samples are processed.
func AdjustVolumeBlockStandard(out []int16, in []int16, leftVol int, rightVol int) {
	n := min(len(in), len(out)) &^ 1

	if Fits16(leftVol) && Fits16(rightVol) {
		for i := 0; i < n; i += 2 {
			out[i] = ApplySampleVolume(in[i], leftVol)
			out[i+1] = ApplySampleVolume(in[i+1], rightVol)
		}
		return
	}

	for i := 0; i < n; i += 2 {
		out[i] = ApplySampleVolume20Bit(in[i], leftVol)
		out[i+1] = ApplySampleVolume20Bit(in[i+1], rightVol)
	}
}

// ConvertS16ToF32 converts signed 16bit samples to floating point samples in
// the range -1.0 to 1.0. The most negative sample value converts to slightly
// less than -1.0.
func ConvertS16ToF32(out []float32, in []int16) {
	n := min(len(in), len(out))
	for i := 0; i < n; i++ {
		out[i] = float32(in[i]) * (1.0 / 32767.0)
	}
}

// ClampBlock clamps a block of wide samples into a block of 16bit samples.
func ClampBlock(out []int16, in []int32) {
	n := min(len(in), len(out))
	for i := 0; i < n; i++ {
		out[i] = ClampS16(in[i])
	}
}

// ScaleBlock clamps a block of wide samples into a block of 16bit samples
// after applying a volume. A volume of FullVolume leaves the samples
// unchanged.
func ScaleBlock(out []int16, in []int32, volume int) {
	if volume == FullVolume {
		ClampBlock(out, in)
		return
	}
	n := min(len(in), len(out))
	for i := 0; i < n; i++ {
		out[i] = ClampS16(int32((int64(in[i]) * int64(volume)) >> 15))
	}
}
