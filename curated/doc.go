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

// Package curated is a helper package for the plain Go language error type.
//
// Curated errors are created with the Errorf() function. The first argument
// is a pattern and it is the pattern that identifies the error. Sentinal
// errors are therefore declared as const strings and tested for with the Is()
// and Has() functions:
//
//	const ChannelBusy = "audio: channel %d is busy"
//
//	err := curated.Errorf(ChannelBusy, 3)
//	if curated.Is(err, ChannelBusy) {
//		...
//	}
//
// Has() is similar to Is() but checks the entire chain of wrapped curated
// errors.
//
// The Error() implementation normalises the error message by removing
// duplicate adjacent parts. Parts are separated by the sub-string ": ". This
// means that the code wrapping an error does not need to worry about whether
// the context is already present in the message:
//
//	e := curated.Errorf("capture: %v", curated.Errorf("capture: file already open"))
//
// prints as
//
//	capture: file already open
//
// Curated errors also implement Unwrap() so that errors.Is() from the
// standard library will see through to any non-curated error that was used as
// a placeholder value (an *os.PathError for example).
package curated
