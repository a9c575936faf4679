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

// Package test bundles helper functions that remove common boilerplate from
// the tests in the rest of the module. They are intended to be used in
// conjunction with the standard go test harness.
//
// The Expect functions report a test error and allow the test to continue.
// The Demand functions are test fatalities and should be used when the result
// is required for the rest of the test to make sense. For example, testing
// that the lengths of two slices are equal before iterating over them in
// unison.
//
// ExpectSuccess() and ExpectFailure() understand the bool and error types.
// It is worth noting how nil is handled because it is not obvious: nil is
// considered a success. This may not be how we want to interpret nil in all
// situations but because of how errors usually work (nil to indicate no
// error) we *need* to interpret nil in this way.
//
// ExpectApproximate() is useful for fixed-point audio arithmetic, where a
// result can legitimately be off by one or two least significant bits.
//
// The CompareWriter type implements the io.Writer interface and should be used
// to capture output, from the logger package for example.
package test
