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

// Package logger is the logging system for the module. There is a central
// logger, accessed through the package level functions, and any number of
// independent loggers created with NewLogger().
//
// Log entries are made up of a tag and a detail string. The tag is usually
// the name of the subsystem making the entry ("audio", "capture", etc.).
// Adjacent entries with identical tag and detail are collapsed into one entry
// and a repeat count, meaning that noisy conditions like repeated buffer
// underruns do not flood the log.
//
// Every log call takes a Permission argument. The environment of an emulation
// implements the Permission interface and so can prevent log entries being
// made by emulations that are not the main emulation. Use logger.Allow when an
// entry should always be made.
//
// The logger has no concept of severity. Errors are logged by passing the
// error value as the detail argument.
package logger
