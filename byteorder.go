/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package netflow

import (
	"encoding/binary"
	"math"
)

// This file is component A: scalar <-> big-endian byte conversion. Each
// Kind's wire width is fixed (reduced-length encoding is resolved earlier,
// by CandidateKind), so conversion collapses into one pair of to/from
// functions per width instead of a distinct type per IPFIX data type.

func putUint8(b []byte, v uint8) []byte {
	return append(b, v)
}

func uint8From(b []byte) uint8 {
	return b[0]
}

func putUint16(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}

func uint16From(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

func putUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

func uint32From(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func putUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

func uint64From(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// Signed integers are two's complement on the wire; reinterpreting the bit
// pattern as unsigned and writing/reading big-endian is sufficient.

func putInt8(b []byte, v int8) []byte {
	return putUint8(b, uint8(v))
}

func int8From(b []byte) int8 {
	return int8(uint8From(b))
}

func putInt16(b []byte, v int16) []byte {
	return putUint16(b, uint16(v))
}

func int16From(b []byte) int16 {
	return int16(uint16From(b))
}

func putInt32(b []byte, v int32) []byte {
	return putUint32(b, uint32(v))
}

func int32From(b []byte) int32 {
	return int32(uint32From(b))
}

func putInt64(b []byte, v int64) []byte {
	return putUint64(b, uint64(v))
}

func int64From(b []byte) int64 {
	return int64(uint64From(b))
}

// IEEE-754 floats are reinterpreted as their integer bit pattern,
// byte-swapped, and emitted; inverse for decode.

func putFloat32(b []byte, v float32) []byte {
	return putUint32(b, math.Float32bits(v))
}

func float32From(b []byte) float32 {
	return math.Float32frombits(uint32From(b))
}

func putFloat64(b []byte, v float64) []byte {
	return putUint64(b, math.Float64bits(v))
}

func float64From(b []byte) float64 {
	return math.Float64frombits(uint64From(b))
}
