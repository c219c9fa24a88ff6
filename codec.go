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
	"fmt"
	"io"
	"net"
)

// This file is component B: the wire codec. Composite domain types
// (headers, template records, field specifiers, sets) each declare their
// own Encode/Decode walking their fields in a fixed, compile-time-literal
// order, without runtime reflection. This file holds the shared
// leaf-level helpers those Encode/Decode methods call: scalar value
// encode/decode against a Kind, set-level padding, and a Cisco-NetFlow
// string adjustment helper.

// EncodeValue writes v in its wire representation and returns the number of
// bytes written.
func EncodeValue(w io.Writer, v DataValue) (int, error) {
	var b []byte
	switch v.Kind {
	case KindUint8:
		b = putUint8(b, v.Uint8())
	case KindUint16:
		b = putUint16(b, v.Uint16())
	case KindUint32:
		b = putUint32(b, v.Uint32())
	case KindUint64:
		b = putUint64(b, v.Uint64())
	case KindInt8:
		b = putInt8(b, v.Int8())
	case KindInt16:
		b = putInt16(b, v.Int16())
	case KindInt32:
		b = putInt32(b, v.Int32())
	case KindInt64:
		b = putInt64(b, v.Int64())
	case KindFloat32:
		b = putFloat32(b, v.Float32())
	case KindFloat64:
		b = putFloat64(b, v.Float64())
	case KindIPv4:
		ip4 := v.IP().To4()
		if ip4 == nil {
			return 0, ArgumentMismatch("IPv4 address", v.IP().String())
		}
		b = ip4
	case KindIPv6:
		b = v.IP().To16()
	case KindBytes:
		b = v.Bytes()
	case KindString:
		b = []byte(v.Str())
	default:
		return 0, fmt.Errorf("netflow: cannot encode value of kind %s", v.Kind)
	}
	return w.Write(b)
}

// DecodeValue reads exactly length bytes from r and interprets them as kind.
// For kind == KindIPv4/KindIPv6, the raw bytes always become an address
// value regardless of the candidate width matching.
func DecodeValue(r io.Reader, kind Kind, length uint16) (DataValue, int, error) {
	b := make([]byte, length)
	n, err := io.ReadFull(r, b)
	if err != nil {
		return DataValue{}, n, err
	}
	switch kind {
	case KindUint8:
		return Uint8Value(uint8From(b)), n, nil
	case KindUint16:
		return Uint16Value(uint16From(b)), n, nil
	case KindUint32:
		return Uint32Value(uint32From(b)), n, nil
	case KindUint64:
		return Uint64Value(uint64From(b)), n, nil
	case KindInt8:
		return Int8Value(int8From(b)), n, nil
	case KindInt16:
		return Int16Value(int16From(b)), n, nil
	case KindInt32:
		return Int32Value(int32From(b)), n, nil
	case KindInt64:
		return Int64Value(int64From(b)), n, nil
	case KindFloat32:
		return Float32Value(float32From(b)), n, nil
	case KindFloat64:
		return Float64Value(float64From(b)), n, nil
	case KindIPv4:
		return DataValue{Kind: KindIPv4, ip: net.IP(b)}, n, nil
	case KindIPv6:
		return DataValue{Kind: KindIPv6, ip: net.IP(b)}, n, nil
	case KindString:
		return StringValue(string(b)), n, nil
	default:
		return BytesValue(b), n, nil
	}
}

// setAlignment is the byte alignment (§4.B) sets are padded to; 4 bytes
// (32 bits) in both NetFlow v9 and IPFIX.
const setAlignment = 4

// padLen returns the number of zero bytes that must follow n bytes already
// written to bring the total to a multiple of setAlignment.
func padLen(n int) int {
	rem := n % setAlignment
	if rem == 0 {
		return 0
	}
	return setAlignment - rem
}

// writePadding writes padLen(n) zero bytes to w.
func writePadding(w io.Writer, n int) (int, error) {
	p := padLen(n)
	if p == 0 {
		return 0, nil
	}
	return w.Write(make([]byte, p))
}

// adjustToNetflow produces exactly n bytes from s by truncating its UTF-8
// encoding or zero-padding it on the right. Negative n is a programmer
// error.
func adjustToNetflow(s string, n int) ([]byte, error) {
	if n < 0 {
		return nil, ArgumentRange("adjustToNetflow length", n)
	}
	raw := []byte(s)
	out := make([]byte, n)
	copy(out, raw) // copy truncates if len(raw) > n, zero-pads if shorter
	return out, nil
}
