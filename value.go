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
	"encoding/json"
	"fmt"
	"net"
)

// Kind discriminates the scalar/IP-address/byte-slice alternatives a
// DataValue may hold: a tagged sum type over scalar widths, IP addresses,
// and byte slices, rather than a dozen distinct types behind one interface.
type Kind uint8

const (
	KindUint8 Kind = iota
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindIPv4
	KindIPv6
	KindBytes
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindIPv4:
		return "ipv4Address"
	case KindIPv6:
		return "ipv6Address"
	case KindBytes:
		return "octetArray"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// DataValue is a single decoded (or to-be-encoded) field value. Exactly one
// of the internal representations is meaningful, selected by Kind.
type DataValue struct {
	Kind  Kind
	u64   uint64
	ip    net.IP
	bytes []byte
	str   string
}

func Uint8Value(v uint8) DataValue   { return DataValue{Kind: KindUint8, u64: uint64(v)} }
func Uint16Value(v uint16) DataValue { return DataValue{Kind: KindUint16, u64: uint64(v)} }
func Uint32Value(v uint32) DataValue { return DataValue{Kind: KindUint32, u64: uint64(v)} }
func Uint64Value(v uint64) DataValue { return DataValue{Kind: KindUint64, u64: v} }
func Int8Value(v int8) DataValue     { return DataValue{Kind: KindInt8, u64: uint64(uint8(v))} }
func Int16Value(v int16) DataValue   { return DataValue{Kind: KindInt16, u64: uint64(uint16(v))} }
func Int32Value(v int32) DataValue   { return DataValue{Kind: KindInt32, u64: uint64(uint32(v))} }
func Int64Value(v int64) DataValue   { return DataValue{Kind: KindInt64, u64: uint64(v)} }

func Float32Value(v float32) DataValue {
	return DataValue{Kind: KindFloat32, u64: uint64(mathFloat32bits(v))}
}

func Float64Value(v float64) DataValue {
	return DataValue{Kind: KindFloat64, u64: mathFloat64bits(v)}
}

// IPv4Value stores v's 4-byte form. Panics (programmer error, per
// ArgumentMismatch) if v isn't a valid IPv4 address.
func IPv4Value(v net.IP) DataValue {
	v4 := v.To4()
	if v4 == nil {
		panic(ArgumentMismatch("IPv4 address", v.String()))
	}
	return DataValue{Kind: KindIPv4, ip: v4}
}

func IPv6Value(v net.IP) DataValue {
	v6 := v.To16()
	if v6 == nil {
		panic(ArgumentMismatch("IPv6 address", v.String()))
	}
	return DataValue{Kind: KindIPv6, ip: v6}
}

func BytesValue(v []byte) DataValue { return DataValue{Kind: KindBytes, bytes: v} }
func StringValue(v string) DataValue { return DataValue{Kind: KindString, str: v} }

func (v DataValue) Uint8() uint8   { v.mustBe(KindUint8); return uint8(v.u64) }
func (v DataValue) Uint16() uint16 { v.mustBe(KindUint16); return uint16(v.u64) }
func (v DataValue) Uint32() uint32 { v.mustBe(KindUint32); return uint32(v.u64) }
func (v DataValue) Uint64() uint64 { v.mustBe(KindUint64); return v.u64 }
func (v DataValue) Int8() int8     { v.mustBe(KindInt8); return int8(uint8(v.u64)) }
func (v DataValue) Int16() int16   { v.mustBe(KindInt16); return int16(uint16(v.u64)) }
func (v DataValue) Int32() int32   { v.mustBe(KindInt32); return int32(uint32(v.u64)) }
func (v DataValue) Int64() int64   { v.mustBe(KindInt64); return int64(v.u64) }

func (v DataValue) Float32() float32 {
	v.mustBe(KindFloat32)
	return mathFloat32frombits(uint32(v.u64))
}

func (v DataValue) Float64() float64 {
	v.mustBe(KindFloat64)
	return mathFloat64frombits(v.u64)
}

func (v DataValue) IP() net.IP {
	if v.Kind != KindIPv4 && v.Kind != KindIPv6 {
		panic(fmt.Sprintf("DataValue: %s is not an IP address kind", v.Kind))
	}
	return v.ip
}

func (v DataValue) Bytes() []byte {
	v.mustBe(KindBytes)
	return v.bytes
}

func (v DataValue) Str() string {
	v.mustBe(KindString)
	return v.str
}

func (v DataValue) mustBe(k Kind) {
	if v.Kind != k {
		panic(fmt.Sprintf("DataValue: expected %s, got %s", k, v.Kind))
	}
}

// Len returns the number of bytes v occupies on the wire for its Kind,
// ignoring any field-declared override (a reduced-length field's width
// comes from its FieldSpecifier, not from this method).
func (v DataValue) Len() uint16 {
	switch v.Kind {
	case KindUint8, KindInt8:
		return 1
	case KindUint16, KindInt16:
		return 2
	case KindUint32, KindInt32, KindFloat32, KindIPv4:
		return 4
	case KindUint64, KindInt64, KindFloat64:
		return 8
	case KindIPv6:
		return 16
	case KindBytes:
		return uint16(len(v.bytes))
	case KindString:
		return uint16(len(v.str))
	default:
		return 0
	}
}

func (v DataValue) String() string {
	switch v.Kind {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return fmt.Sprintf("%d", v.u64)
	case KindInt8:
		return fmt.Sprintf("%d", v.Int8())
	case KindInt16:
		return fmt.Sprintf("%d", v.Int16())
	case KindInt32:
		return fmt.Sprintf("%d", v.Int32())
	case KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case KindFloat32:
		return fmt.Sprintf("%v", v.Float32())
	case KindFloat64:
		return fmt.Sprintf("%v", v.Float64())
	case KindIPv4, KindIPv6:
		return v.ip.String()
	case KindBytes:
		return fmt.Sprintf("% x", v.bytes)
	case KindString:
		return v.str
	default:
		return "<invalid>"
	}
}

// MarshalJSON renders the DataValue's underlying Go value directly: a
// number, a string, or an IP's textual form.
func (v DataValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return json.Marshal(v.u64)
	case KindInt8:
		return json.Marshal(v.Int8())
	case KindInt16:
		return json.Marshal(v.Int16())
	case KindInt32:
		return json.Marshal(v.Int32())
	case KindInt64:
		return json.Marshal(v.Int64())
	case KindFloat32:
		return json.Marshal(v.Float32())
	case KindFloat64:
		return json.Marshal(v.Float64())
	case KindIPv4, KindIPv6:
		return json.Marshal(v.ip.String())
	case KindBytes:
		return json.Marshal(v.bytes)
	case KindString:
		return json.Marshal(v.str)
	default:
		return json.Marshal(nil)
	}
}

func mathFloat32bits(v float32) uint32 {
	b := putFloat32(nil, v)
	return uint32From(b)
}

func mathFloat32frombits(b uint32) float32 {
	buf := putUint32(nil, b)
	return float32From(buf)
}

func mathFloat64bits(v float64) uint64 {
	b := putFloat64(nil, v)
	return uint64From(b)
}

func mathFloat64frombits(b uint64) float64 {
	buf := putUint64(nil, b)
	return float64From(buf)
}
