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
	"io"
)

// enterpriseBit marks an IPFIX field specifier's Information Element id as
// enterprise-specific, per RFC 7011 §3.2: when set, a 4-byte Enterprise
// Number follows the 2-byte length.
const enterpriseBit uint16 = 0x8000

// FieldSpecifier is one field descriptor within an IPFIX template record:
// an Information Element id (optionally enterprise-scoped), and the fixed
// byte length data of this element will occupy in every data record
// conforming to the template.
type FieldSpecifier struct {
	ElementID     uint16 `json:"elementId"`
	FieldLength   uint16 `json:"fieldLength"`
	EnterpriseNum uint32 `json:"enterpriseNumber,omitempty"`
}

// Enterprise reports whether the field specifier carries an Enterprise
// Number, i.e. ElementID's top bit would be set on the wire.
func (f FieldSpecifier) Enterprise() bool {
	return f.EnterpriseNum != 0
}

func (f *FieldSpecifier) Encode(w io.Writer) (int, error) {
	id := f.ElementID
	if f.Enterprise() {
		id |= enterpriseBit
	}
	b := make([]byte, 0, 8)
	b = binary.BigEndian.AppendUint16(b, id)
	b = binary.BigEndian.AppendUint16(b, f.FieldLength)
	if f.Enterprise() {
		b = binary.BigEndian.AppendUint32(b, f.EnterpriseNum)
	}
	return w.Write(b)
}

func (f *FieldSpecifier) Decode(r io.Reader) (int, error) {
	buf := make([]byte, 4)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, err
	}
	id := binary.BigEndian.Uint16(buf[0:2])
	f.FieldLength = binary.BigEndian.Uint16(buf[2:4])
	if id&enterpriseBit != 0 {
		f.ElementID = id &^ enterpriseBit
		pen := make([]byte, 4)
		m, err := io.ReadFull(r, pen)
		n += m
		if err != nil {
			return n, err
		}
		f.EnterpriseNum = binary.BigEndian.Uint32(pen)
	} else {
		f.ElementID = id
	}
	return n, nil
}

// WireLength returns the number of bytes this field specifier occupies
// within its template record: 4, or 8 if enterprise-scoped.
func (f FieldSpecifier) WireLength() int {
	if f.Enterprise() {
		return 8
	}
	return 4
}

// V9Field is one field descriptor within a NetFlow v9 template record.
// Unlike IPFIX, v9 has no enterprise-number extension mechanism.
type V9Field struct {
	FieldType   uint16 `json:"fieldType"`
	FieldLength uint16 `json:"fieldLength"`
}

func (f *V9Field) Encode(w io.Writer) (int, error) {
	b := make([]byte, 0, 4)
	b = binary.BigEndian.AppendUint16(b, f.FieldType)
	b = binary.BigEndian.AppendUint16(b, f.FieldLength)
	return w.Write(b)
}

func (f *V9Field) Decode(r io.Reader) (int, error) {
	buf := make([]byte, 4)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, err
	}
	f.FieldType = binary.BigEndian.Uint16(buf[0:2])
	f.FieldLength = binary.BigEndian.Uint16(buf[2:4])
	return n, nil
}

// V9Scope is one scope field descriptor within a NetFlow v9 options
// template record, preceding its ordinary fields. v9 enumerates scope
// types directly (1 = System, 2 = Interface, 3 = Line Card, 4 = Cache,
// 5 = Template) rather than reusing the element registry.
type V9Scope struct {
	ScopeType   uint16 `json:"scopeType"`
	ScopeLength uint16 `json:"scopeLength"`
}

const (
	V9ScopeSystem    uint16 = 1
	V9ScopeInterface uint16 = 2
	V9ScopeLineCard  uint16 = 3
	V9ScopeCache     uint16 = 4
	V9ScopeTemplate  uint16 = 5
)

func (f *V9Scope) Encode(w io.Writer) (int, error) {
	b := make([]byte, 0, 4)
	b = binary.BigEndian.AppendUint16(b, f.ScopeType)
	b = binary.BigEndian.AppendUint16(b, f.ScopeLength)
	return w.Write(b)
}

func (f *V9Scope) Decode(r io.Reader) (int, error) {
	buf := make([]byte, 4)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, err
	}
	f.ScopeType = binary.BigEndian.Uint16(buf[0:2])
	f.ScopeLength = binary.BigEndian.Uint16(buf[2:4])
	return n, nil
}
