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
	"fmt"
	"io"
)

// templateRecord is satisfied by all four template record shapes this
// package decodes (IPFIX template/options-template, NetFlow v9
// template/options-template). Readers dispatch on the owning set's id to
// know which concrete type to decode into; Writer callers construct the
// concrete type directly.
type templateRecord interface {
	ID() uint16
	Encode(w io.Writer) (int, error)
}

// Template is a decoded (or to-be-encoded) IPFIX template record: an
// ordered list of field specifiers a conforming data record's fields must
// be decoded against, in order.
type Template struct {
	TemplateID uint16
	Fields     []FieldSpecifier
}

func (t *Template) ID() uint16 { return t.TemplateID }

// RecordLength returns the total byte length a data record conforming to
// this template occupies, or -1 if any field is variable-length (a
// declared field length of 65535, which DecodeTemplate accepts as is).
func (t *Template) RecordLength() int {
	n := 0
	for _, f := range t.Fields {
		if f.FieldLength == 0xffff {
			return -1
		}
		n += int(f.FieldLength)
	}
	return n
}

func (t *Template) Encode(w io.Writer) (int, error) {
	hdr := make([]byte, 0, 4)
	hdr = binary.BigEndian.AppendUint16(hdr, t.TemplateID)
	hdr = binary.BigEndian.AppendUint16(hdr, uint16(len(t.Fields)))
	n, err := w.Write(hdr)
	if err != nil {
		return n, err
	}
	for i := range t.Fields {
		m, err := t.Fields[i].Encode(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// DecodeTemplate reads a template record's id, field count, and field
// specifiers from r.
func DecodeTemplate(r io.Reader) (*Template, int, error) {
	hdr := make([]byte, 4)
	n, err := io.ReadFull(r, hdr)
	if err != nil {
		return nil, n, err
	}
	t := &Template{
		TemplateID: binary.BigEndian.Uint16(hdr[0:2]),
	}
	fieldCount := binary.BigEndian.Uint16(hdr[2:4])
	t.Fields = make([]FieldSpecifier, fieldCount)
	for i := range t.Fields {
		m, err := t.Fields[i].Decode(r)
		n += m
		if err != nil {
			return t, n, err
		}
	}
	return t, n, nil
}

// OptionsTemplate is a decoded (or to-be-encoded) IPFIX options template
// record. Its first ScopeFieldCount fields are scope fields; scope fields
// decode using the exact same rules (§4.C) as ordinary fields and are
// exposed through the same flat Fields slice — ScopeFieldCount only
// records where the boundary falls.
type OptionsTemplate struct {
	TemplateID      uint16
	ScopeFieldCount uint16
	Fields          []FieldSpecifier
}

func (t *OptionsTemplate) ID() uint16 { return t.TemplateID }

func (t *OptionsTemplate) Encode(w io.Writer) (int, error) {
	hdr := make([]byte, 0, 6)
	hdr = binary.BigEndian.AppendUint16(hdr, t.TemplateID)
	hdr = binary.BigEndian.AppendUint16(hdr, uint16(len(t.Fields)))
	hdr = binary.BigEndian.AppendUint16(hdr, t.ScopeFieldCount)
	n, err := w.Write(hdr)
	if err != nil {
		return n, err
	}
	for i := range t.Fields {
		m, err := t.Fields[i].Encode(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// DecodeOptionsTemplate reads an IPFIX options template record: id, total
// field count, scope field count, then that many field specifiers.
func DecodeOptionsTemplate(r io.Reader) (*OptionsTemplate, int, error) {
	hdr := make([]byte, 6)
	n, err := io.ReadFull(r, hdr)
	if err != nil {
		return nil, n, err
	}
	t := &OptionsTemplate{
		TemplateID:      binary.BigEndian.Uint16(hdr[0:2]),
		ScopeFieldCount: binary.BigEndian.Uint16(hdr[4:6]),
	}
	fieldCount := binary.BigEndian.Uint16(hdr[2:4])
	if t.ScopeFieldCount > fieldCount {
		return t, n, FormatError(fmt.Sprintf("options template %d: scope field count %d exceeds field count %d", t.TemplateID, t.ScopeFieldCount, fieldCount))
	}
	t.Fields = make([]FieldSpecifier, fieldCount)
	for i := range t.Fields {
		m, err := t.Fields[i].Decode(r)
		n += m
		if err != nil {
			return t, n, err
		}
	}
	return t, n, nil
}

// V9Template is a decoded (or to-be-encoded) NetFlow v9 template record.
type V9Template struct {
	TemplateID uint16
	Fields     []V9Field
}

func (t *V9Template) ID() uint16 { return t.TemplateID }

func (t *V9Template) RecordLength() int {
	n := 0
	for _, f := range t.Fields {
		n += int(f.FieldLength)
	}
	return n
}

func (t *V9Template) Encode(w io.Writer) (int, error) {
	hdr := make([]byte, 0, 4)
	hdr = binary.BigEndian.AppendUint16(hdr, t.TemplateID)
	hdr = binary.BigEndian.AppendUint16(hdr, uint16(len(t.Fields)))
	n, err := w.Write(hdr)
	if err != nil {
		return n, err
	}
	for i := range t.Fields {
		m, err := t.Fields[i].Encode(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func DecodeV9Template(r io.Reader) (*V9Template, int, error) {
	hdr := make([]byte, 4)
	n, err := io.ReadFull(r, hdr)
	if err != nil {
		return nil, n, err
	}
	t := &V9Template{
		TemplateID: binary.BigEndian.Uint16(hdr[0:2]),
	}
	fieldCount := binary.BigEndian.Uint16(hdr[2:4])
	t.Fields = make([]V9Field, fieldCount)
	for i := range t.Fields {
		m, err := t.Fields[i].Decode(r)
		n += m
		if err != nil {
			return t, n, err
		}
	}
	return t, n, nil
}

// V9OptionsTemplate is a decoded (or to-be-encoded) NetFlow v9 options
// template record. Unlike IPFIX, v9 delimits its scope and option
// sections by byte length rather than field count, and scope fields use
// the separate V9Scope shape (a fixed small enum of scope types) rather
// than the element registry.
type V9OptionsTemplate struct {
	TemplateID  uint16
	ScopeFields []V9Scope
	Fields      []V9Field
}

func (t *V9OptionsTemplate) ID() uint16 { return t.TemplateID }

func (t *V9OptionsTemplate) Encode(w io.Writer) (int, error) {
	hdr := make([]byte, 0, 6)
	hdr = binary.BigEndian.AppendUint16(hdr, t.TemplateID)
	hdr = binary.BigEndian.AppendUint16(hdr, uint16(len(t.ScopeFields)*4))
	hdr = binary.BigEndian.AppendUint16(hdr, uint16(len(t.Fields)*4))
	n, err := w.Write(hdr)
	if err != nil {
		return n, err
	}
	for i := range t.ScopeFields {
		m, err := t.ScopeFields[i].Encode(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	for i := range t.Fields {
		m, err := t.Fields[i].Encode(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func DecodeV9OptionsTemplate(r io.Reader) (*V9OptionsTemplate, int, error) {
	hdr := make([]byte, 6)
	n, err := io.ReadFull(r, hdr)
	if err != nil {
		return nil, n, err
	}
	t := &V9OptionsTemplate{
		TemplateID: binary.BigEndian.Uint16(hdr[0:2]),
	}
	scopeLength := binary.BigEndian.Uint16(hdr[2:4])
	optionLength := binary.BigEndian.Uint16(hdr[4:6])
	if scopeLength%4 != 0 || optionLength%4 != 0 {
		return t, n, FormatError(fmt.Sprintf("options template %d: scope/option length not a multiple of 4", t.TemplateID))
	}
	t.ScopeFields = make([]V9Scope, scopeLength/4)
	for i := range t.ScopeFields {
		m, err := t.ScopeFields[i].Decode(r)
		n += m
		if err != nil {
			return t, n, err
		}
	}
	t.Fields = make([]V9Field, optionLength/4)
	for i := range t.Fields {
		m, err := t.Fields[i].Decode(r)
		n += m
		if err != nil {
			return t, n, err
		}
	}
	return t, n, nil
}
