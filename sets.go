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
)

// Kind* names a decoded Set's payload shape, mirroring the SetHeader.ID
// ranges: 0 is always a template set, 1 is always an options template set,
// 256+ is a data set keyed by its own id as the owning template's id.
const (
	KindTemplateSet        = "TemplateSet"
	KindOptionsTemplateSet = "OptionsTemplateSet"
	KindDataSet            = "DataSet"
)

// Record is a single decoded data record: one DataValue per field, in the
// field order of the template the record conforms to.
type Record []DataValue

func (r Record) String() string {
	return fmt.Sprintf("%v", []DataValue(r))
}

// DataSet holds every data record read from (or to be written to) a single
// data set, all conforming to the same template.
type DataSet struct {
	TemplateID uint16
	Records    []Record
}

// EncodeIPFIXRecord writes a single record's values in field order,
// without set-level framing or padding.
func EncodeIPFIXRecord(w io.Writer, rec Record) (int, error) {
	n := 0
	for _, v := range rec {
		m, err := EncodeValue(w, v)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// DecodeIPFIXRecord reads one data record conforming to tmpl: one value
// per field specifier, each decoded as the Kind its registered element
// family resolves to for that field's declared length, falling back to a
// raw byte string when the element is unknown or no candidate Kind
// matches the declared length.
func DecodeIPFIXRecord(r io.Reader, tmpl *Template) (Record, int, error) {
	rec := make(Record, len(tmpl.Fields))
	n := 0
	for i, f := range tmpl.Fields {
		kind, length := resolveIPFIXFieldKind(f)
		v, m, err := DecodeValue(r, kind, length)
		n += m
		if err != nil {
			return rec, n, err
		}
		rec[i] = v
	}
	return rec, n, nil
}

func resolveIPFIXFieldKind(f FieldSpecifier) (Kind, uint16) {
	if f.Enterprise() {
		return KindBytes, f.FieldLength
	}
	el, ok := LookupIPFIXElement(f.ElementID)
	if !ok {
		return KindBytes, f.FieldLength
	}
	kind, ok := CandidateKind(el.Family, f.FieldLength)
	if !ok {
		return KindBytes, f.FieldLength
	}
	return kind, f.FieldLength
}

// DecodeV9Record reads one data record conforming to tmpl, using the
// Cisco field type registry in place of the IPFIX element registry.
func DecodeV9Record(r io.Reader, tmpl *V9Template) (Record, int, error) {
	rec := make(Record, len(tmpl.Fields))
	n := 0
	for i, f := range tmpl.Fields {
		kind, length := resolveV9FieldKind(f)
		v, m, err := DecodeValue(r, kind, length)
		n += m
		if err != nil {
			return rec, n, err
		}
		rec[i] = v
	}
	return rec, n, nil
}

func resolveV9FieldKind(f V9Field) (Kind, uint16) {
	el, ok := LookupV9Element(f.FieldType)
	if !ok {
		return KindBytes, f.FieldLength
	}
	kind, ok := CandidateKind(el.Family, f.FieldLength)
	if !ok {
		return KindBytes, f.FieldLength
	}
	return kind, f.FieldLength
}
