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
	"iter"
)

// This file is component G: a view over a decoded DataSet that resolves a
// field by position, by the Information Element id it was decoded against,
// or (via DynamicRecord) by the element's name, instead of making callers
// track field order against a Template by hand. It's a thin view over the
// flat DataSet/Template pair already produced by ReadSet, since the reduced
// DataValue/Record shapes leave nothing else to cache.
type DataSetView struct {
	tmpl *Template
	data *DataSet
}

// NewDataSetView pairs a decoded DataSet with the Template its records
// conform to, so fields can be addressed by element id rather than by
// position. Panics with ArgumentMismatch if the records don't match
// tmpl's field count, since that would indicate ds and tmpl don't
// actually correspond to each other.
func NewDataSetView(tmpl *Template, ds *DataSet) *DataSetView {
	if tmpl == nil {
		panic(ArgumentNull("tmpl"))
	}
	if ds == nil {
		panic(ArgumentNull("ds"))
	}
	for i, rec := range ds.Records {
		if len(rec) != len(tmpl.Fields) {
			panic(ArgumentMismatch("record matching template field count", fmt.Sprintf("record at index %d", i)))
		}
	}
	return &DataSetView{tmpl: tmpl, data: ds}
}

// Count returns the number of records in the view.
func (v *DataSetView) Count() int { return len(v.data.Records) }

// recordAt returns the i'th record verbatim. Panics with ArgumentRange if i
// is out of bounds.
func (v *DataSetView) recordAt(i int) Record {
	if i < 0 || i >= len(v.data.Records) {
		panic(ArgumentRange("i", i))
	}
	return v.data.Records[i]
}

// Record returns the i'th record as a DynamicRecord, whose fields are
// addressable by the Information Element name the view's Template assigned
// them, as well as by position. Panics with ArgumentRange if i is out of
// bounds.
func (v *DataSetView) Record(i int) DynamicRecord {
	return v.dynamicRecord(v.recordAt(i))
}

// Records iterates every record in the view, in order, as a DynamicRecord.
func (v *DataSetView) Records() iter.Seq[DynamicRecord] {
	return func(yield func(DynamicRecord) bool) {
		for _, rec := range v.data.Records {
			if !yield(v.dynamicRecord(rec)) {
				return
			}
		}
	}
}

func (v *DataSetView) dynamicRecord(rec Record) DynamicRecord {
	names := make(map[string]int, len(v.tmpl.Fields))
	for idx, f := range v.tmpl.Fields {
		names[fieldName(f)] = idx
	}
	return DynamicRecord{fields: rec, names: names}
}

// fieldName derives the property name a DynamicRecord exposes a field
// under: the field's Information Element name if registered, an
// enterprise-qualified placeholder if it carries an enterprise number, or
// a numeric placeholder otherwise.
func fieldName(f FieldSpecifier) string {
	if f.Enterprise() {
		return fmt.Sprintf("enterprise%d_%d", f.EnterpriseNum, f.ElementID)
	}
	if el, ok := LookupIPFIXElement(f.ElementID); ok {
		return el.Name
	}
	return fmt.Sprintf("element%d", f.ElementID)
}

// Get returns the value at field position fieldIndex within the i'th
// record. Panics with ArgumentRange if either index is out of bounds.
func (v *DataSetView) Get(i, fieldIndex int) DataValue {
	rec := v.recordAt(i)
	if fieldIndex < 0 || fieldIndex >= len(rec) {
		panic(ArgumentRange("fieldIndex", fieldIndex))
	}
	return rec[fieldIndex]
}

// Set overwrites the value at field position fieldIndex within the i'th
// record. Panics with ArgumentRange if either index is out of bounds, or
// with ArgumentMismatch if val does not serialize to the template field's
// declared byte length.
func (v *DataSetView) Set(i, fieldIndex int, val DataValue) {
	rec := v.recordAt(i)
	if fieldIndex < 0 || fieldIndex >= len(rec) {
		panic(ArgumentRange("fieldIndex", fieldIndex))
	}
	want := v.tmpl.Fields[fieldIndex].FieldLength
	if val.Len() != want {
		panic(ArgumentMismatch(fmt.Sprintf("value of length %d", want), fmt.Sprintf("value of length %d", val.Len())))
	}
	rec[fieldIndex] = val
}

// GetByElement returns the value of the first field in the i'th record
// whose template field specifier names elementID (not enterprise-scoped),
// and reports whether such a field exists.
func (v *DataSetView) GetByElement(i int, elementID uint16) (DataValue, bool) {
	for idx, f := range v.tmpl.Fields {
		if !f.Enterprise() && f.ElementID == elementID {
			return v.Get(i, idx), true
		}
	}
	return DataValue{}, false
}

// GetBySpec returns the value of the first field in the i'th record whose
// template field specifier exactly matches spec (element id and, if
// spec.Enterprise(), enterprise number), and reports whether one exists.
func (v *DataSetView) GetBySpec(i int, spec FieldSpecifier) (DataValue, bool) {
	for idx, f := range v.tmpl.Fields {
		if f.ElementID == spec.ElementID && f.EnterpriseNum == spec.EnterpriseNum {
			return v.Get(i, idx), true
		}
	}
	return DataValue{}, false
}

// DynamicRecord is a single record exposed with its fields addressable by
// the Information Element name the owning template assigned them, instead
// of only by position — the dynamic per-record view this package builds as
// a name-to-position map plus the positional values, rather than reaching
// for runtime reflection or an ad-hoc dynamic-property object.
type DynamicRecord struct {
	fields Record
	names  map[string]int
}

// Len returns the number of fields in the record.
func (r DynamicRecord) Len() int { return len(r.fields) }

// At returns the value at position i. Panics with ArgumentRange if i is
// out of bounds.
func (r DynamicRecord) At(i int) DataValue {
	if i < 0 || i >= len(r.fields) {
		panic(ArgumentRange("i", i))
	}
	return r.fields[i]
}

// Get returns the value of the field named name, and reports whether such
// a field exists in this record.
func (r DynamicRecord) Get(name string) (DataValue, bool) {
	idx, ok := r.names[name]
	if !ok {
		return DataValue{}, false
	}
	return r.fields[idx], true
}

// Positional returns the record's values in template field order.
func (r DynamicRecord) Positional() Record { return r.fields }
