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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRoundTrip(t *testing.T) {
	tmpl := &Template{
		TemplateID: 256,
		Fields: []FieldSpecifier{
			{ElementID: 8, FieldLength: 4},
			{ElementID: 12, FieldLength: 4},
			{ElementID: 1, FieldLength: 8, EnterpriseNum: 0},
		},
	}
	var buf bytes.Buffer
	_, err := tmpl.Encode(&buf)
	require.NoError(t, err)

	got, _, err := DecodeTemplate(&buf)
	require.NoError(t, err)
	assert.Equal(t, tmpl.TemplateID, got.TemplateID)
	assert.Equal(t, tmpl.Fields, got.Fields)
	assert.Equal(t, 16, got.RecordLength())
}

func TestOptionsTemplateRoundTrip(t *testing.T) {
	opt := &OptionsTemplate{
		TemplateID:      258,
		ScopeFieldCount: 1,
		Fields: []FieldSpecifier{
			{ElementID: 10, FieldLength: 4},
			{ElementID: 41, FieldLength: 8},
		},
	}
	var buf bytes.Buffer
	_, err := opt.Encode(&buf)
	require.NoError(t, err)

	got, _, err := DecodeOptionsTemplate(&buf)
	require.NoError(t, err)
	assert.Equal(t, opt.TemplateID, got.TemplateID)
	assert.Equal(t, opt.ScopeFieldCount, got.ScopeFieldCount)
	assert.Equal(t, opt.Fields, got.Fields)
}

func TestV9TemplateRoundTrip(t *testing.T) {
	tmpl := &V9Template{
		TemplateID: 256,
		Fields: []V9Field{
			{FieldType: 8, FieldLength: 4},
			{FieldType: 12, FieldLength: 4},
		},
	}
	var buf bytes.Buffer
	_, err := tmpl.Encode(&buf)
	require.NoError(t, err)

	got, _, err := DecodeV9Template(&buf)
	require.NoError(t, err)
	assert.Equal(t, tmpl.Fields, got.Fields)
	assert.Equal(t, 8, got.RecordLength())
}

func TestV9OptionsTemplateRoundTrip(t *testing.T) {
	opt := &V9OptionsTemplate{
		TemplateID:  258,
		ScopeFields: []V9Scope{{ScopeType: V9ScopeSystem, ScopeLength: 4}},
		Fields:      []V9Field{{FieldType: 41, FieldLength: 4}},
	}
	var buf bytes.Buffer
	_, err := opt.Encode(&buf)
	require.NoError(t, err)

	got, _, err := DecodeV9OptionsTemplate(&buf)
	require.NoError(t, err)
	assert.Equal(t, opt.ScopeFields, got.ScopeFields)
	assert.Equal(t, opt.Fields, got.Fields)
}

func TestFieldSpecifierEnterpriseRoundTrip(t *testing.T) {
	f := FieldSpecifier{ElementID: 100, FieldLength: 4, EnterpriseNum: 12345}
	var buf bytes.Buffer
	n, err := f.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.True(t, f.Enterprise())
	assert.Equal(t, 8, f.WireLength())

	var got FieldSpecifier
	_, err = got.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestFieldSpecifierNonEnterpriseIsFourBytes(t *testing.T) {
	f := FieldSpecifier{ElementID: 8, FieldLength: 4}
	var buf bytes.Buffer
	n, err := f.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.False(t, f.Enterprise())
	assert.Equal(t, 4, f.WireLength())
}
