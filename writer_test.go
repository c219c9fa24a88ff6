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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterIPFIXFlushSetsLength(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 10)
	w.BeginPacket(1000, 1, 7)
	require.NoError(t, w.WriteTemplateSet(&Template{
		TemplateID: 256,
		Fields:     []FieldSpecifier{{ElementID: 8, FieldLength: 4}},
	}))
	n, err := w.Flush()
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	gotLength := binary.BigEndian.Uint16(buf.Bytes()[2:4])
	assert.Equal(t, uint16(buf.Len()), gotLength, "IPFIX Length must cover the whole packet, header included")
}

func TestWriterV9FlushSetsCountNotLength(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 9)
	w.BeginPacket(1000, 1, 7)
	w.WithV9Uptime(42)
	require.NoError(t, w.WriteV9TemplateSet(&V9Template{
		TemplateID: 256,
		Fields:     []V9Field{{FieldType: 8, FieldLength: 4}},
	}))
	require.NoError(t, w.WriteV9TemplateSet(&V9Template{
		TemplateID: 257,
		Fields:     []V9Field{{FieldType: 12, FieldLength: 4}},
	}))
	_, err := w.Flush()
	require.NoError(t, err)

	// Byte 2:4 of a v9 header is Count, not a total length: two sets were
	// written, so Count must read 2, never the packet's byte length.
	gotCount := binary.BigEndian.Uint16(buf.Bytes()[2:4])
	assert.Equal(t, uint16(2), gotCount)
	assert.Equal(t, uint32(42), binary.BigEndian.Uint32(buf.Bytes()[4:8]), "SysUptimeMillis")
}

func TestWriterV9RejectsIPFIXOnlyCalls(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 9)
	w.BeginPacket(0, 0, 0)
	assert.Panics(t, func() {
		_ = w.WriteTemplateSet(&Template{TemplateID: 256})
	})
}

func TestWriterBeginPacketOutOfSequencePanics(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 10)
	w.BeginPacket(0, 0, 0)
	assert.Panics(t, func() {
		w.BeginPacket(0, 0, 0)
	})
}

func TestWriterUseAfterClosePanics(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 10)
	require.NoError(t, w.Close())
	assert.Panics(t, func() {
		w.BeginPacket(0, 0, 0)
	})
}
