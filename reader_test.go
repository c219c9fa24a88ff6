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
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIPFIXPacket(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf, 10)
	w.BeginPacket(1000, 1, 7)
	require.NoError(t, w.WriteTemplateSet(&Template{
		TemplateID: 256,
		Fields:     []FieldSpecifier{{ElementID: 8, FieldLength: 4}, {ElementID: 12, FieldLength: 4}},
	}))
	require.NoError(t, w.WriteDataSet(256, Record{IPv4Value(net.ParseIP("10.0.0.1")), IPv4Value(net.ParseIP("10.0.0.2"))}))
	_, err := w.Flush()
	require.NoError(t, err)
	return buf.Bytes()
}

func writeV9Packet(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf, 9)
	w.BeginPacket(1000, 1, 7)
	require.NoError(t, w.WriteV9TemplateSet(&V9Template{
		TemplateID: 256,
		Fields:     []V9Field{{FieldType: 8, FieldLength: 4}, {FieldType: 12, FieldLength: 4}},
	}))
	require.NoError(t, w.WriteDataSet(256, Record{IPv4Value(net.ParseIP("10.0.0.1")), IPv4Value(net.ParseIP("10.0.0.2"))}))
	_, err := w.Flush()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReaderDecodesIPFIXPacketByLength(t *testing.T) {
	rd := NewReader(bytes.NewReader(writeIPFIXPacket(t)))

	header, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, uint16(10), header.Version)
	assert.Equal(t, uint32(7), header.ObservationDomainID)

	var kinds []string
	for {
		ds, err := rd.ReadSet()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		kinds = append(kinds, ds.Kind)
	}
	assert.Equal(t, []string{KindTemplateSet, KindDataSet}, kinds)

	_, err = rd.ReadHeader()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderDecodesV9PacketByCount(t *testing.T) {
	rd := NewReader(bytes.NewReader(writeV9Packet(t)))

	header, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, uint16(9), header.Version)
	assert.Equal(t, uint32(7), rd.V9Header().SourceID)

	var kinds []string
	for {
		ds, err := rd.ReadSet()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		kinds = append(kinds, ds.Kind)
	}
	assert.Equal(t, []string{KindTemplateSet, KindDataSet}, kinds)
}

// TestReaderMixedStreamDispatchesPerPacketVersion guards the framing fix
// directly: a v9 packet (no length field, Count-terminated) followed by an
// IPFIX packet (length-terminated) on the same stream must each be read to
// their own true end, never spilling into the next packet's header.
func TestReaderMixedStreamDispatchesPerPacketVersion(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(writeV9Packet(t))
	stream.Write(writeIPFIXPacket(t))

	rd := NewReader(&stream)

	h1, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, uint16(9), h1.Version)
	for {
		if _, err := rd.ReadSet(); err == io.EOF {
			break
		} else {
			require.NoError(t, err)
		}
	}

	h2, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, uint16(10), h2.Version)
	var sawData bool
	for {
		ds, err := rd.ReadSet()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if ds.Kind == KindDataSet {
			sawData = true
		}
	}
	assert.True(t, sawData)

	_, err = rd.ReadHeader()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderDataSetMissingTemplateIsRecoverable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 10)
	w.BeginPacket(0, 0, 1)
	require.NoError(t, w.WriteDataSet(999, Record{}))
	_, err := w.Flush()
	require.NoError(t, err)

	rd := NewReader(&buf)
	_, err = rd.ReadHeader()
	require.NoError(t, err)

	_, err = rd.ReadSet()
	assert.Error(t, err)

	// The Reader must still be usable after a recoverable error.
	_, err = rd.ReadSet()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderReadSetBeforeHeaderPanics(t *testing.T) {
	rd := NewReader(bytes.NewReader(writeIPFIXPacket(t)))
	assert.Panics(t, func() {
		_, _ = rd.ReadSet()
	})
}
