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

// TestScenario1_RFC7011Example builds the worked example from RFC 7011
// §3.4.2: a template set, an options template set, a data set of three
// flows, and an options data set of two records, all within one packet,
// and checks the on-wire lengths the RFC's own example calls out before
// round-tripping the packet back through a Reader.
func TestScenario1_RFC7011Example(t *testing.T) {
	tmpl := &Template{
		TemplateID: 256,
		Fields: []FieldSpecifier{
			{ElementID: 8, FieldLength: 4},  // sourceIPv4Address
			{ElementID: 12, FieldLength: 4}, // destinationIPv4Address
			{ElementID: 15, FieldLength: 4}, // ipNextHopIPv4Address
			{ElementID: 2, FieldLength: 4},  // packetDeltaCount
			{ElementID: 1, FieldLength: 4},  // octetDeltaCount
		},
	}
	optTmpl := &OptionsTemplate{
		TemplateID:      258,
		ScopeFieldCount: 1,
		Fields: []FieldSpecifier{
			{ElementID: 141, FieldLength: 4}, // lineCardId, scope
			{ElementID: 41, FieldLength: 2},  // exportedMessageTotalCount
			{ElementID: 42, FieldLength: 2},  // exportedFlowRecordTotalCount
		},
	}

	flows := []Record{
		{
			IPv4Value(net.ParseIP("192.0.2.12")),
			IPv4Value(net.ParseIP("192.0.2.254")),
			IPv4Value(net.ParseIP("192.0.2.1")),
			Uint32Value(5009),
			Uint32Value(5344385),
		},
		{
			IPv4Value(net.ParseIP("192.0.2.27")),
			IPv4Value(net.ParseIP("192.0.2.23")),
			IPv4Value(net.ParseIP("192.0.2.2")),
			Uint32Value(748),
			Uint32Value(388934),
		},
		{
			IPv4Value(net.ParseIP("192.0.2.56")),
			IPv4Value(net.ParseIP("192.0.2.65")),
			IPv4Value(net.ParseIP("192.0.2.3")),
			Uint32Value(5),
			Uint32Value(6534),
		},
	}
	optRecords := []Record{
		{Uint32Value(1), Uint16Value(345), Uint16Value(10201)},
		{Uint32Value(2), Uint16Value(690), Uint16Value(20402)},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, 10)
	w.BeginPacket(0, 0, 42)
	require.NoError(t, w.WriteTemplateSet(tmpl))
	require.NoError(t, w.WriteOptionsTemplateSet(optTmpl))
	require.NoError(t, w.WriteDataSet(256, flows...))
	require.NoError(t, w.WriteDataSet(258, optRecords...))
	n, err := w.Flush()
	require.NoError(t, err)
	assert.Equal(t, 152, n)
	assert.Equal(t, 152, buf.Len())

	wire := buf.Bytes()
	assert.Equal(t, uint16(152), beUint16(wire[2:4]), "packet header Length")

	rd := NewReader(bytes.NewReader(wire))
	header, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, uint16(152), header.Length)
	assert.Equal(t, uint32(42), header.ObservationDomainID)

	ds1, err := rd.ReadSet()
	require.NoError(t, err)
	assert.Equal(t, KindTemplateSet, ds1.Kind)
	assert.Equal(t, uint16(28), ds1.Header.Length)

	ds2, err := rd.ReadSet()
	require.NoError(t, err)
	assert.Equal(t, KindOptionsTemplateSet, ds2.Kind)
	assert.Equal(t, uint16(24), ds2.Header.Length)

	ds3, err := rd.ReadSet()
	require.NoError(t, err)
	assert.Equal(t, KindDataSet, ds3.Kind)
	assert.Equal(t, uint16(64), ds3.Header.Length)
	require.Len(t, ds3.Data.Records, 3)
	assert.True(t, net.ParseIP("192.0.2.12").Equal(ds3.Data.Records[0][0].IP()))
	assert.Equal(t, uint32(5009), ds3.Data.Records[0][3].Uint32())
	assert.Equal(t, uint32(6534), ds3.Data.Records[2][4].Uint32())

	ds4, err := rd.ReadSet()
	require.NoError(t, err)
	assert.Equal(t, KindDataSet, ds4.Kind)
	assert.Equal(t, uint16(20), ds4.Header.Length)
	require.Len(t, ds4.Data.Records, 2)
	assert.Equal(t, uint32(1), ds4.Data.Records[0][0].Uint32())
	assert.Equal(t, uint16(10201), ds4.Data.Records[0][2].Uint16())
	assert.Equal(t, uint16(690), ds4.Data.Records[1][1].Uint16())

	_, err = rd.ReadSet()
	assert.ErrorIs(t, err, io.EOF)
}

// TestScenario2_V5SingleRecord pins the NetFlow v5 worked example: a single
// flow record whose encoded packet is exactly 72 bytes (24-byte header plus
// one 48-byte record), with every field round-tripping unchanged.
func TestScenario2_V5SingleRecord(t *testing.T) {
	p := &V5Packet{
		Header: V5Header{
			Count:          1,
			FlowSequence:   0,
			EngineType:     42,
			EngineID:       43,
			SamplingInterv: 12345,
		},
		Records: []V5Record{
			{
				SrcAddr:  net.ParseIP("10.5.12.13").To4(),
				DstAddr:  net.ParseIP("192.168.1.12").To4(),
				NextHop:  net.ParseIP("10.5.12.254").To4(),
				Input:    741,
				Output:   21478,
				DPkts:    5009,
				DOctets:  5344385,
				First:    369,
				Last:     963,
				SrcPort:  80,
				DstPort:  81,
				TCPFlags: 12,
				Prot:     6,
				Tos:      33,
				SrcAS:    12,
				DstAS:    13,
				SrcMask:  8,
				DstMask:  16,
			},
		},
	}

	var buf bytes.Buffer
	n, err := p.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 72, n)
	assert.Equal(t, 72, buf.Len())

	var got V5Packet
	_, err = got.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)

	want := p.Records[0]
	gotRec := got.Records[0]
	assert.True(t, want.SrcAddr.Equal(gotRec.SrcAddr))
	assert.True(t, want.DstAddr.Equal(gotRec.DstAddr))
	assert.True(t, want.NextHop.Equal(gotRec.NextHop))
	assert.Equal(t, want.Input, gotRec.Input)
	assert.Equal(t, want.Output, gotRec.Output)
	assert.Equal(t, want.DPkts, gotRec.DPkts)
	assert.Equal(t, want.DOctets, gotRec.DOctets)
	assert.Equal(t, want.First, gotRec.First)
	assert.Equal(t, want.Last, gotRec.Last)
	assert.Equal(t, want.SrcPort, gotRec.SrcPort)
	assert.Equal(t, want.DstPort, gotRec.DstPort)
	assert.Equal(t, want.TCPFlags, gotRec.TCPFlags)
	assert.Equal(t, want.Prot, gotRec.Prot)
	assert.Equal(t, want.Tos, gotRec.Tos)
	assert.Equal(t, want.SrcAS, gotRec.SrcAS)
	assert.Equal(t, want.DstAS, gotRec.DstAS)
	assert.Equal(t, want.SrcMask, gotRec.SrcMask)
	assert.Equal(t, want.DstMask, gotRec.DstMask)
	assert.Equal(t, p.Header.EngineType, got.Header.EngineType)
	assert.Equal(t, p.Header.EngineID, got.Header.EngineID)
	assert.Equal(t, p.Header.SamplingInterv, got.Header.SamplingInterv)
}

// TestScenario3_CopyPacketIdempotence checks that CopyPacket reproduces
// the source packet byte for byte, and that the source still decodes
// into at least one set without error.
func TestScenario3_CopyPacketIdempotence(t *testing.T) {
	src := writeIPFIXPacket(t)

	var copied bytes.Buffer
	_, err := CopyPacket(&copied, bytes.NewReader(src), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, src, copied.Bytes())

	rd := NewReader(bytes.NewReader(src))
	_, err = rd.ReadHeader()
	require.NoError(t, err)
	var sets []*DecodedSet
	for {
		s, err := rd.ReadSet()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sets = append(sets, s)
	}
	assert.NotEmpty(t, sets)
}

// TestScenario4_TemplateReplacement pins that a second template-set sharing
// a template id overrides the first for subsequent data-sets within the
// same observation domain.
func TestScenario4_TemplateReplacement(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 10)
	w.BeginPacket(0, 0, 1)
	require.NoError(t, w.WriteTemplateSet(&Template{
		TemplateID: 256,
		Fields:     []FieldSpecifier{{ElementID: 8, FieldLength: 4}},
	}))
	require.NoError(t, w.WriteDataSet(256, Record{IPv4Value(net.ParseIP("1.1.1.1"))}))
	_, err := w.Flush()
	require.NoError(t, err)

	w.BeginPacket(0, 1, 1)
	require.NoError(t, w.WriteTemplateSet(&Template{
		TemplateID: 256,
		Fields:     []FieldSpecifier{{ElementID: 8, FieldLength: 4}, {ElementID: 12, FieldLength: 4}},
	}))
	require.NoError(t, w.WriteDataSet(256, Record{IPv4Value(net.ParseIP("2.2.2.2")), IPv4Value(net.ParseIP("3.3.3.3"))}))
	_, err = w.Flush()
	require.NoError(t, err)

	rd := NewReader(&buf)

	_, err = rd.ReadHeader()
	require.NoError(t, err)
	_, err = rd.ReadSet() // template set
	require.NoError(t, err)
	ds1, err := rd.ReadSet()
	require.NoError(t, err)
	assert.Len(t, ds1.Data.Records[0], 1)

	_, err = rd.ReadHeader()
	require.NoError(t, err)
	_, err = rd.ReadSet() // replacement template set
	require.NoError(t, err)
	ds2, err := rd.ReadSet()
	require.NoError(t, err)
	assert.Len(t, ds2.Data.Records[0], 2)
}

// TestScenario5_CrossDomainIsolation pins that templates registered under
// one observation domain are not returned by a registry lookup for a
// different domain.
func TestScenario5_CrossDomainIsolation(t *testing.T) {
	reg := NewTemplateRegistry()
	reg.PutTemplate(1, &Template{TemplateID: 256, Fields: []FieldSpecifier{{ElementID: 8, FieldLength: 4}}})

	_, ok := reg.Template(2, 256)
	assert.False(t, ok)
	_, ok = reg.Template(1, 256)
	assert.True(t, ok)
}

// TestScenario6_EnterpriseFieldSpecifierRoundTrip pins the enterprise-bit
// FieldSpecifier wire shape: 8 bytes, high bit of the first uint16 set, and
// the enterprise number occupying the trailing 4 bytes.
func TestScenario6_EnterpriseFieldSpecifierRoundTrip(t *testing.T) {
	f := FieldSpecifier{ElementID: 12, FieldLength: 24, EnterpriseNum: 42}

	var buf bytes.Buffer
	n, err := f.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	wire := buf.Bytes()
	assert.NotZero(t, wire[0]&0x80, "high bit of first uint16 must be set")
	assert.Equal(t, uint32(42), beUint32(wire[4:8]))

	var got FieldSpecifier
	_, err = got.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, f, got)
	assert.True(t, got.Enterprise())
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
