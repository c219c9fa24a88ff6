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

func TestV5RecordRoundTrip(t *testing.T) {
	rec := V5Record{
		SrcAddr:  net.ParseIP("192.168.1.10").To4(),
		DstAddr:  net.ParseIP("10.0.0.1").To4(),
		NextHop:  net.ParseIP("10.0.0.254").To4(),
		DPkts:    10,
		DOctets:  1500,
		SrcPort:  1234,
		DstPort:  80,
		Prot:     6,
		Tos:      0,
		TCPFlags: 0x18,
		SrcAS:    65001,
		DstAS:    65002,
	}
	var buf bytes.Buffer
	n, err := rec.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, v5RecordLength, n)
	assert.Equal(t, v5RecordLength, buf.Len())

	var got V5Record
	n, err = got.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, v5RecordLength, n)
	assert.True(t, rec.SrcAddr.Equal(got.SrcAddr))
	assert.True(t, rec.DstAddr.Equal(got.DstAddr))
	assert.Equal(t, rec.DPkts, got.DPkts)
	assert.Equal(t, rec.SrcPort, got.SrcPort)
	assert.Equal(t, rec.Prot, got.Prot)
}

func TestV5PacketRoundTrip(t *testing.T) {
	p := &V5Packet{
		Header: V5Header{
			SysUptime:    1000,
			UnixSecs:     1700000000,
			FlowSequence: 1,
		},
		Records: []V5Record{
			{SrcAddr: net.ParseIP("1.1.1.1").To4(), DstAddr: net.ParseIP("2.2.2.2").To4(), DPkts: 1, DOctets: 64, Prot: 17},
		},
	}
	var buf bytes.Buffer
	_, err := p.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, v5HeaderLength+v5RecordLength, buf.Len())

	var got V5Packet
	_, err = got.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(5), got.Header.Version)
	assert.Equal(t, uint16(1), got.Header.Count)
	require.Len(t, got.Records, 1)
	assert.True(t, p.Records[0].SrcAddr.Equal(got.Records[0].SrcAddr))
}

func TestV5PacketEncodeRejectsTooManyRecords(t *testing.T) {
	p := &V5Packet{Records: make([]V5Record, V5MaxRecords+1)}
	_, err := p.Encode(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestV5ReaderReadsConcatenatedPackets(t *testing.T) {
	p1 := &V5Packet{Records: []V5Record{{Prot: 6}}}
	p2 := &V5Packet{Records: []V5Record{{Prot: 17}, {Prot: 1}}}

	var stream bytes.Buffer
	_, err := p1.Encode(&stream)
	require.NoError(t, err)
	_, err = p2.Encode(&stream)
	require.NoError(t, err)

	vr := NewV5Reader(&stream)
	got1, err := vr.ReadPacket()
	require.NoError(t, err)
	assert.Len(t, got1.Records, 1)

	got2, err := vr.ReadPacket()
	require.NoError(t, err)
	assert.Len(t, got2.Records, 2)

	_, err = vr.ReadPacket()
	assert.ErrorIs(t, err, io.EOF)
}

func TestV5WriterUseAfterClosePanics(t *testing.T) {
	vw := NewV5Writer(&bytes.Buffer{})
	require.NoError(t, vw.Close())
	assert.Panics(t, func() {
		_, _ = vw.WritePacket(&V5Packet{})
	})
}
