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
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyPacketIPFIX(t *testing.T) {
	src := writeIPFIXPacket(t)
	var dst bytes.Buffer
	n, err := CopyPacket(&dst, bytes.NewReader(src), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, dst.Bytes())
}

func TestCopyPacketV9(t *testing.T) {
	src := writeV9Packet(t)
	var dst bytes.Buffer
	n, err := CopyPacket(&dst, bytes.NewReader(src), 9, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, dst.Bytes())
}

func TestCopyPacketV5(t *testing.T) {
	p := &V5Packet{
		Header:  V5Header{Count: 1},
		Records: []V5Record{{}},
	}
	var src bytes.Buffer
	_, err := p.Encode(&src)
	require.NoError(t, err)

	var dst bytes.Buffer
	n, err := CopyPacket(&dst, bytes.NewReader(src.Bytes()), 5, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(src.Len()), n)
	assert.Equal(t, src.Bytes(), dst.Bytes())
}

func TestCopyPacketUnknownVersion(t *testing.T) {
	_, err := CopyPacket(&bytes.Buffer{}, bytes.NewReader(nil), 7, 64)
	assert.Error(t, err)
}

// TestCopyPacketRespectsPerVersionFraming pins the same divergence
// reader_test.go covers: copying a v9 packet must stop after Count sets,
// not at an IPFIX-style length boundary, even when two packets are
// concatenated in the source stream.
func TestCopyPacketRespectsPerVersionFraming(t *testing.T) {
	v9 := writeV9Packet(t)
	ipfix := writeIPFIXPacket(t)
	var stream bytes.Buffer
	stream.Write(v9)
	stream.Write(ipfix)

	// Shared across both calls: CopyPacket reuses an already-*bufio.Reader
	// src as-is instead of wrapping a fresh one, which would otherwise
	// discard whatever the first call had already buffered past its
	// packet boundary.
	src := bufio.NewReaderSize(bytes.NewReader(stream.Bytes()), 64)
	var dst bytes.Buffer
	n, err := CopyPacket(&dst, src, 9, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(len(v9)), n)
	assert.Equal(t, v9, dst.Bytes())

	dst.Reset()
	n, err = CopyPacket(&dst, src, 10, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(len(ipfix)), n)
	assert.Equal(t, ipfix, dst.Bytes())
}
