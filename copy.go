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
	"encoding/binary"
	"io"
)

// This file is component H: copying a single packet between streams by
// reading only its length/count prefixes, without decoding templates or
// records. Useful for a relay/splitter that needs to forward packets
// verbatim.

// CopyPacket copies exactly one packet of the given version from src to
// dst without fully decoding it, and returns the number of bytes copied.
// version must be 5, 9, or 10. bufSize is floored to whatever header size
// that version requires to peek.
func CopyPacket(dst io.Writer, src io.Reader, version uint16, bufSize int) (int64, error) {
	br, ok := src.(*bufio.Reader)
	if !ok {
		minSize := 4
		switch version {
		case 9:
			minSize = v9PacketHeaderLength
		case 5:
			minSize = v5HeaderLength
		}
		if bufSize < minSize {
			bufSize = minSize
		}
		br = bufio.NewReaderSize(src, bufSize)
	}

	switch version {
	case 10:
		return copyIPFIXPacket(dst, br)
	case 9:
		return copyV9Packet(dst, br)
	case 5:
		return copyV5Packet(dst, br)
	default:
		return 0, UnknownVersion(version)
	}
}

// copyIPFIXPacket peeks the 4-byte version+length prefix, then streams the
// remaining length-4 bytes verbatim.
func copyIPFIXPacket(dst io.Writer, br *bufio.Reader) (int64, error) {
	prefix, err := br.Peek(4)
	if err != nil {
		return 0, err
	}
	length := binary.BigEndian.Uint16(prefix[2:4])
	if length < 4 {
		return 0, FormatError("packet length shorter than its own prefix")
	}
	if _, err := io.CopyN(dst, br, 4); err != nil {
		return 0, err
	}
	n, err := io.CopyN(dst, br, int64(length)-4)
	return n + 4, err
}

// copyV9Packet peeks the 20-byte v9 header to learn Count, then copies it
// verbatim and loops Count times, each time peeking a set's 4-byte
// id+length prefix and copying the set (header included) in full. v9 has
// no total packet length, so Count is the only way to know when the
// packet ends.
func copyV9Packet(dst io.Writer, br *bufio.Reader) (int64, error) {
	header, err := br.Peek(v9PacketHeaderLength)
	if err != nil {
		return 0, err
	}
	count := binary.BigEndian.Uint16(header[2:4])
	n, err := io.CopyN(dst, br, int64(v9PacketHeaderLength))
	if err != nil {
		return n, err
	}
	for i := uint16(0); i < count; i++ {
		setPrefix, err := br.Peek(4)
		if err != nil {
			return n, err
		}
		setLength := binary.BigEndian.Uint16(setPrefix[2:4])
		if setLength < 4 {
			return n, FormatError("set length shorter than its own prefix")
		}
		m, err := io.CopyN(dst, br, int64(setLength))
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// copyV5Packet copies the fixed 24-byte header, reads the record count
// from it, and copies count*48 bytes of flow records.
func copyV5Packet(dst io.Writer, br *bufio.Reader) (int64, error) {
	header, err := br.Peek(v5HeaderLength)
	if err != nil {
		return 0, err
	}
	count := binary.BigEndian.Uint16(header[2:4])
	n, err := io.CopyN(dst, br, int64(v5HeaderLength))
	if err != nil {
		return n, err
	}
	m, err := io.CopyN(dst, br, int64(count)*v5RecordLength)
	return n + m, err
}
