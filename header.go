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

// Set id values shared by NetFlow v9 and IPFIX: 0/1 are the template/options
// template set ids, 256 is where ordinary data set ids (which double as the
// data set's template id) begin.
const (
	SetIDTemplate        uint16 = 0
	SetIDOptionsTemplate uint16 = 1
	SetIDMinData         uint16 = 256
)

// PacketHeader is the 16-byte IPFIX packet header: a version-tagged,
// length-prefixed envelope carrying an export timestamp, a monotonic
// sequence number, and a per-exporter domain id (ObservationDomainId in
// IPFIX, SourceId in NetFlow v9 — the two names for the same field).
// NetFlow v9 packets use the 20-byte V9PacketHeader on the wire; for them
// Reader.ReadHeader returns a PacketHeader summary with Length 0 and the
// other fields copied from the V9PacketHeader.
type PacketHeader struct {
	Version             uint16 `json:"version,omitempty" yaml:"version,omitempty"`
	Length              uint16 `json:"length,omitempty" yaml:"length,omitempty"`
	ExportTime          uint32 `json:"exportTime,omitempty" yaml:"exportTime,omitempty"`
	SequenceNumber      uint32 `json:"sequenceNumber,omitempty" yaml:"sequenceNumber,omitempty"`
	ObservationDomainID uint32 `json:"observationDomainId,omitempty" yaml:"observationDomainId,omitempty"`
}

func (h *PacketHeader) String() string {
	return fmt.Sprintf("{version:%d length:%d exportTime:%d sequenceNumber:%d observationDomainId:%d}",
		h.Version, h.Length, h.ExportTime, h.SequenceNumber, h.ObservationDomainID)
}

// Encode writes the 16-byte IPFIX packet header. The caller is
// responsible for Length having already been computed.
func (h *PacketHeader) Encode(w io.Writer) (int, error) {
	b := make([]byte, 0, 16)
	b = binary.BigEndian.AppendUint16(b, h.Version)
	b = binary.BigEndian.AppendUint16(b, h.Length)
	b = binary.BigEndian.AppendUint32(b, h.ExportTime)
	b = binary.BigEndian.AppendUint32(b, h.SequenceNumber)
	b = binary.BigEndian.AppendUint32(b, h.ObservationDomainID)
	return w.Write(b)
}

// Decode reads a 16-byte IPFIX packet header. wantVersion, if non-zero,
// rejects any other version with UnknownVersion. A NetFlow v9 header is
// 20 bytes and is read with V9PacketHeader.Decode instead.
func (h *PacketHeader) Decode(r io.Reader, wantVersion uint16) (int, error) {
	buf := make([]byte, 16)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, err
	}
	h.Version = binary.BigEndian.Uint16(buf[0:2])
	if wantVersion != 0 && h.Version != wantVersion {
		return n, UnknownVersion(h.Version)
	}
	h.Length = binary.BigEndian.Uint16(buf[2:4])
	h.ExportTime = binary.BigEndian.Uint32(buf[4:8])
	h.SequenceNumber = binary.BigEndian.Uint32(buf[8:12])
	h.ObservationDomainID = binary.BigEndian.Uint32(buf[12:16])
	return n, nil
}

// V9PacketHeader is the 20-byte NetFlow v9 packet header (RFC 3954 §5):
// unlike IPFIX, there is no total-length field — Count gives the number of
// FlowSets in the packet instead, and a reader must track sets-remaining
// rather than bytes-remaining to know when the packet ends.
type V9PacketHeader struct {
	Version         uint16 `json:"version,omitempty" yaml:"version,omitempty"`
	Count           uint16 `json:"count,omitempty" yaml:"count,omitempty"`
	SysUptimeMillis uint32 `json:"sysUptimeMillis,omitempty" yaml:"sysUptimeMillis,omitempty"`
	UnixSecs        uint32 `json:"unixSecs,omitempty" yaml:"unixSecs,omitempty"`
	SequenceNumber  uint32 `json:"sequenceNumber,omitempty" yaml:"sequenceNumber,omitempty"`
	SourceID        uint32 `json:"sourceId,omitempty" yaml:"sourceId,omitempty"`
}

const v9PacketHeaderLength = 20

func (h *V9PacketHeader) String() string {
	return fmt.Sprintf("{version:%d count:%d sysUptimeMillis:%d unixSecs:%d sequenceNumber:%d sourceId:%d}",
		h.Version, h.Count, h.SysUptimeMillis, h.UnixSecs, h.SequenceNumber, h.SourceID)
}

func (h *V9PacketHeader) Encode(w io.Writer) (int, error) {
	b := make([]byte, 0, v9PacketHeaderLength)
	b = binary.BigEndian.AppendUint16(b, 9)
	b = binary.BigEndian.AppendUint16(b, h.Count)
	b = binary.BigEndian.AppendUint32(b, h.SysUptimeMillis)
	b = binary.BigEndian.AppendUint32(b, h.UnixSecs)
	b = binary.BigEndian.AppendUint32(b, h.SequenceNumber)
	b = binary.BigEndian.AppendUint32(b, h.SourceID)
	return w.Write(b)
}

func (h *V9PacketHeader) Decode(r io.Reader) (int, error) {
	buf := make([]byte, v9PacketHeaderLength)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, err
	}
	h.Version = binary.BigEndian.Uint16(buf[0:2])
	if h.Version != 9 {
		return n, UnknownVersion(h.Version)
	}
	h.Count = binary.BigEndian.Uint16(buf[2:4])
	h.SysUptimeMillis = binary.BigEndian.Uint32(buf[4:8])
	h.UnixSecs = binary.BigEndian.Uint32(buf[8:12])
	h.SequenceNumber = binary.BigEndian.Uint32(buf[12:16])
	h.SourceID = binary.BigEndian.Uint32(buf[16:20])
	return n, nil
}

// SetHeader prefixes every set (template, options template, or data) within
// a v9/IPFIX packet: an id (0 for template sets, 1 for options template
// sets, 256+ as the data set's template id) and the set's total length in
// bytes including this header.
type SetHeader struct {
	ID     uint16 `json:"id,omitempty"`
	Length uint16 `json:"length,omitempty"`
}

func (sh *SetHeader) Decode(r io.Reader) (int, error) {
	buf := make([]byte, 4)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, err
	}
	sh.ID = binary.BigEndian.Uint16(buf[0:2])
	sh.Length = binary.BigEndian.Uint16(buf[2:4])
	return n, nil
}

func (sh *SetHeader) Encode(w io.Writer) (int, error) {
	b := make([]byte, 0, 4)
	b = binary.BigEndian.AppendUint16(b, sh.ID)
	b = binary.BigEndian.AppendUint16(b, sh.Length)
	return w.Write(b)
}

// V5Header is the fixed 24-byte NetFlow v5 packet header: version is always
// 5, Count gives the number of 48-byte FlowRecords that follow, and the
// sampling fields pack an interval/mode pair into a single uint16.
type V5Header struct {
	Version        uint16 `json:"version,omitempty"`
	Count          uint16 `json:"count,omitempty"`
	SysUptime      uint32 `json:"sysUptime,omitempty"`
	UnixSecs       uint32 `json:"unixSecs,omitempty"`
	UnixNsecs      uint32 `json:"unixNsecs,omitempty"`
	FlowSequence   uint32 `json:"flowSequence,omitempty"`
	EngineType     uint8  `json:"engineType,omitempty"`
	EngineID       uint8  `json:"engineId,omitempty"`
	SamplingMode   uint8  `json:"samplingMode,omitempty"`
	SamplingInterv uint16 `json:"samplingInterval,omitempty"`
}

const v5HeaderLength = 24

func (h *V5Header) Encode(w io.Writer) (int, error) {
	b := make([]byte, 0, v5HeaderLength)
	b = binary.BigEndian.AppendUint16(b, 5)
	b = binary.BigEndian.AppendUint16(b, h.Count)
	b = binary.BigEndian.AppendUint32(b, h.SysUptime)
	b = binary.BigEndian.AppendUint32(b, h.UnixSecs)
	b = binary.BigEndian.AppendUint32(b, h.UnixNsecs)
	b = binary.BigEndian.AppendUint32(b, h.FlowSequence)
	b = append(b, h.EngineType, h.EngineID)
	sampling := uint16(h.SamplingMode&0x3)<<14 | h.SamplingInterv&0x3fff
	b = binary.BigEndian.AppendUint16(b, sampling)
	return w.Write(b)
}

func (h *V5Header) Decode(r io.Reader) (int, error) {
	buf := make([]byte, v5HeaderLength)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, err
	}
	h.Version = binary.BigEndian.Uint16(buf[0:2])
	if h.Version != 5 {
		return n, UnknownVersion(h.Version)
	}
	h.Count = binary.BigEndian.Uint16(buf[2:4])
	h.SysUptime = binary.BigEndian.Uint32(buf[4:8])
	h.UnixSecs = binary.BigEndian.Uint32(buf[8:12])
	h.UnixNsecs = binary.BigEndian.Uint32(buf[12:16])
	h.FlowSequence = binary.BigEndian.Uint32(buf[16:20])
	h.EngineType = buf[20]
	h.EngineID = buf[21]
	sampling := binary.BigEndian.Uint16(buf[22:24])
	h.SamplingMode = uint8(sampling >> 14)
	h.SamplingInterv = sampling & 0x3fff
	return n, nil
}
