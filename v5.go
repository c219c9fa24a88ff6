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
	"io"
	"net"
)

// This file is the NetFlow v5 codec: unlike v9/IPFIX, v5 has no templates —
// every FlowRecord is the same fixed 48-byte layout, defined by Cisco
// rather than by an IANA/enterprise registry.

const v5RecordLength = 48

// V5Record is one fixed-format NetFlow v5 flow record.
type V5Record struct {
	SrcAddr    net.IP `json:"srcAddr,omitempty"`
	DstAddr    net.IP `json:"dstAddr,omitempty"`
	NextHop    net.IP `json:"nextHop,omitempty"`
	Input      uint16 `json:"input,omitempty"`
	Output     uint16 `json:"output,omitempty"`
	DPkts      uint32 `json:"dPkts,omitempty"`
	DOctets    uint32 `json:"dOctets,omitempty"`
	First      uint32 `json:"first,omitempty"`
	Last       uint32 `json:"last,omitempty"`
	SrcPort    uint16 `json:"srcPort,omitempty"`
	DstPort    uint16 `json:"dstPort,omitempty"`
	Pad1       uint8  `json:"-"`
	TCPFlags   uint8  `json:"tcpFlags,omitempty"`
	Prot       uint8  `json:"prot,omitempty"`
	Tos        uint8  `json:"tos,omitempty"`
	SrcAS      uint16 `json:"srcAs,omitempty"`
	DstAS      uint16 `json:"dstAs,omitempty"`
	SrcMask    uint8  `json:"srcMask,omitempty"`
	DstMask    uint8  `json:"dstMask,omitempty"`
	Pad2       uint16 `json:"-"`
}

func (rec *V5Record) Encode(w io.Writer) (int, error) {
	b := make([]byte, v5RecordLength)
	copy(b[0:4], rec.SrcAddr.To4())
	copy(b[4:8], rec.DstAddr.To4())
	copy(b[8:12], rec.NextHop.To4())
	binary.BigEndian.PutUint16(b[12:14], rec.Input)
	binary.BigEndian.PutUint16(b[14:16], rec.Output)
	binary.BigEndian.PutUint32(b[16:20], rec.DPkts)
	binary.BigEndian.PutUint32(b[20:24], rec.DOctets)
	binary.BigEndian.PutUint32(b[24:28], rec.First)
	binary.BigEndian.PutUint32(b[28:32], rec.Last)
	binary.BigEndian.PutUint16(b[32:34], rec.SrcPort)
	binary.BigEndian.PutUint16(b[34:36], rec.DstPort)
	b[36] = rec.Pad1
	b[37] = rec.TCPFlags
	b[38] = rec.Prot
	b[39] = rec.Tos
	binary.BigEndian.PutUint16(b[40:42], rec.SrcAS)
	binary.BigEndian.PutUint16(b[42:44], rec.DstAS)
	b[44] = rec.SrcMask
	b[45] = rec.DstMask
	binary.BigEndian.PutUint16(b[46:48], rec.Pad2)
	return w.Write(b)
}

func (rec *V5Record) Decode(r io.Reader) (int, error) {
	b := make([]byte, v5RecordLength)
	n, err := io.ReadFull(r, b)
	if err != nil {
		return n, err
	}
	rec.SrcAddr = net.IP(append([]byte(nil), b[0:4]...))
	rec.DstAddr = net.IP(append([]byte(nil), b[4:8]...))
	rec.NextHop = net.IP(append([]byte(nil), b[8:12]...))
	rec.Input = binary.BigEndian.Uint16(b[12:14])
	rec.Output = binary.BigEndian.Uint16(b[14:16])
	rec.DPkts = binary.BigEndian.Uint32(b[16:20])
	rec.DOctets = binary.BigEndian.Uint32(b[20:24])
	rec.First = binary.BigEndian.Uint32(b[24:28])
	rec.Last = binary.BigEndian.Uint32(b[28:32])
	rec.SrcPort = binary.BigEndian.Uint16(b[32:34])
	rec.DstPort = binary.BigEndian.Uint16(b[34:36])
	rec.Pad1 = b[36]
	rec.TCPFlags = b[37]
	rec.Prot = b[38]
	rec.Tos = b[39]
	rec.SrcAS = binary.BigEndian.Uint16(b[40:42])
	rec.DstAS = binary.BigEndian.Uint16(b[42:44])
	rec.SrcMask = b[44]
	rec.DstMask = b[45]
	rec.Pad2 = binary.BigEndian.Uint16(b[46:48])
	return n, nil
}

// V5Packet is a fully decoded (or to-be-encoded) NetFlow v5 packet: the
// fixed header plus up to 30 flow records (the Cisco-imposed per-packet
// cap, driven by a conventional 1500-byte MTU).
type V5Packet struct {
	Header  V5Header
	Records []V5Record
}

const V5MaxRecords = 30

func (p *V5Packet) Encode(w io.Writer) (int, error) {
	if len(p.Records) > V5MaxRecords {
		return 0, ArgumentRange("V5Packet.Records", len(p.Records))
	}
	p.Header.Count = uint16(len(p.Records))
	n, err := p.Header.Encode(w)
	if err != nil {
		return n, err
	}
	for i := range p.Records {
		m, err := p.Records[i].Encode(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p *V5Packet) Decode(r io.Reader) (int, error) {
	n, err := p.Header.Decode(r)
	if err != nil {
		return n, err
	}
	p.Records = make([]V5Record, p.Header.Count)
	for i := range p.Records {
		m, err := p.Records[i].Decode(r)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// V5Writer writes a stream of NetFlow v5 packets to an underlying
// io.Writer. Unlike Writer, there is no template bookkeeping, so no
// explicit state machine is needed beyond UseAfterClose.
type V5Writer struct {
	w      io.Writer
	closed bool
}

func NewV5Writer(w io.Writer) *V5Writer {
	if w == nil {
		panic(ArgumentNull("w"))
	}
	return &V5Writer{w: w}
}

func (vw *V5Writer) WritePacket(p *V5Packet) (int, error) {
	if vw.closed {
		panic(UseAfterClose())
	}
	return p.Encode(vw.w)
}

func (vw *V5Writer) Close() error {
	vw.closed = true
	return nil
}

// V5Reader reads a stream of NetFlow v5 packets from an underlying
// io.Reader.
type V5Reader struct {
	r      io.Reader
	closed bool
}

func NewV5Reader(r io.Reader) *V5Reader {
	if r == nil {
		panic(ArgumentNull("r"))
	}
	return &V5Reader{r: r}
}

// ReadPacket reads the next packet, or returns io.EOF at the end of the
// stream.
func (vr *V5Reader) ReadPacket() (*V5Packet, error) {
	if vr.closed {
		panic(UseAfterClose())
	}
	p := &V5Packet{}
	_, err := p.Decode(vr.r)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (vr *V5Reader) Close() error {
	vr.closed = true
	return nil
}
