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
)

// This file is component E: the writer state machine, the Encode-side
// mirror of Reader. A packet is built entirely in memory (set bodies must
// be length-prefixed before the packet header can be finalized) and
// flushed in one Write call, the same buffer-then-flush approach the
// teacher's Message.Encode takes against a single io.Writer, generalized
// to emit many packets across a stream and to v9 as well as IPFIX.

type writerState int

const (
	writerExpectHeader writerState = iota
	writerExpectSets
	writerClosed
)

// Writer encodes a stream of NetFlow v9 or IPFIX packets. IPFIX packets are
// framed by a total byte length computed once the body is complete; v9
// packets instead carry a count of FlowSets, so the Writer tracks however
// many sets have been appended to the current packet.
type Writer struct {
	w       io.Writer
	version uint16

	state    writerState
	ipfix    PacketHeader
	v9       V9PacketHeader
	setCount int
	body     bytes.Buffer
}

// NewWriter creates a Writer emitting packets of the given version (9 or
// 10) to w.
func NewWriter(w io.Writer, version uint16) *Writer {
	if w == nil {
		panic(ArgumentNull("w"))
	}
	if version != 9 && version != 10 {
		panic(ArgumentRange("version", version))
	}
	return &Writer{w: w, version: version}
}

// BeginPacket starts a new packet with the given export time, sequence
// number, and observation domain id / source id. Must be called before any
// WriteTemplateSet/WriteOptionsTemplateSet/WriteV9TemplateSet/
// WriteV9OptionsTemplateSet/WriteDataSet call, and after the
// previous packet (if any) has been finished with Flush.
func (wr *Writer) BeginPacket(exportTime, sequenceNumber, observationDomainID uint32) {
	if wr.state == writerClosed {
		panic(UseAfterClose())
	}
	if wr.state == writerExpectSets {
		panic(StateViolation("ExpectSets", "BeginPacket"))
	}
	if wr.version == 9 {
		wr.v9 = V9PacketHeader{
			Version:        9,
			UnixSecs:       exportTime,
			SequenceNumber: sequenceNumber,
			SourceID:       observationDomainID,
		}
	} else {
		wr.ipfix = PacketHeader{
			Version:             wr.version,
			ExportTime:          exportTime,
			SequenceNumber:      sequenceNumber,
			ObservationDomainID: observationDomainID,
		}
	}
	wr.setCount = 0
	wr.body.Reset()
	wr.state = writerExpectSets
}

// WithV9Uptime sets the SysUptimeMillis field of the v9 header currently
// being built. Panics with ArgumentMismatch on an IPFIX Writer, which has
// no such field.
func (wr *Writer) WithV9Uptime(sysUptimeMillis uint32) {
	wr.mustBeWritingSets("WithV9Uptime")
	if wr.version != 9 {
		panic(ArgumentMismatch("v9 writer", "IPFIX writer"))
	}
	wr.v9.SysUptimeMillis = sysUptimeMillis
}

func (wr *Writer) mustBeWritingSets(op string) {
	if wr.state == writerClosed {
		panic(UseAfterClose())
	}
	if wr.state != writerExpectSets {
		panic(StateViolation("ExpectHeader", op))
	}
}

// WriteTemplateSet writes an IPFIX template set containing the given
// templates. It panics with ArgumentMismatch on a v9 Writer, which uses
// WriteV9TemplateSet instead.
func (wr *Writer) WriteTemplateSet(templates ...*Template) error {
	wr.mustBeWritingSets("WriteTemplateSet")
	if wr.version != 10 {
		panic(ArgumentMismatch("IPFIX writer", "v9 writer"))
	}
	return wr.writeSet(SetIDTemplate, func(buf *bytes.Buffer) error {
		for _, t := range templates {
			if _, err := t.Encode(buf); err != nil {
				return err
			}
		}
		return nil
	})
}

func (wr *Writer) WriteV9TemplateSet(templates ...*V9Template) error {
	wr.mustBeWritingSets("WriteV9TemplateSet")
	if wr.version != 9 {
		panic(ArgumentMismatch("v9 writer", "IPFIX writer"))
	}
	return wr.writeSet(SetIDTemplate, func(buf *bytes.Buffer) error {
		for _, t := range templates {
			if _, err := t.Encode(buf); err != nil {
				return err
			}
		}
		return nil
	})
}

func (wr *Writer) WriteOptionsTemplateSet(templates ...*OptionsTemplate) error {
	wr.mustBeWritingSets("WriteOptionsTemplateSet")
	if wr.version != 10 {
		panic(ArgumentMismatch("IPFIX writer", "v9 writer"))
	}
	return wr.writeSet(SetIDOptionsTemplate, func(buf *bytes.Buffer) error {
		for _, t := range templates {
			if _, err := t.Encode(buf); err != nil {
				return err
			}
		}
		return nil
	})
}

func (wr *Writer) WriteV9OptionsTemplateSet(templates ...*V9OptionsTemplate) error {
	wr.mustBeWritingSets("WriteV9OptionsTemplateSet")
	if wr.version != 9 {
		panic(ArgumentMismatch("v9 writer", "IPFIX writer"))
	}
	return wr.writeSet(SetIDOptionsTemplate, func(buf *bytes.Buffer) error {
		for _, t := range templates {
			if _, err := t.Encode(buf); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteDataSet writes a data set of records conforming to templateID,
// encoding each record's values in field order and padding the set to a
// 32-bit boundary.
func (wr *Writer) WriteDataSet(templateID uint16, records ...Record) error {
	wr.mustBeWritingSets("WriteDataSet")
	if templateID < SetIDMinData {
		panic(ArgumentRange("templateID", templateID))
	}
	return wr.writeSet(templateID, func(buf *bytes.Buffer) error {
		for _, rec := range records {
			if _, err := EncodeIPFIXRecord(buf, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (wr *Writer) writeSet(setID uint16, encodeBody func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := encodeBody(&buf); err != nil {
		return err
	}
	if _, err := writePadding(&buf, buf.Len()); err != nil {
		return err
	}
	sh := SetHeader{ID: setID, Length: uint16(buf.Len() + 4)}
	if _, err := sh.Encode(&wr.body); err != nil {
		return err
	}
	if _, err := wr.body.Write(buf.Bytes()); err != nil {
		return err
	}
	wr.setCount++
	return nil
}

// Flush finalizes and writes the current packet's header and accumulated
// sets to the underlying writer, and returns to ExpectHeader. For an IPFIX
// Writer this computes Length from the accumulated body; for a v9 Writer
// it instead sets Count to the number of sets written, since v9 has no
// total-length field.
func (wr *Writer) Flush() (int, error) {
	wr.mustBeWritingSets("Flush")
	var n int
	var err error
	if wr.version == 9 {
		wr.v9.Count = uint16(wr.setCount)
		n, err = wr.v9.Encode(wr.w)
	} else {
		wr.ipfix.Length = uint16(16 + wr.body.Len())
		n, err = wr.ipfix.Encode(wr.w)
	}
	if err != nil {
		return n, err
	}
	m, err := wr.w.Write(wr.body.Bytes())
	n += m
	wr.state = writerExpectHeader
	return n, err
}

// Close releases the Writer. Further calls panic with UseAfterClose.
func (wr *Writer) Close() error {
	wr.state = writerClosed
	return nil
}
