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
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-logr/logr"
)

// This file is component F: the reader state machine. A Reader walks
// ExpectHeader -> ExpectSets(remaining) -> ExpectHeader across however many
// packets the underlying stream holds, generalized to a streaming io.Reader
// shared across packets and to both v9 and IPFIX. Tier 1 violations of this
// alternation (calling ReadSet before
// ReadHeader, or after Close) panic via StateViolation/UseAfterClose; tier 2
// stream errors (io.EOF and friends) are returned verbatim; tier 3
// recoverable errors (FormatError, MissingTemplate) are returned to the
// caller without disturbing the Reader's ability to continue on the next
// ReadSet/ReadHeader call.

type readerState int

const (
	readerExpectHeader readerState = iota
	readerExpectSets
	readerClosed
)

// DecodedSet is the tagged-union result of reading one set: exactly one of
// Templates, OptionsTemplates, or Data is populated, selected by Kind.
type DecodedSet struct {
	Header             SetHeader
	Kind               string
	Templates          []*Template
	OptionsTemplates   []*OptionsTemplate
	V9Templates        []*V9Template
	V9OptionsTemplates []*V9OptionsTemplate
	Data               *DataSet
}

// ReaderOption configures a Reader at construction.
type ReaderOption func(*Reader)

// WithTemplateRegistry supplies the registry a Reader consults for data
// set templates and populates from template/options-template sets. If
// omitted, NewReader allocates a fresh, empty one.
func WithTemplateRegistry(reg *TemplateRegistry) ReaderOption {
	return func(r *Reader) { r.registry = reg }
}

// WithVersion restricts the Reader to a single expected wire version (9 or
// 10); packets declaring any other version fail with UnknownVersion. The
// zero value accepts either.
func WithVersion(version uint16) ReaderOption {
	return func(r *Reader) { r.wantVersion = version }
}

// Reader decodes a stream of NetFlow v9 or IPFIX packets. NetFlow v9 and
// IPFIX frame a packet differently — IPFIX declares a total packet length
// up front, v9 instead declares a count of FlowSets and leaves the reader
// to count them down — so the Reader tracks whichever framing the current
// packet's version uses instead of unifying them into one counter.
type Reader struct {
	r           *bufio.Reader
	registry    *TemplateRegistry
	wantVersion uint16
	logger      logr.Logger

	state  readerState
	ver    uint16
	domain uint32
	ipfix  PacketHeader
	v9     V9PacketHeader

	remaining     int // IPFIX: bytes left in the current packet
	remainingSets int // v9: FlowSets left in the current packet
}

func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	if r == nil {
		panic(ArgumentNull("r"))
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	rd := &Reader{
		r:        br,
		registry: NewTemplateRegistry(),
		logger:   Log.WithName("reader"),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

func (rd *Reader) Registry() *TemplateRegistry { return rd.registry }

// V9Header returns the most recently read packet's raw v9 header (Count,
// SysUptimeMillis, SourceID). Only meaningful immediately after a
// ReadHeader call that decoded a v9 packet; the PacketHeader ReadHeader
// itself returns omits v9-only fields like SysUptimeMillis and synthesizes
// Length as 0 since v9 has no such field.
func (rd *Reader) V9Header() V9PacketHeader { return rd.v9 }

// ReadHeader reads the next packet header from the stream, detecting
// whether it is a NetFlow v9 or IPFIX header by peeking the version field.
// It must be called before the first ReadSet of each packet, and after the
// previous packet's sets have all been consumed (ReadSet returning io.EOF).
func (rd *Reader) ReadHeader() (*PacketHeader, error) {
	if rd.state == readerClosed {
		panic(UseAfterClose())
	}
	if rd.state == readerExpectSets {
		panic(StateViolation("ExpectSets", "ReadHeader"))
	}
	start := time.Now()

	peeked, err := rd.r.Peek(2)
	if err != nil {
		if err != io.EOF {
			ErrorsTotal.WithLabelValues("unknown").Inc()
		}
		return nil, err
	}
	ver := uint16(peeked[0])<<8 | uint16(peeked[1])
	if rd.wantVersion != 0 && ver != rd.wantVersion {
		return nil, UnknownVersion(ver)
	}

	version := strconv.Itoa(int(ver))
	switch ver {
	case 10:
		n, derr := rd.ipfix.Decode(rd.r, 0)
		if derr != nil {
			ErrorsTotal.WithLabelValues(version).Inc()
			return nil, derr
		}
		rd.remaining = int(rd.ipfix.Length) - n
		if rd.remaining < 0 {
			return nil, FormatError(fmt.Sprintf("packet length %d shorter than header", rd.ipfix.Length))
		}
		rd.ver = 10
		rd.domain = rd.ipfix.ObservationDomainID
	case 9:
		_, derr := rd.v9.Decode(rd.r)
		if derr != nil {
			ErrorsTotal.WithLabelValues(version).Inc()
			return nil, derr
		}
		rd.remainingSets = int(rd.v9.Count)
		rd.ver = 9
		rd.domain = rd.v9.SourceID
		rd.ipfix = PacketHeader{
			Version:             9,
			ExportTime:          rd.v9.UnixSecs,
			SequenceNumber:      rd.v9.SequenceNumber,
			ObservationDomainID: rd.v9.SourceID,
		}
	default:
		ErrorsTotal.WithLabelValues(version).Inc()
		return nil, UnknownVersion(ver)
	}

	PacketsTotal.WithLabelValues(version).Inc()
	DecodeDurationMicroseconds.WithLabelValues(version).Observe(float64(time.Since(start).Microseconds()))
	rd.state = readerExpectSets
	h := rd.ipfix
	return &h, nil
}

// ReadSet reads the next set of the current packet. It returns io.EOF once
// the packet's declared length (IPFIX) or FlowSet count (NetFlow v9) has
// been consumed, at which point the
// Reader transitions back to expecting a header. A tier-3 recoverable
// error (FormatError, MissingTemplate) is returned with the set skipped;
// the Reader remains usable for the next ReadSet call.
func (rd *Reader) ReadSet() (*DecodedSet, error) {
	if rd.state == readerClosed {
		panic(UseAfterClose())
	}
	if rd.state != readerExpectSets {
		panic(StateViolation("ExpectHeader", "ReadSet"))
	}
	version := strconv.Itoa(int(rd.ver))

	if rd.ver == 9 {
		if rd.remainingSets <= 0 {
			rd.state = readerExpectHeader
			return nil, io.EOF
		}
	} else if rd.remaining <= 0 {
		rd.state = readerExpectHeader
		return nil, io.EOF
	}

	var sh SetHeader
	n, err := sh.Decode(rd.r)
	rd.remaining -= n
	if err != nil {
		return nil, err
	}
	if int(sh.Length) < 4 {
		rd.remaining -= int(sh.Length)
		if rd.ver == 9 {
			rd.remainingSets--
		}
		return nil, FormatError(fmt.Sprintf("set %d: length %d shorter than set header", sh.ID, sh.Length))
	}
	bodyLen := int(sh.Length) - 4
	body := io.LimitReader(rd.r, int64(bodyLen))
	defer drain(body)

	rd.remaining -= bodyLen
	if rd.ver == 9 {
		rd.remainingSets--
	}

	ds := &DecodedSet{Header: sh}
	switch {
	case sh.ID == SetIDTemplate:
		ds.Kind = KindTemplateSet
		if rd.ver == 9 {
			ds.V9Templates, err = rd.readV9Templates(body)
		} else {
			ds.Templates, err = rd.readTemplates(body)
		}
	case sh.ID == SetIDOptionsTemplate:
		ds.Kind = KindOptionsTemplateSet
		if rd.ver == 9 {
			ds.V9OptionsTemplates, err = rd.readV9OptionsTemplates(body)
		} else {
			ds.OptionsTemplates, err = rd.readOptionsTemplates(body)
		}
	case sh.ID >= SetIDMinData:
		ds.Kind = KindDataSet
		ds.Data, err = rd.readDataSet(body, sh.ID, bodyLen)
	default:
		err = UnknownSetID(sh.ID)
	}

	if err != nil {
		RecoverableErrorsTotal.WithLabelValues(version, recoverableReason(err)).Inc()
		return ds, err
	}
	SetsTotal.WithLabelValues(version, ds.Kind).Inc()
	return ds, nil
}

func recoverableReason(err error) string {
	switch {
	case isFormatError(err):
		return "format-error"
	case isMissingTemplate(err):
		return "missing-template"
	default:
		return "other"
	}
}

func (rd *Reader) readTemplates(r io.Reader) ([]*Template, error) {
	var out []*Template
	for {
		t, _, err := DecodeTemplate(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		rd.registry.PutTemplate(rd.domain, t)
		out = append(out, t)
		RecordsTotal.WithLabelValues("10", KindTemplateSet).Inc()
	}
	return out, nil
}

func (rd *Reader) readV9Templates(r io.Reader) ([]*V9Template, error) {
	var out []*V9Template
	for {
		t, _, err := DecodeV9Template(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		rd.registry.PutV9Template(rd.domain, t)
		out = append(out, t)
		RecordsTotal.WithLabelValues("9", KindTemplateSet).Inc()
	}
	return out, nil
}

func (rd *Reader) readOptionsTemplates(r io.Reader) ([]*OptionsTemplate, error) {
	var out []*OptionsTemplate
	for {
		t, n, err := DecodeOptionsTemplate(r)
		if err == io.EOF || (err == io.ErrUnexpectedEOF && n < setAlignment) {
			break
		}
		if err != nil {
			return out, err
		}
		rd.registry.PutOptionsTemplate(rd.domain, t)
		out = append(out, t)
		RecordsTotal.WithLabelValues("10", KindOptionsTemplateSet).Inc()
	}
	return out, nil
}

func (rd *Reader) readV9OptionsTemplates(r io.Reader) ([]*V9OptionsTemplate, error) {
	var out []*V9OptionsTemplate
	for {
		t, n, err := DecodeV9OptionsTemplate(r)
		if err == io.EOF || (err == io.ErrUnexpectedEOF && n < setAlignment) {
			break
		}
		if err != nil {
			return out, err
		}
		rd.registry.PutV9OptionsTemplate(rd.domain, t)
		out = append(out, t)
		RecordsTotal.WithLabelValues("9", KindOptionsTemplateSet).Inc()
	}
	return out, nil
}

// readDataSet decodes exactly as many fixed-length records as fit in
// bodyLen bytes; any remainder is the set's 32-bit-alignment padding
// (already drained by ReadSet's deferred drain(body)), never mistaken for
// another record.
func (rd *Reader) readDataSet(r io.Reader, setID uint16, bodyLen int) (*DataSet, error) {
	version := strconv.Itoa(int(rd.ver))
	ds := &DataSet{TemplateID: setID}

	if rd.ver == 9 {
		// A data set's id may name either an ordinary data template or an
		// options template; the first among data templates, then option
		// templates, is consulted, matching how v9/IPFIX don't otherwise
		// distinguish a DataSet's framing from an OptionsDataSet's.
		var fields []V9Field
		if tmpl, ok := rd.registry.V9Template(rd.domain, setID); ok {
			fields = tmpl.Fields
		} else if opt, ok := rd.registry.V9OptionsTemplate(rd.domain, setID); ok {
			fields = opt.Fields
		} else {
			return ds, TemplateNotFound(rd.domain, setID)
		}
		tmpl := &V9Template{TemplateID: setID, Fields: fields}
		recLen := tmpl.RecordLength()
		if recLen <= 0 {
			return ds, FormatError(fmt.Sprintf("v9 template %d has zero-length record", setID))
		}
		for i := 0; i < bodyLen/recLen; i++ {
			rec, _, err := DecodeV9Record(r, tmpl)
			if err != nil {
				return ds, err
			}
			ds.Records = append(ds.Records, rec)
			RecordsTotal.WithLabelValues(version, KindDataSet).Inc()
		}
		return ds, nil
	}

	var fields []FieldSpecifier
	if tmpl, ok := rd.registry.Template(rd.domain, setID); ok {
		fields = tmpl.Fields
	} else if opt, ok := rd.registry.OptionsTemplate(rd.domain, setID); ok {
		fields = opt.Fields
	} else {
		return ds, TemplateNotFound(rd.domain, setID)
	}
	tmpl := &Template{TemplateID: setID, Fields: fields}
	recLen := tmpl.RecordLength()
	if recLen <= 0 {
		return ds, FormatError(fmt.Sprintf("template %d has zero-length record", setID))
	}
	for i := 0; i < bodyLen/recLen; i++ {
		rec, _, err := DecodeIPFIXRecord(r, tmpl)
		if err != nil {
			return ds, err
		}
		ds.Records = append(ds.Records, rec)
		RecordsTotal.WithLabelValues(version, KindDataSet).Inc()
	}
	return ds, nil
}

// Close releases the Reader. Further calls to ReadHeader/ReadSet panic.
func (rd *Reader) Close() error {
	rd.state = readerClosed
	return nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, r)
}

func isFormatError(err error) bool {
	return errors.Is(err, ErrFormatError)
}

func isMissingTemplate(err error) bool {
	return errors.Is(err, ErrMissingTemplate)
}
