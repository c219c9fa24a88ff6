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
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// This file is component C for IPFIX: a static registry mapping
// InformationElement identifiers to their family (the signedness/shape of
// their canonical IANA data type) and canonical byte length. CandidateKind
// resolves a (family, on-wire length) pair to the unique Kind a field of
// that length must decode as, which is how reduced-length encoding of an
// otherwise wider canonical type (e.g. a 4-byte packetDeltaCount, whose
// canonical type is unsigned64) is supported without reflection or a
// dozen-type interface hierarchy.

// ElementFamily classifies an information element's canonical IANA data
// type into the shape CandidateKind needs to pick a decode Kind.
type ElementFamily uint8

const (
	FamilyUnsignedInt ElementFamily = iota
	FamilySignedInt
	FamilyFloat
	FamilyIPv4
	FamilyIPv6
	FamilyBytes
	FamilyString
)

// IPFIXElement is one row of the information element registry.
type IPFIXElement struct {
	ID              uint16
	Name            string
	Family          ElementFamily
	CanonicalLength uint16
}

var (
	//go:embed hack/ipfix-information-elements.csv
	ipfixElementsCSV embed.FS

	ipfixElements = mustLoadIPFIXElements()
)

func mustLoadIPFIXElements() map[uint16]IPFIXElement {
	b, err := ipfixElementsCSV.ReadFile("hack/ipfix-information-elements.csv")
	if err != nil {
		panic(err)
	}
	m, err := parseIPFIXElementsCSV(bytes.NewReader(b))
	if err != nil {
		panic(err)
	}
	return m
}

func parseIPFIXElementsCSV(r io.Reader) (map[uint16]IPFIXElement, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make(map[uint16]IPFIXElement, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "id" {
			continue // header
		}
		if len(row) != 4 {
			return nil, fmt.Errorf("netflow: malformed information element row %v", row)
		}
		id, err := strconv.ParseUint(row[0], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("netflow: information element id %q: %w", row[0], err)
		}
		fam, err := parseElementFamily(row[2])
		if err != nil {
			return nil, err
		}
		length, err := strconv.ParseUint(row[3], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("netflow: information element length %q: %w", row[3], err)
		}
		out[uint16(id)] = IPFIXElement{
			ID:              uint16(id),
			Name:            row[1],
			Family:          fam,
			CanonicalLength: uint16(length),
		}
	}
	return out, nil
}

func parseElementFamily(s string) (ElementFamily, error) {
	switch s {
	case "uint":
		return FamilyUnsignedInt, nil
	case "int":
		return FamilySignedInt, nil
	case "float":
		return FamilyFloat, nil
	case "ipv4":
		return FamilyIPv4, nil
	case "ipv6":
		return FamilyIPv6, nil
	case "bytes":
		return FamilyBytes, nil
	case "string":
		return FamilyString, nil
	default:
		return 0, fmt.Errorf("netflow: unknown information element family %q", s)
	}
}

// LookupIPFIXElement returns the registered element for id, if any.
func LookupIPFIXElement(id uint16) (IPFIXElement, bool) {
	e, ok := ipfixElements[id]
	return e, ok
}

// CandidateKind resolves the Kind a field of the given family and on-wire
// length must decode as. IP address families always resolve regardless of
// length (the reader always constructs an address value from the raw
// bytes); byte-string and UTF-8-string families always
// resolve to their single Kind since any length is valid for them;
// unsigned/signed integer and float families resolve to the one Kind whose
// Len() matches length, or ok=false if no such Kind exists, signalling the
// caller to fall back to a raw-bytes value.
func CandidateKind(family ElementFamily, length uint16) (Kind, bool) {
	switch family {
	case FamilyIPv4:
		return KindIPv4, true
	case FamilyIPv6:
		return KindIPv6, true
	case FamilyBytes:
		return KindBytes, true
	case FamilyString:
		return KindString, true
	case FamilyUnsignedInt:
		switch length {
		case 1:
			return KindUint8, true
		case 2:
			return KindUint16, true
		case 4:
			return KindUint32, true
		case 8:
			return KindUint64, true
		default:
			return 0, false
		}
	case FamilySignedInt:
		switch length {
		case 1:
			return KindInt8, true
		case 2:
			return KindInt16, true
		case 4:
			return KindInt32, true
		case 8:
			return KindInt64, true
		default:
			return 0, false
		}
	case FamilyFloat:
		switch length {
		case 4:
			return KindFloat32, true
		case 8:
			return KindFloat64, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}
