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

// This file is component C for NetFlow v9: Cisco's well-known FieldType
// registry (https://www.cisco.com/c/en/us/td/docs/net_mgmt/netflow_collection_engine/3.6/user/guide/format.html),
// expressed as a literal map rather than a CSV, because unlike the IPFIX
// IANA registry it's a fixed, closed, vendor-defined list that never grows
// via an external assignment authority. Same (family, canonical length)
// shape as IPFIXElement so CandidateKind serves both.

// V9Element is one entry of the NetFlow v9 field type registry.
type V9Element struct {
	Type            uint16
	Name            string
	Family          ElementFamily
	CanonicalLength uint16
}

var v9Elements = map[uint16]V9Element{
	1:   {1, "IN_BYTES", FamilyUnsignedInt, 4},
	2:   {2, "IN_PKTS", FamilyUnsignedInt, 4},
	3:   {3, "FLOWS", FamilyUnsignedInt, 4},
	4:   {4, "PROTOCOL", FamilyUnsignedInt, 1},
	5:   {5, "SRC_TOS", FamilyUnsignedInt, 1},
	6:   {6, "TCP_FLAGS", FamilyUnsignedInt, 1},
	7:   {7, "L4_SRC_PORT", FamilyUnsignedInt, 2},
	8:   {8, "IPV4_SRC_ADDR", FamilyIPv4, 4},
	9:   {9, "SRC_MASK", FamilyUnsignedInt, 1},
	10:  {10, "INPUT_SNMP", FamilyUnsignedInt, 2},
	11:  {11, "L4_DST_PORT", FamilyUnsignedInt, 2},
	12:  {12, "IPV4_DST_ADDR", FamilyIPv4, 4},
	13:  {13, "DST_MASK", FamilyUnsignedInt, 1},
	14:  {14, "OUTPUT_SNMP", FamilyUnsignedInt, 2},
	15:  {15, "IPV4_NEXT_HOP", FamilyIPv4, 4},
	16:  {16, "SRC_AS", FamilyUnsignedInt, 2},
	17:  {17, "DST_AS", FamilyUnsignedInt, 2},
	18:  {18, "BGP_IPV4_NEXT_HOP", FamilyIPv4, 4},
	19:  {19, "MUL_DST_PKTS", FamilyUnsignedInt, 4},
	20:  {20, "MUL_DST_BYTES", FamilyUnsignedInt, 4},
	21:  {21, "LAST_SWITCHED", FamilyUnsignedInt, 4},
	22:  {22, "FIRST_SWITCHED", FamilyUnsignedInt, 4},
	23:  {23, "OUT_BYTES", FamilyUnsignedInt, 4},
	24:  {24, "OUT_PKTS", FamilyUnsignedInt, 4},
	27:  {27, "IPV6_SRC_ADDR", FamilyIPv6, 16},
	28:  {28, "IPV6_DST_ADDR", FamilyIPv6, 16},
	29:  {29, "IPV6_SRC_MASK", FamilyUnsignedInt, 1},
	30:  {30, "IPV6_DST_MASK", FamilyUnsignedInt, 1},
	31:  {31, "IPV6_FLOW_LABEL", FamilyUnsignedInt, 3},
	32:  {32, "ICMP_TYPE", FamilyUnsignedInt, 2},
	33:  {33, "MUL_IGMP_TYPE", FamilyUnsignedInt, 1},
	34:  {34, "SAMPLING_INTERVAL", FamilyUnsignedInt, 4},
	35:  {35, "SAMPLING_ALGORITHM", FamilyUnsignedInt, 1},
	36:  {36, "FLOW_ACTIVE_TIMEOUT", FamilyUnsignedInt, 2},
	37:  {37, "FLOW_INACTIVE_TIMEOUT", FamilyUnsignedInt, 2},
	38:  {38, "ENGINE_TYPE", FamilyUnsignedInt, 1},
	39:  {39, "ENGINE_ID", FamilyUnsignedInt, 1},
	40:  {40, "TOTAL_BYTES_EXP", FamilyUnsignedInt, 4},
	41:  {41, "TOTAL_PKTS_EXP", FamilyUnsignedInt, 4},
	42:  {42, "TOTAL_FLOWS_EXP", FamilyUnsignedInt, 4},
	44:  {44, "IPV4_SRC_PREFIX", FamilyIPv4, 4},
	45:  {45, "IPV4_DST_PREFIX", FamilyIPv4, 4},
	46:  {46, "MPLS_TOP_LABEL_TYPE", FamilyUnsignedInt, 1},
	47:  {47, "MPLS_TOP_LABEL_IP_ADDR", FamilyIPv4, 4},
	48:  {48, "FLOW_SAMPLER_ID", FamilyUnsignedInt, 1},
	49:  {49, "FLOW_SAMPLER_MODE", FamilyUnsignedInt, 1},
	50:  {50, "FLOW_SAMPLER_RANDOM_INTERVAL", FamilyUnsignedInt, 4},
	52:  {52, "MIN_TTL", FamilyUnsignedInt, 1},
	53:  {53, "MAX_TTL", FamilyUnsignedInt, 1},
	54:  {54, "IPV4_IDENT", FamilyUnsignedInt, 2},
	55:  {55, "DST_TOS", FamilyUnsignedInt, 1},
	56:  {56, "IN_SRC_MAC", FamilyBytes, 6},
	57:  {57, "OUT_DST_MAC", FamilyBytes, 6},
	58:  {58, "SRC_VLAN", FamilyUnsignedInt, 2},
	59:  {59, "DST_VLAN", FamilyUnsignedInt, 2},
	60:  {60, "IP_PROTOCOL_VERSION", FamilyUnsignedInt, 1},
	61:  {61, "DIRECTION", FamilyUnsignedInt, 1},
	62:  {62, "IPV6_NEXT_HOP", FamilyIPv6, 16},
	63:  {63, "BGP_IPV6_NEXT_HOP", FamilyIPv6, 16},
	64:  {64, "IPV6_OPTION_HEADERS", FamilyUnsignedInt, 4},
	70:  {70, "MPLS_LABEL_1", FamilyBytes, 3},
	71:  {71, "MPLS_LABEL_2", FamilyBytes, 3},
	72:  {72, "MPLS_LABEL_3", FamilyBytes, 3},
	80:  {80, "IN_DST_MAC", FamilyBytes, 6},
	81:  {81, "OUT_SRC_MAC", FamilyBytes, 6},
	82:  {82, "IF_NAME", FamilyString, 0},
	83:  {83, "IF_DESC", FamilyString, 0},
	88:  {88, "FRAGMENT_OFFSET", FamilyUnsignedInt, 2},
	89:  {89, "FORWARDING_STATUS", FamilyUnsignedInt, 1},
	130: {130, "EXPORTER_IPV4_ADDRESS", FamilyIPv4, 4},
	131: {131, "EXPORTER_IPV6_ADDRESS", FamilyIPv6, 16},
}

// LookupV9Element returns the registered Cisco field type for fieldType, if
// any.
func LookupV9Element(fieldType uint16) (V9Element, bool) {
	e, ok := v9Elements[fieldType]
	return e, ok
}
