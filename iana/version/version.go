package version

import (
	"errors"
)

type ProtocolVersion uint16

var (
	ErrUnknownProtocolVersion = errors.New("unknown protocol version")
)

const (
	Unknown ProtocolVersion = 0

	V5 ProtocolVersion = 5
	V9 ProtocolVersion = 9

	IPFIX ProtocolVersion = 10
)

func (p ProtocolVersion) String() string {
	switch p {
	case V5:
		return "NetFlowV5"
	case V9:
		return "NetFlowV9"
	case IPFIX:
		return "IPFIX"
	default:
		return "Unknown"
	}
}

func (p ProtocolVersion) MarshalText() ([]byte, error) {
	s := p.String()
	if s == "Unknown" {
		return nil, ErrUnknownProtocolVersion
	}
	b := []byte(s)
	return b, nil
}

func (p *ProtocolVersion) UnmarshalText(in []byte) error {
	s := string(in)

	switch s {
	case "NetFlowV5", "netflowv5", "v5":
		*p = V5
	case "NetFlowV9", "netflowv9", "v9":
		*p = V9
	case "IPFIX", "ipfix", "v10":
		*p = IPFIX
	default:
		return ErrUnknownProtocolVersion
	}
	return nil
}
