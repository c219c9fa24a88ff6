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

/*
Package netflow implements a bidirectional codec for NetFlow v5, NetFlow v9,
and IPFIX (NetFlow v10) traffic-flow export records.

# Overview

Three wire formats are unified under one package:

  - NetFlow v5: a fixed-format Cisco protocol, 24-byte header plus up to 30
    fixed 48-byte flow records per packet. No templates.
  - NetFlow v9 (RFC 3954): template-driven, framed by a FlowSet count rather
    than a total packet length.
  - IPFIX (RFC 7011): template-driven, framed by an explicit total packet
    length.

v9 and IPFIX share a Reader/Writer pair (NewReader/NewWriter) that decode
templates into a per-observation-domain TemplateRegistry and use them to
interpret subsequent data sets. v5 has no templates, so it has its own
V5Reader/V5Writer operating on the fixed-format V5Packet/V5Record types.

# Data structures

A v9/IPFIX packet is a header followed by a sequence of sets, each either a
TemplateSet, an OptionsTemplateSet, or a DataSet. Each set contains one or
more records; each record's fields are decoded against the Information
Element (IPFIX) or FieldType (v9) registry entries named by the template the
data set's id refers to, falling back to a raw byte string when the
element or the declared field width isn't recognized.

Decoded field values are represented as a DataValue, a small tagged union
over the scalar widths, IP addresses, and byte strings the wire format can
carry — deliberately simpler than implementing the full IPFIX Information
Element type catalogue as distinct Go types, since variable-length fields
and structured data types (RFC 6313 lists) are outside this package's scope.

# Templates and state

Template management is stateful: a Reader maintains a TemplateRegistry keyed
by observation domain id (IPFIX) or source id (v9), then by template id.
Templates do not persist across process restarts on their own; callers that
need that can serialize a registry with DumpTemplatesYAML and restore it
later with LoadTemplatesYAML, or construct a Reader with
WithTemplateRegistry against a registry seeded out of band.

# Errors

Reader/Writer methods distinguish three error tiers: programmer errors
(calling a method out of sequence, or after Close) panic; end-of-stream
conditions propagate io.EOF verbatim; and per-packet recoverable
conditions (a malformed set, a data set referencing an unknown template)
are returned as an error from ReadSet without disabling the Reader for
subsequent calls.
*/
package netflow
