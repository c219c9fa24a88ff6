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

import "github.com/prometheus/client_golang/prometheus"

// Reader decodes both NetFlow v9 and IPFIX, so every series below carries
// a "version" label ("9", "10"; ErrorsTotal also uses "unknown" for a
// packet whose version is not recognised) alongside the set/record kind
// it's broken down by. V5Reader records no metrics.
var (
	PacketsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netflow_decoder_packets_total",
		Help: "Total number of packets decoded",
	}, []string{"version"})

	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netflow_decoder_errors_total",
		Help: "Total number of packet decode errors",
	}, []string{"version"})

	DecodeDurationMicroseconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "netflow_decoder_duration_microseconds",
		Help:    "Duration of a single packet decode in microseconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"version"})

	SetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netflow_decoder_sets_total",
		Help: "Total number of decoded sets per kind",
	}, []string{"version", "kind"})

	RecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netflow_decoder_records_total",
		Help: "Total number of decoded records per kind",
	}, []string{"version", "kind"})

	RecoverableErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netflow_decoder_recoverable_errors_total",
		Help: "Total number of tier-3 recoverable errors (format-error, missing-template) encountered while reading sets",
	}, []string{"version", "reason"})
)

func init() {
	prometheus.MustRegister(
		PacketsTotal,
		ErrorsTotal,
		DecodeDurationMicroseconds,
		SetsTotal,
		RecordsTotal,
		RecoverableErrorsTotal,
	)
}
