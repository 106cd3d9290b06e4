// Package service combines timestamp resolution with array decoding.
//
// Spectrum answers the four spectrum query modes and returns decoded records;
// Velocity lists a channel's newest waveforms. Both accept a zap logger and
// optional Prometheus counters through Option values.
package service
