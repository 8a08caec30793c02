// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

// Package fec implements the receiver side of a forward-error-correction
// extension to a reliable, stream-oriented, TCP-compatible transport.
//
// The transport occasionally sends parity packets whose payload is the XOR
// of several recently transmitted data segments. When a data segment is
// lost, this package reconstructs it from the parity packet and the
// segments that did arrive, letting the receiver hand the recovered bytes
// to its upper layer without waiting a round trip for a retransmission.
//
// This package does not implement a transport. It is a sidecar invoked by
// one: the host transport owns the receive path, SACK/ACK generation,
// retransmission, congestion control, and segment allocation, and exposes
// the slices of that state this package needs through TransportContext.
package fec
