// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

// Package transportmock provides gomock-style mocks of fec.TransportContext
// and fec.RetransmitQueue, hand-written in the shape go.uber.org/mock/mockgen
// would generate (the same Controller/EXPECT()/Call pattern the
// coding-for-quic-go example pack uses for its MockStreamSender in
// send_fec_stream_test.go), since this exercise never invokes the Go
// toolchain and so can't run mockgen itself.
package transportmock

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/nexthop-labs/tcpfec"
)

// MockTransportContext is a mock of fec.TransportContext.
type MockTransportContext struct {
	ctrl     *gomock.Controller
	recorder *MockTransportContextMockRecorder
}

// MockTransportContextMockRecorder is the EXPECT() recorder for MockTransportContext.
type MockTransportContextMockRecorder struct {
	mock *MockTransportContext
}

// NewMockTransportContext returns a new mock controlled by ctrl.
func NewMockTransportContext(ctrl *gomock.Controller) *MockTransportContext {
	m := &MockTransportContext{ctrl: ctrl}
	m.recorder = &MockTransportContextMockRecorder{mock: m}
	return m
}

// EXPECT returns the recorder used to set up call expectations.
func (m *MockTransportContext) EXPECT() *MockTransportContextMockRecorder {
	return m.recorder
}

func (m *MockTransportContext) RcvNext() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RcvNext")
	return ret[0].(uint32)
}

func (mr *MockTransportContextMockRecorder) RcvNext() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RcvNext", reflect.TypeOf((*MockTransportContext)(nil).RcvNext))
}

func (m *MockTransportContext) OutOfOrder() fec.OOOQueue {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OutOfOrder")
	return ret[0].(fec.OOOQueue)
}

func (mr *MockTransportContextMockRecorder) OutOfOrder() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OutOfOrder", reflect.TypeOf((*MockTransportContext)(nil).OutOfOrder))
}

func (m *MockTransportContext) SACKBlocks() []fec.SACKBlock {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SACKBlocks")
	return ret[0].([]fec.SACKBlock)
}

func (mr *MockTransportContextMockRecorder) SACKBlocks() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SACKBlocks", reflect.TypeOf((*MockTransportContext)(nil).SACKBlocks))
}

func (m *MockTransportContext) Retransmit() fec.RetransmitQueue {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Retransmit")
	return ret[0].(fec.RetransmitQueue)
}

func (mr *MockTransportContextMockRecorder) Retransmit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Retransmit", reflect.TypeOf((*MockTransportContext)(nil).Retransmit))
}

func (m *MockTransportContext) SSThresh() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SSThresh")
	return ret[0].(uint32)
}

func (mr *MockTransportContextMockRecorder) SSThresh() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SSThresh", reflect.TypeOf((*MockTransportContext)(nil).SSThresh))
}

func (m *MockTransportContext) Cwnd() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Cwnd")
	return ret[0].(uint32)
}

func (mr *MockTransportContextMockRecorder) Cwnd() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Cwnd", reflect.TypeOf((*MockTransportContext)(nil).Cwnd))
}

func (m *MockTransportContext) SetCwnd(cwnd uint32) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetCwnd", cwnd)
}

func (mr *MockTransportContextMockRecorder) SetCwnd(cwnd any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetCwnd", reflect.TypeOf((*MockTransportContext)(nil).SetCwnd), cwnd)
}

func (m *MockTransportContext) SndNext() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SndNext")
	return ret[0].(uint32)
}

func (mr *MockTransportContextMockRecorder) SndNext() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SndNext", reflect.TypeOf((*MockTransportContext)(nil).SndNext))
}

func (m *MockTransportContext) HighSeq() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HighSeq")
	return ret[0].(uint32)
}

func (mr *MockTransportContextMockRecorder) HighSeq() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HighSeq", reflect.TypeOf((*MockTransportContext)(nil).HighSeq))
}

func (m *MockTransportContext) SetHighSeq(seq uint32) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetHighSeq", seq)
}

func (mr *MockTransportContextMockRecorder) SetHighSeq(seq any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetHighSeq", reflect.TypeOf((*MockTransportContext)(nil).SetHighSeq), seq)
}

func (m *MockTransportContext) InCongestionRecovery() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InCongestionRecovery")
	return ret[0].(bool)
}

func (mr *MockTransportContextMockRecorder) InCongestionRecovery() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InCongestionRecovery", reflect.TypeOf((*MockTransportContext)(nil).InCongestionRecovery))
}

func (m *MockTransportContext) DisableUndo() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DisableUndo")
}

func (mr *MockTransportContextMockRecorder) DisableUndo() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DisableUndo", reflect.TypeOf((*MockTransportContext)(nil).DisableUndo))
}

func (m *MockTransportContext) CloneForSynthesis(parity fec.Segment) fec.Segment {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CloneForSynthesis", parity)
	return ret[0].(fec.Segment)
}

func (mr *MockTransportContextMockRecorder) CloneForSynthesis(parity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CloneForSynthesis", reflect.TypeOf((*MockTransportContext)(nil).CloneForSynthesis), parity)
}

func (m *MockTransportContext) SubmitInOrder(seg fec.Segment) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SubmitInOrder", seg)
}

func (mr *MockTransportContextMockRecorder) SubmitInOrder(seg any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SubmitInOrder", reflect.TypeOf((*MockTransportContext)(nil).SubmitInOrder), seg)
}

func (m *MockTransportContext) RequestImmediateACK() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "RequestImmediateACK")
}

func (mr *MockTransportContextMockRecorder) RequestImmediateACK() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RequestImmediateACK", reflect.TypeOf((*MockTransportContext)(nil).RequestImmediateACK))
}

// MockRetransmitQueue is a mock of fec.RetransmitQueue.
type MockRetransmitQueue struct {
	ctrl     *gomock.Controller
	recorder *MockRetransmitQueueMockRecorder
}

// MockRetransmitQueueMockRecorder is the EXPECT() recorder for MockRetransmitQueue.
type MockRetransmitQueueMockRecorder struct {
	mock *MockRetransmitQueue
}

// NewMockRetransmitQueue returns a new mock controlled by ctrl.
func NewMockRetransmitQueue(ctrl *gomock.Controller) *MockRetransmitQueue {
	m := &MockRetransmitQueue{ctrl: ctrl}
	m.recorder = &MockRetransmitQueueMockRecorder{mock: m}
	return m
}

// EXPECT returns the recorder used to set up call expectations.
func (m *MockRetransmitQueue) EXPECT() *MockRetransmitQueueMockRecorder {
	return m.recorder
}

func (m *MockRetransmitQueue) MarkLost(seq, length uint32) int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkLost", seq, length)
	return ret[0].(int)
}

func (mr *MockRetransmitQueueMockRecorder) MarkLost(seq, length any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkLost", reflect.TypeOf((*MockRetransmitQueue)(nil).MarkLost), seq, length)
}

func (m *MockRetransmitQueue) SetRetransmitHint(seq uint32) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetRetransmitHint", seq)
}

func (mr *MockRetransmitQueueMockRecorder) SetRetransmitHint(seq any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetRetransmitHint", reflect.TypeOf((*MockRetransmitQueue)(nil).SetRetransmitHint), seq)
}

func (m *MockRetransmitQueue) RaiseRetransmitHigh(seq uint32) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "RaiseRetransmitHigh", seq)
}

func (mr *MockRetransmitQueueMockRecorder) RaiseRetransmitHigh(seq any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RaiseRetransmitHigh", reflect.TypeOf((*MockRetransmitQueue)(nil).RaiseRetransmitHigh), seq)
}
