// Package dul implements the DICOM Upper Layer finite-state machine
// (PS3.8 9.2) and the Provider that drives it over a TCP connection: 13
// states, 19 events, and the sparse transition table between them.
package dul

import "fmt"

type stateType int

const (
	sta01 stateType = iota + 1
	sta02
	sta03
	sta04
	sta05
	sta06
	sta07
	sta08
	sta09
	sta10
	sta11
	sta12
	sta13
)

var stateDescriptions = map[stateType]string{
	sta01: "Idle",
	sta02: "Transport connection open (awaiting A-ASSOCIATE-RQ PDU)",
	sta03: "Awaiting local A-ASSOCIATE response primitive",
	sta04: "Awaiting transport connection opening to complete",
	sta05: "Awaiting A-ASSOCIATE-AC or A-ASSOCIATE-RJ PDU",
	sta06: "Association established, ready for data transfer",
	sta07: "Awaiting A-RELEASE-RP PDU",
	sta08: "Awaiting local A-RELEASE response primitive",
	sta09: "Release collision, requestor side: awaiting local A-RELEASE response",
	sta10: "Release collision, acceptor side: awaiting A-RELEASE-RP PDU",
	sta11: "Release collision, requestor side: awaiting A-RELEASE-RP PDU",
	sta12: "Release collision, acceptor side: awaiting local A-RELEASE response",
	sta13: "Awaiting transport connection close",
}

func (s stateType) String() string {
	desc, ok := stateDescriptions[s]
	if !ok {
		return fmt.Sprintf("sta%02d(unknown)", s)
	}
	return fmt.Sprintf("sta%02d(%s)", s, desc)
}
