package pdu

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// AbortReason enumerates why the Upper Layer Service Provider issued an
// A-ABORT of its own accord, as opposed to relaying a user-initiated abort
// (PS3.8 Table 9-26). It is meaningful only when Source is
// SourceServiceProviderACSE or SourceServiceProviderPresentation.
type AbortReason byte

const (
	AbortReasonNotSpecified             AbortReason = 0
	AbortReasonUnexpectedPDU            AbortReason = 2
	AbortReasonUnrecognizedPDUParameter AbortReason = 4
	AbortReasonUnexpectedPDUParameter   AbortReason = 5
	AbortReasonInvalidPDUParameterValue AbortReason = 6
)

// Abort is the A-ABORT PDU (PS3.8 9.3.8).
type Abort struct {
	Source RejectSource
	Reason AbortReason
}

func (p *Abort) PDUType() Type { return TypeAbort }

func (p *Abort) writePayload(w *dicomio.Writer) error {
	if err := w.WriteZeros(2); err != nil {
		return err
	}
	if err := w.WriteByte(byte(p.Source)); err != nil {
		return err
	}
	return w.WriteByte(byte(p.Reason))
}

func (p *Abort) String() string {
	return fmt.Sprintf("A-ABORT{source:%d reason:%d}", p.Source, p.Reason)
}

func readAbort(r *dicomio.Reader) (*Abort, error) {
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	source, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	reason, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reason: %w", err)
	}
	return &Abort{Source: RejectSource(source), Reason: AbortReason(reason)}, nil
}
