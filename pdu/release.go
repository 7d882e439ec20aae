package pdu

import "github.com/suyashkumar/dicom/pkg/dicomio"

// ReleaseRQ is the A-RELEASE-RQ PDU (PS3.8 9.3.6): a 4-byte reserved field
// and nothing else.
type ReleaseRQ struct{}

func (p *ReleaseRQ) PDUType() Type { return TypeReleaseRQ }

func (p *ReleaseRQ) writePayload(w *dicomio.Writer) error {
	return w.WriteZeros(4)
}

func (p *ReleaseRQ) String() string { return "A-RELEASE-RQ{}" }

func readReleaseRQ(r *dicomio.Reader) (*ReleaseRQ, error) {
	if err := r.Skip(4); err != nil {
		return nil, err
	}
	return &ReleaseRQ{}, nil
}

// ReleaseRP is the A-RELEASE-RP PDU (PS3.8 9.3.7): a 4-byte reserved field
// and nothing else.
type ReleaseRP struct{}

func (p *ReleaseRP) PDUType() Type { return TypeReleaseRP }

func (p *ReleaseRP) writePayload(w *dicomio.Writer) error {
	return w.WriteZeros(4)
}

func (p *ReleaseRP) String() string { return "A-RELEASE-RP{}" }

func readReleaseRP(r *dicomio.Reader) (*ReleaseRP, error) {
	if err := r.Skip(4); err != nil {
		return nil, err
	}
	return &ReleaseRP{}, nil
}
