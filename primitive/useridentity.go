package primitive

import "github.com/meridianhealth/dicomul/pdu/pduitem"

// UserIdentityRequest is the optional user identity assertion carried on an
// A-ASSOCIATE request (PS3.7 Annex D.3.3.7).
type UserIdentityRequest struct {
	Type                      pduitem.IDType
	PositiveResponseRequested bool
	PrimaryField              []byte
	SecondaryField            []byte
}

// UserIdentityAccept is the acceptor's optional server response to a
// UserIdentityRequest that set PositiveResponseRequested.
type UserIdentityAccept struct {
	ServerResponse []byte
}
