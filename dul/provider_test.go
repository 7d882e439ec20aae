package dul_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/dicomul/dul"
	"github.com/meridianhealth/dicomul/pdu/pduitem"
	"github.com/meridianhealth/dicomul/presentation"
	"github.com/meridianhealth/dicomul/primitive"
	"github.com/meridianhealth/dicomul/uid"
)

func testProviderParams() dul.ServiceProviderParams {
	return dul.ServiceProviderParams{
		SupportedContexts: []presentation.SupportedContext{
			{
				AbstractSyntax:   uid.VerificationSOPClass,
				TransferSyntaxes: []uid.UID{uid.ImplicitVRLittleEndian, uid.ExplicitVRLittleEndian},
			},
		},
		ImplementationClassUID: "1.2.999.1",
		ARTIMTimeout:           2 * time.Second,
	}
}

func testUserParams() dul.ServiceUserParams {
	return dul.ServiceUserParams{
		CalledAETitle:  "ACCEPTOR",
		CallingAETitle: "REQUESTOR",
		PresentationContexts: []dul.PresentationContextOffer{
			{
				AbstractSyntax:   string(uid.VerificationSOPClass),
				TransferSyntaxes: []string{string(uid.ImplicitVRLittleEndian)},
			},
		},
		ImplementationClassUID: "1.2.999.2",
		ARTIMTimeout:           2 * time.Second,
	}
}

func TestProvider_EstablishTransferRelease(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverDone := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			serverDone <- err
			return
		}
		acceptor, err := dul.NewAcceptor(conn, testProviderParams(), nil)
		if err != nil {
			serverDone <- err
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ind, err := acceptor.ReceivePrimitive(ctx)
		if err != nil {
			serverDone <- err
			return
		}
		if _, ok := ind.(*primitive.AssociateAccept); !ok {
			serverDone <- assertionFailure("expected AssociateAccept indication on acceptor side")
			return
		}

		ind, err = acceptor.ReceivePrimitive(ctx)
		if err != nil {
			serverDone <- err
			return
		}
		pdata, ok := ind.(*primitive.PDataRequest)
		if !ok || len(pdata.Fragments) != 1 || string(pdata.Fragments[0].Value) != "ping" {
			serverDone <- assertionFailure("expected a single-fragment P-DATA request carrying \"ping\"")
			return
		}

		ind, err = acceptor.ReceivePrimitive(ctx)
		if err != nil {
			serverDone <- err
			return
		}
		if _, ok := ind.(*primitive.ReleaseRequest); !ok {
			serverDone <- assertionFailure("expected a release request indication")
			return
		}
		if err := acceptor.SendPrimitive(&primitive.ReleaseResponse{}); err != nil {
			serverDone <- err
			return
		}
		serverDone <- nil
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	requestor, err := dul.NewRequestor(ctx, "tcp", ln.Addr().String(), testUserParams(), nil)
	require.NoError(t, err)

	ind, err := requestor.ReceivePrimitive(ctx)
	require.NoError(t, err)
	accept, ok := ind.(*primitive.AssociateAccept)
	require.True(t, ok, "expected AssociateAccept, got %T", ind)
	require.Len(t, accept.PresentationContexts, 1)
	assert.Equal(t, pduitem.ResultAcceptance, accept.PresentationContexts[0].Result)

	err = requestor.SendPrimitive(&primitive.PDataRequest{
		Fragments: []primitive.PDataFragment{
			{PresentationContextID: accept.PresentationContexts[0].ID, Last: true, Value: []byte("ping")},
		},
	})
	require.NoError(t, err)

	err = requestor.SendPrimitive(&primitive.ReleaseRequest{})
	require.NoError(t, err)

	ind, err = requestor.ReceivePrimitive(ctx)
	require.NoError(t, err)
	_, ok = ind.(*primitive.ReleaseResponse)
	require.True(t, ok, "expected ReleaseResponse, got %T", ind)

	require.NoError(t, <-serverDone)
}

type assertionFailure string

func (a assertionFailure) Error() string { return string(a) }
