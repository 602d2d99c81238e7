package transport

import (
	"context"
	"testing"
	"time"

	"github.com/nsilva/fjagego/internal/platformtest"
	"github.com/nsilva/fjagego/pkg/auth"
)

func TestWSConnectSignsBearerTokenWhenRequired(t *testing.T) {
	verifier := auth.NewVerifier([]byte("shh"), "fjagego")
	mp := platformtest.NewWS(verifier)
	defer mp.Close()

	signer := auth.NewSigner([]byte("shh"), "fjagego", time.Minute)
	ws := NewWS(mp.URL(), WSOptions{Signer: signer, Subject: "tester"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ws.Connect(ctx); err != nil {
		t.Fatalf("Connect with valid signer: %v", err)
	}
	defer ws.Close()
}

func TestWSConnectRejectedWithoutBearerToken(t *testing.T) {
	verifier := auth.NewVerifier([]byte("shh"), "fjagego")
	mp := platformtest.NewWS(verifier)
	defer mp.Close()

	ws := NewWS(mp.URL(), WSOptions{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ws.Connect(ctx); err == nil {
		t.Error("expected Connect to fail without a bearer token when the platform requires one")
	}
}

func TestWSConnectRejectedWithBadSecret(t *testing.T) {
	verifier := auth.NewVerifier([]byte("shh"), "fjagego")
	mp := platformtest.NewWS(verifier)
	defer mp.Close()

	signer := auth.NewSigner([]byte("wrong-secret"), "fjagego", time.Minute)
	ws := NewWS(mp.URL(), WSOptions{Signer: signer, Subject: "tester"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ws.Connect(ctx); err == nil {
		t.Error("expected Connect to fail when signed with the wrong secret")
	}
}
