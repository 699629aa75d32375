package carpolling

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestAsyncDeliversExactlyOnce(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))

	call := client.ListRidesAsync(context.Background())

	res := <-call.Recv()
	if res.Err != nil {
		t.Fatalf("list rides: %v", res.Err)
	}

	select {
	case extra := <-call.Recv():
		t.Fatalf("received a second delivery: %#v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAsyncCallPointDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		io.WriteString(w, `[]`)
	}))

	start := time.Now()
	call := client.ListRidesAsync(context.Background())
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("call point blocked for %v", elapsed)
	}

	close(release)
	if _, err := call.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))

	call := client.ListRidesAsync(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := call.Wait(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestConcurrentCallsAreIndependent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))

	first := client.SearchRidesByDestinationAsync(context.Background(), "Jammu")
	second := client.SearchRidesByDestinationAsync(context.Background(), "Katra")

	if _, err := first.Wait(context.Background()); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, err := second.Wait(context.Background()); err != nil {
		t.Fatalf("second search: %v", err)
	}
}

func TestAsyncDeliversErrors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"bad credentials"}`)
	}))

	call := client.LoginAsync(context.Background(), LoginRequest{UniversityID: "u1", Password: "nope"})

	res := <-call.Recv()
	if !IsKind(res.Err, KindServerError) {
		t.Fatalf("expected server error delivery, got %v", res.Err)
	}
}
