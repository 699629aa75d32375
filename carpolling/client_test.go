package carpolling

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const testUserJSON = `{"universityId":"u1","name":"Shivam","age":21,"admin":"USER","mobileNo":9876543210,"gender":"MALE"}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestLoginServerErrorShape(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"bad credentials"}`)
	}))

	_, err := client.Login(context.Background(), LoginRequest{UniversityID: "u1", Password: "nope"})
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindServerError {
		t.Fatalf("expected server error, got %v", err)
	}
	if apiErr.Message != "bad credentials" {
		t.Fatalf("expected server-supplied message, got %q", apiErr.Message)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", apiErr.StatusCode)
	}
}

func TestMessageShapeFallback(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"message":"database down"}`)
	}))

	_, err := client.ListRides(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindServerError {
		t.Fatalf("expected server error from message payload, got %v", err)
	}
	if apiErr.Message != "database down" {
		t.Fatalf("expected message text, got %q", apiErr.Message)
	}
}

func TestUnparseableErrorBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `<html>Internal Server Error</html>`)
	}))

	_, err := client.ListRides(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindInvalidResponse {
		t.Fatalf("expected invalid response, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestDecodingFailedOnMismatchedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"rides":[]}`)
	}))

	// ListRides expects a JSON array, not an object.
	_, err := client.ListRides(context.Background())
	if !IsKind(err, KindDecodingFailed) {
		t.Fatalf("expected decoding failure, got %v", err)
	}
}

func TestInvalidURLPerformsNoNetworkCall(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	session := NewSession(client, "tok")
	_, err := session.FetchUser(context.Background(), "%zz")
	if !IsKind(err, KindInvalidURL) {
		t.Fatalf("expected invalid URL, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no network call, got %d", calls.Load())
	}
}

func TestTransportFailure(t *testing.T) {
	// Nothing listens on this address.
	client := New("http://127.0.0.1:1")

	_, err := client.ListRides(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindRequestFailed {
		t.Fatalf("expected request failure, got %v", err)
	}
	if apiErr.Message == "" {
		t.Fatal("expected the transport detail to be carried")
	}
}

func TestLoginThenBearerTokenAttached(t *testing.T) {
	var gotAuth atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"token":"abc","user":`+testUserJSON+`}`)
	})
	mux.HandleFunc("GET /users/u1", func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		io.WriteString(w, testUserJSON)
	})
	client := newTestClient(t, mux)

	session, err := client.Login(context.Background(), LoginRequest{UniversityID: "u1", Password: "p"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token() != "abc" {
		t.Fatalf("expected token abc, got %q", session.Token())
	}

	user, err := session.FetchUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("fetch user: %v", err)
	}
	if user.UniversityID != "u1" {
		t.Fatalf("unexpected user: %#v", user)
	}
	if got := gotAuth.Load(); got != "Bearer abc" {
		t.Fatalf("expected Authorization: Bearer abc, got %v", got)
	}
}

func TestEmptyTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		io.WriteString(w, testUserJSON)
	}))

	session := NewSession(client, "")
	if _, err := session.FetchUser(context.Background(), "u1"); err != nil {
		t.Fatalf("fetch user: %v", err)
	}
	if got := gotAuth.Load(); got != "" {
		t.Fatalf("expected no Authorization header, got %v", got)
	}
}

func TestRequestHeaders(t *testing.T) {
	var contentType, requestID atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType.Store(r.Header.Get("Content-Type"))
		requestID.Store(r.Header.Get("X-Request-ID"))
		io.WriteString(w, `[]`)
	}))

	if _, err := client.ListRides(context.Background()); err != nil {
		t.Fatalf("list rides: %v", err)
	}
	if contentType.Load() != "application/json" {
		t.Fatalf("expected JSON content type, got %v", contentType.Load())
	}
	if requestID.Load() == "" {
		t.Fatal("expected an X-Request-ID header")
	}
}

func TestNegativeFareForwardedVerbatim(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ride Ride
		if err := json.NewDecoder(r.Body).Decode(&ride); err != nil {
			t.Errorf("decode forwarded ride: %v", err)
		}
		if ride.Fare != -5 {
			t.Errorf("expected fare -5 on the wire, got %d", ride.Fare)
		}
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"fare must be positive"}`)
	}))

	ride := Ride{
		Date:              "2025-05-14",
		Time:              "08:30",
		Fare:              -5,
		PickupPoint:       "Main Gate",
		Status:            RideStatusActive,
		VacantSeats:       3,
		DropPoint:         "Jammu",
		OwnerUniversityID: "u1",
	}

	session := NewSession(client, "tok")
	_, err := session.CreateRide(context.Background(), ride)
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind != KindServerError {
		t.Fatalf("expected the rejection to come from the server, got %v", err)
	}
	if apiErr.Message != "fare must be positive" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestSearchEncodesDestination(t *testing.T) {
	var gotPath atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.EscapedPath())
		io.WriteString(w, `[]`)
	}))

	if _, err := client.SearchRidesByDestination(context.Background(), "North Campus"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if got := gotPath.Load(); got != "/Rides/ridesAvailableAt/North%20Campus" {
		t.Fatalf("expected encoded destination path, got %v", got)
	}
}
