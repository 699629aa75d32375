package carpolling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Login authenticates against the backend and returns a session carrying
// the issued bearer token and the authenticated user.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	res, err := do[LoginResponse](ctx, c, "login", http.MethodPost, "users/login", req, "")
	if err != nil {
		return nil, err
	}
	return &Session{client: c, token: res.Token, user: res.User}, nil
}

// Register creates a new user account. The backend's response body is not
// part of the contract beyond its status, so it is read but discarded.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := do[json.RawMessage](ctx, c, "register", http.MethodPost, "User/createUser", req, "")
	return err
}

// ListRides fetches every ride known to the backend.
func (c *Client) ListRides(ctx context.Context) ([]Ride, error) {
	return do[[]Ride](ctx, c, "list_rides", http.MethodGet, "rides", nil, "")
}

// SearchRidesByDestination fetches the rides dropping off at destination.
// The destination is percent-encoded here; it is the one path segment that
// routinely carries user-typed text.
func (c *Client) SearchRidesByDestination(ctx context.Context, destination string) ([]AvailableRide, error) {
	endpoint := "Rides/ridesAvailableAt/" + url.PathEscape(destination)
	return do[[]AvailableRide](ctx, c, "search_rides", http.MethodGet, endpoint, nil, "")
}

// FetchUser fetches the user identified by universityID. The id is used as
// a path segment verbatim; callers must pre-encode anything unusual.
func (s *Session) FetchUser(ctx context.Context, universityID string) (User, error) {
	return do[User](ctx, s.client, "fetch_user", http.MethodGet, "users/"+universityID, nil, s.Token())
}

// CreateBooking books seats on a ride for the session's user.
func (s *Session) CreateBooking(ctx context.Context, booking Booking) (BookingResponse, error) {
	return do[BookingResponse](ctx, s.client, "create_booking", http.MethodPost, "bookings", booking, s.Token())
}

// CreateRide publishes a new ride owned by the session's user. The ride is
// forwarded as given; the server is the validator of record.
func (s *Session) CreateRide(ctx context.Context, ride Ride) (Ride, error) {
	return do[Ride](ctx, s.client, "create_ride", http.MethodPost, "rides", ride, s.Token())
}
