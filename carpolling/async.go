package carpolling

import "context"

// Result pairs a value with the error that replaced it.
type Result[T any] struct {
	Value T
	Err   error
}

// Call is an in-flight request. The result is delivered exactly once on
// the channel returned by Recv; the call point never blocks.
type Call[T any] struct {
	ch chan Result[T]
}

func startCall[T any](run func() (T, error)) *Call[T] {
	c := &Call[T]{ch: make(chan Result[T], 1)}
	go func() {
		value, err := run()
		c.ch <- Result[T]{Value: value, Err: err}
	}()
	return c
}

// Recv returns the delivery channel. Receive from it once.
func (c *Call[T]) Recv() <-chan Result[T] {
	return c.ch
}

// Wait blocks until the result is delivered or ctx is done.
func (c *Call[T]) Wait(ctx context.Context) (T, error) {
	select {
	case res := <-c.ch:
		return res.Value, res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// LoginAsync is Login without blocking the caller.
func (c *Client) LoginAsync(ctx context.Context, req LoginRequest) *Call[*Session] {
	return startCall(func() (*Session, error) {
		return c.Login(ctx, req)
	})
}

// RegisterAsync is Register without blocking the caller.
func (c *Client) RegisterAsync(ctx context.Context, req RegisterRequest) *Call[struct{}] {
	return startCall(func() (struct{}, error) {
		return struct{}{}, c.Register(ctx, req)
	})
}

// ListRidesAsync is ListRides without blocking the caller.
func (c *Client) ListRidesAsync(ctx context.Context) *Call[[]Ride] {
	return startCall(func() ([]Ride, error) {
		return c.ListRides(ctx)
	})
}

// SearchRidesByDestinationAsync is SearchRidesByDestination without
// blocking the caller.
func (c *Client) SearchRidesByDestinationAsync(ctx context.Context, destination string) *Call[[]AvailableRide] {
	return startCall(func() ([]AvailableRide, error) {
		return c.SearchRidesByDestination(ctx, destination)
	})
}

// FetchUserAsync is FetchUser without blocking the caller.
func (s *Session) FetchUserAsync(ctx context.Context, universityID string) *Call[User] {
	return startCall(func() (User, error) {
		return s.FetchUser(ctx, universityID)
	})
}

// CreateBookingAsync is CreateBooking without blocking the caller.
func (s *Session) CreateBookingAsync(ctx context.Context, booking Booking) *Call[BookingResponse] {
	return startCall(func() (BookingResponse, error) {
		return s.CreateBooking(ctx, booking)
	})
}

// CreateRideAsync is CreateRide without blocking the caller.
func (s *Session) CreateRideAsync(ctx context.Context, ride Ride) *Call[Ride] {
	return startCall(func() (Ride, error) {
		return s.CreateRide(ctx, ride)
	})
}
