// Package carpooltest is an in-memory stand-in for the CarPolling backend,
// used by the client's integration tests. It mirrors the real server's
// routes, bearer-token auth and its (inconsistent) error payload shapes:
// user routes answer {"error": ...}, ride and booking routes answer
// {"message": ...}.
package carpooltest

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/shivam100804/swiftUiCarPooling/carpolling"
)

const tokenTTL = 24 * time.Hour

type errorShape int

const (
	shapeError   errorShape = iota // {"error": "..."}
	shapeMessage                   // {"message": "..."}
)

type account struct {
	user     carpolling.User
	password string
}

// Server holds the fake backend's state. All methods are safe for
// concurrent use.
type Server struct {
	secret []byte

	mu            sync.Mutex
	accounts      map[string]*account
	rides         []carpolling.Ride
	available     []carpolling.AvailableRide
	nextBookingID int

	router chi.Router
}

// New returns an empty fake backend signing tokens with secret.
func New(secret string) *Server {
	s := &Server{
		secret:        []byte(secret),
		accounts:      make(map[string]*account),
		nextBookingID: 1,
	}

	mux := chi.NewRouter()
	mux.Post("/users/login", s.handleLogin)
	mux.Get("/users/{universityID}", s.handleFetchUser)
	mux.Post("/User/createUser", s.handleRegister)
	mux.Get("/rides", s.handleListRides)
	mux.Post("/rides", s.handleCreateRide)
	mux.Post("/bookings", s.handleCreateBooking)
	mux.Get("/Rides/ridesAvailableAt/{destination}", s.handleSearchRides)
	s.router = mux

	return s
}

// Handler returns the backend's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// AddUser registers an account that can log in with password.
func (s *Server) AddUser(user carpolling.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[user.UniversityID] = &account{user: user, password: password}
}

// AddAvailableRide seeds a bookable, searchable ride.
func (s *Server) AddAvailableRide(ride carpolling.AvailableRide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = append(s.available, ride)
}

// VacantSeats returns the remaining seats on the ride with the given id,
// or -1 when it does not exist.
func (s *Server) VacantSeats(rideID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.available {
		if s.available[i].ID == rideID {
			return s.available[i].VacantSeats
		}
	}
	return -1
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req carpolling.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, shapeError, "malformed request")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.UniversityID]
	s.mu.Unlock()
	if !ok || acct.password != req.Password {
		writeError(w, http.StatusUnauthorized, shapeError, "bad credentials")
		return
	}

	token, err := s.issueToken(req.UniversityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, shapeError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, carpolling.LoginResponse{
		Token: token,
		User:  acct.user,
	})
}

func (s *Server) handleFetchUser(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, shapeError) {
		return
	}

	universityID := chi.URLParam(r, "universityID")
	s.mu.Lock()
	acct, ok := s.accounts[universityID]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, shapeError, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req carpolling.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, shapeError, "malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.UniversityID]; exists {
		writeError(w, http.StatusConflict, shapeError, "user already exists")
		return
	}

	user := carpolling.User{
		UniversityID: req.UniversityID,
		Name:         req.Name,
		Address:      &req.Address,
		Age:          req.Age,
		Admin:        carpolling.AdminTypeUser,
		DLNumber:     req.DLNumber,
		MobileNo:     0,
		VehicleNo:    req.VehicleNo,
		Gender:       carpolling.GenderOther,
	}
	s.accounts[req.UniversityID] = &account{user: user, password: req.Password}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListRides(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rides := make([]carpolling.Ride, len(s.rides))
	copy(rides, s.rides)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rides)
}

func (s *Server) handleCreateRide(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, shapeMessage) {
		return
	}

	var ride carpolling.Ride
	if err := json.NewDecoder(r.Body).Decode(&ride); err != nil {
		writeError(w, http.StatusBadRequest, shapeMessage, "malformed ride")
		return
	}
	if ride.Fare <= 0 {
		writeError(w, http.StatusBadRequest, shapeMessage, "fare must be positive")
		return
	}

	s.mu.Lock()
	s.rides = append(s.rides, ride)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, ride)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, shapeMessage) {
		return
	}

	var booking carpolling.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		writeError(w, http.StatusBadRequest, shapeMessage, "malformed booking")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ride *carpolling.AvailableRide
	for i := range s.available {
		if s.available[i].ID == booking.RideID {
			ride = &s.available[i]
			break
		}
	}
	if ride == nil {
		writeError(w, http.StatusNotFound, shapeMessage, "ride not found")
		return
	}
	if ride.VacantSeats < booking.TotalPersons {
		writeError(w, http.StatusConflict, shapeMessage, "not enough vacant seats")
		return
	}

	ride.VacantSeats -= booking.TotalPersons
	bookingID := s.nextBookingID
	s.nextBookingID++

	confirmed := "booking confirmed"
	writeJSON(w, http.StatusCreated, carpolling.BookingResponse{
		BookingID:    bookingID,
		TotalPersons: booking.TotalPersons,
		UserID:       booking.UserID,
		RideID:       booking.RideID,
		Message:      &confirmed,
	})
}

func (s *Server) handleSearchRides(w http.ResponseWriter, r *http.Request) {
	destination := chi.URLParam(r, "destination")
	if decoded, err := url.PathUnescape(destination); err == nil {
		destination = decoded
	}

	s.mu.Lock()
	matches := make([]carpolling.AvailableRide, 0)
	for _, ride := range s.available {
		if ride.DropPoint == destination {
			matches = append(matches, ride)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) issueToken(universityID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   universityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// authorize checks the bearer token and writes a 401 in the route's error
// shape when it is missing or invalid.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, shape errorShape) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		writeError(w, http.StatusUnauthorized, shape, "missing bearer token")
		return false
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		writeError(w, http.StatusUnauthorized, shape, "invalid token")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, shape errorShape, message string) {
	switch shape {
	case shapeMessage:
		writeJSON(w, status, map[string]string{"message": message})
	default:
		writeJSON(w, status, map[string]string{"error": message})
	}
}
