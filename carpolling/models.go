package carpolling

import (
	"encoding/json"
	"fmt"
)

// Gender mirrors the backend gender enum
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderOther:
		*g = Gender(s)
		return nil
	}
	return fmt.Errorf("unknown gender %q", s)
}

// AdminType mirrors the backend role enum
type AdminType string

const (
	AdminTypeAdmin AdminType = "ADMIN"
	AdminTypeUser  AdminType = "USER"
)

func (a *AdminType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch AdminType(s) {
	case AdminTypeAdmin, AdminTypeUser:
		*a = AdminType(s)
		return nil
	}
	return fmt.Errorf("unknown admin type %q", s)
}

// RideStatus mirrors the backend ride status enum
type RideStatus string

const (
	RideStatusActive    RideStatus = "ACTIVE"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

func (r *RideStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch RideStatus(s) {
	case RideStatusActive, RideStatusCompleted, RideStatusCancelled:
		*r = RideStatus(s)
		return nil
	}
	return fmt.Errorf("unknown ride status %q", s)
}

// requireFields rejects JSON objects that omit (or null out) a key the
// backend contract marks required, so a partial payload never decodes
// into a half-filled value.
func requireFields(data []byte, typeName string, fields ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, f := range fields {
		v, ok := raw[f]
		if !ok || string(v) == "null" {
			return fmt.Errorf("%s: missing required field %q", typeName, f)
		}
	}
	return nil
}

// User mirrors the backend user resource. License and vehicle fields are
// present only for vehicle owners.
type User struct {
	UniversityID string    `json:"universityId" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Address      *string   `json:"address,omitempty"`
	Age          int       `json:"age" validate:"gte=0"`
	Admin        AdminType `json:"admin" validate:"required"`
	DLNumber     *string   `json:"dl_number,omitempty"`
	MobileNo     int64     `json:"mobileNo" validate:"required"`
	VehicleNo    *string   `json:"vehicleNo,omitempty"`
	Gender       Gender    `json:"gender" validate:"required"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "user", "universityId", "name", "age", "admin", "mobileNo", "gender"); err != nil {
		return err
	}
	type alias User
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*u = User(a)
	return nil
}

// Ride is the ride payload used when creating and listing rides.
type Ride struct {
	Date              string     `json:"date" validate:"required"`
	Time              string     `json:"time" validate:"required"`
	Fare              int        `json:"fare" validate:"gt=0"`
	PickupPoint       string     `json:"pickupPoint" validate:"required"`
	Status            RideStatus `json:"status" validate:"required"`
	VacantSeats       int        `json:"noOfVacantSeats" validate:"gte=0"`
	DropPoint         string     `json:"dropPoint" validate:"required"`
	OwnerUniversityID string     `json:"university_id" validate:"required"`
}

func (r *Ride) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "ride", "date", "time", "fare", "pickupPoint", "status", "noOfVacantSeats", "dropPoint", "university_id"); err != nil {
		return err
	}
	type alias Ride
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = Ride(a)
	return nil
}

// RideOwner is the nested owner object on a ride search result. Either
// field, or the whole object, may be absent.
type RideOwner struct {
	ID   *int    `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// AvailableRide is the ride search-result view returned by the
// rides-available-at endpoint.
type AvailableRide struct {
	ID             int        `json:"rideId"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Fare           int        `json:"fare"`
	PickupPoint    string     `json:"pickupPoint"`
	DropPoint      string     `json:"dropPoint"`
	VacantSeats    int        `json:"noOfVacantSeats"`
	CarPlateNumber *string    `json:"carPlateNumber,omitempty"`
	Owner          *RideOwner `json:"user,omitempty"`
}

func (r *AvailableRide) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "available ride", "rideId", "date", "time", "fare", "pickupPoint", "dropPoint", "noOfVacantSeats"); err != nil {
		return err
	}
	type alias AvailableRide
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = AvailableRide(a)
	return nil
}

// Person is one passenger within a booking.
type Person struct {
	NationalID string `json:"adhaar" validate:"required"`
	Age        int    `json:"age" validate:"gte=0"`
	Name       string `json:"name" validate:"required"`
}

func (p *Person) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "person", "adhaar", "age", "name"); err != nil {
		return err
	}
	type alias Person
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Person(a)
	return nil
}

// Booking is the booking request payload. TotalPersons should equal the
// length of Passengers; the server enforces it, the client does not.
type Booking struct {
	BookingID    int      `json:"bookingId"`
	TotalPersons int      `json:"totalNoOfPersons" validate:"gte=1"`
	UserID       string   `json:"userId" validate:"required"`
	RideID       int      `json:"rideId"`
	Passengers   []Person `json:"personDtos" validate:"required,dive"`
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "booking", "bookingId", "totalNoOfPersons", "userId", "rideId", "personDtos"); err != nil {
		return err
	}
	type alias Booking
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Booking(a)
	return nil
}

// BookingResponse is returned by the create-booking endpoint.
type BookingResponse struct {
	BookingID    int     `json:"bookingId"`
	TotalPersons int     `json:"totalNoOfPersons"`
	UserID       string  `json:"userId"`
	RideID       int     `json:"rideId"`
	Message      *string `json:"message,omitempty"`
}

func (b *BookingResponse) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "booking response", "bookingId", "totalNoOfPersons", "userId", "rideId"); err != nil {
		return err
	}
	type alias BookingResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = BookingResponse(a)
	return nil
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	UniversityID string `json:"universityId" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

func (l *LoginRequest) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "login request", "universityId", "password"); err != nil {
		return err
	}
	type alias LoginRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = LoginRequest(a)
	return nil
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (l *LoginResponse) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "login response", "token", "user"); err != nil {
		return err
	}
	type alias LoginResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = LoginResponse(a)
	return nil
}

// RegisterRequest is the payload for creating a new user account.
// DLNumber and VehicleNo are sent only for vehicle owners.
type RegisterRequest struct {
	UniversityID string  `json:"universityId" validate:"required"`
	Password     string  `json:"password" validate:"required,min=6"`
	Name         string  `json:"name" validate:"required"`
	Address      string  `json:"address" validate:"required"`
	Age          int     `json:"age" validate:"gte=0"`
	DLNumber     *string `json:"dl_number,omitempty"`
	VehicleNo    *string `json:"vehicleNo,omitempty"`
}

func (r *RegisterRequest) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "register request", "universityId", "password", "name", "address", "age"); err != nil {
		return err
	}
	type alias RegisterRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = RegisterRequest(a)
	return nil
}

// ErrorResponse is the structured error payload some endpoints return on
// non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "error response", "error"); err != nil {
		return err
	}
	type alias ErrorResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = ErrorResponse(a)
	return nil
}
