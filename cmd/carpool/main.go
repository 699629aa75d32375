package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shivam100804/swiftUiCarPooling/carpolling"
	"github.com/shivam100804/swiftUiCarPooling/common/env"
	"github.com/shivam100804/swiftUiCarPooling/common/logger"
	"github.com/shivam100804/swiftUiCarPooling/common/telemetry"
)

const usage = `usage: carpool <command> [flags]

commands:
  login        authenticate and print the bearer token
  register     create a new user account
  rides        list every ride
  search       list rides available at a destination
  create-ride  publish a ride (requires login)
  book         book seats on a ride (requires login)
`

func main() {
	logger.InitDefault("carpool-cli")
	defer logger.Sync()

	shutdown, err := telemetry.Init("carpool-cli", "1.0.0")
	if err != nil {
		logger.Error("Failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("Failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	client := carpolling.New(
		env.Get("CARPOOL_BASE_URL", "http://localhost:8082"),
		carpolling.WithLogger(logger.L()),
		carpolling.WithTimeout(env.GetDuration("CARPOOL_HTTP_TIMEOUT", 30*time.Second)),
	)

	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "login":
		cmdErr = runLogin(ctx, client, os.Args[2:])
	case "register":
		cmdErr = runRegister(ctx, client, os.Args[2:])
	case "rides":
		cmdErr = runRides(ctx, client)
	case "search":
		cmdErr = runSearch(ctx, client, os.Args[2:])
	case "create-ride":
		cmdErr = runCreateRide(ctx, client, os.Args[2:])
	case "book":
		cmdErr = runBook(ctx, client, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if cmdErr != nil {
		logger.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(cmdErr))
		os.Exit(1)
	}
}

// authenticate builds a session from CARPOOL_TOKEN when set, otherwise
// logs in with CARPOOL_ID / CARPOOL_PASSWORD.
func authenticate(ctx context.Context, client *carpolling.Client) (*carpolling.Session, error) {
	if token := env.Get("CARPOOL_TOKEN", ""); token != "" {
		return carpolling.NewSession(client, token), nil
	}

	id := env.Get("CARPOOL_ID", "")
	password := env.Get("CARPOOL_PASSWORD", "")
	if id == "" || password == "" {
		return nil, fmt.Errorf("set CARPOOL_TOKEN or CARPOOL_ID and CARPOOL_PASSWORD")
	}
	return client.Login(ctx, carpolling.LoginRequest{UniversityID: id, Password: password})
}

func runLogin(ctx context.Context, client *carpolling.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	id := fs.String("id", env.Get("CARPOOL_ID", ""), "university id")
	password := fs.String("password", env.Get("CARPOOL_PASSWORD", ""), "password")
	_ = fs.Parse(args)

	session, err := client.Login(ctx, carpolling.LoginRequest{
		UniversityID: *id,
		Password:     *password,
	})
	if err != nil {
		return err
	}

	user := session.User()
	logger.Info("Logged in",
		zap.String("university_id", user.UniversityID),
		zap.String("name", user.Name),
	)
	if expiry, ok := session.ExpiresAt(); ok {
		logger.Info("Token expires", zap.Time("expires_at", expiry))
	}
	fmt.Println(session.Token())
	return nil
}

func runRegister(ctx context.Context, client *carpolling.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	id := fs.String("id", "", "university id")
	password := fs.String("password", "", "password")
	name := fs.String("name", "", "full name")
	address := fs.String("address", "", "address")
	age := fs.Int("age", 0, "age")
	dlNumber := fs.String("dl-number", "", "driving licence number (vehicle owners)")
	vehicleNo := fs.String("vehicle-no", "", "vehicle number (vehicle owners)")
	_ = fs.Parse(args)

	req := carpolling.RegisterRequest{
		UniversityID: *id,
		Password:     *password,
		Name:         *name,
		Address:      *address,
		Age:          *age,
	}
	if *dlNumber != "" {
		req.DLNumber = dlNumber
	}
	if *vehicleNo != "" {
		req.VehicleNo = vehicleNo
	}

	if err := carpolling.Validate(req); err != nil {
		if details, ok := carpolling.IsValidationError(err); ok {
			for _, d := range details {
				logger.Warn("Invalid field", zap.String("field", d.Field), zap.String("reason", d.Message))
			}
		}
		return err
	}

	if err := client.Register(ctx, req); err != nil {
		return err
	}
	logger.Info("Registered", zap.String("university_id", *id))
	return nil
}

func runRides(ctx context.Context, client *carpolling.Client) error {
	rides, err := client.ListRides(ctx)
	if err != nil {
		return err
	}
	return printJSON(rides)
}

func runSearch(ctx context.Context, client *carpolling.Client, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	destination := fs.String("destination", "", "drop point to search for")
	_ = fs.Parse(args)

	rides, err := client.SearchRidesByDestination(ctx, *destination)
	if err != nil {
		return err
	}
	return printJSON(rides)
}

func runCreateRide(ctx context.Context, client *carpolling.Client, args []string) error {
	fs := flag.NewFlagSet("create-ride", flag.ExitOnError)
	date := fs.String("date", "", "ride date")
	rideTime := fs.String("time", "", "ride time")
	fare := fs.Int("fare", 0, "fare per seat")
	pickup := fs.String("pickup", "", "pickup point")
	drop := fs.String("drop", "", "drop point")
	seats := fs.Int("seats", 0, "vacant seats")
	owner := fs.String("owner", env.Get("CARPOOL_ID", ""), "owner university id")
	_ = fs.Parse(args)

	ride := carpolling.Ride{
		Date:              *date,
		Time:              *rideTime,
		Fare:              *fare,
		PickupPoint:       *pickup,
		Status:            carpolling.RideStatusActive,
		VacantSeats:       *seats,
		DropPoint:         *drop,
		OwnerUniversityID: *owner,
	}

	if err := carpolling.Validate(ride); err != nil {
		if details, ok := carpolling.IsValidationError(err); ok {
			for _, d := range details {
				logger.Warn("Invalid field", zap.String("field", d.Field), zap.String("reason", d.Message))
			}
		}
		return err
	}

	session, err := authenticate(ctx, client)
	if err != nil {
		return err
	}

	created, err := session.CreateRide(ctx, ride)
	if err != nil {
		return err
	}
	return printJSON(created)
}

func runBook(ctx context.Context, client *carpolling.Client, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	rideID := fs.Int("ride-id", 0, "ride to book")
	userID := fs.String("user-id", env.Get("CARPOOL_ID", ""), "booking user id")
	passenger := fs.String("passenger", "", "passenger as name:age:nationalID")
	_ = fs.Parse(args)

	person, err := parsePassenger(*passenger)
	if err != nil {
		return err
	}

	session, err := authenticate(ctx, client)
	if err != nil {
		return err
	}

	booking := carpolling.Booking{
		TotalPersons: 1,
		UserID:       *userID,
		RideID:       *rideID,
		Passengers:   []carpolling.Person{person},
	}

	res, err := session.CreateBooking(ctx, booking)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func parsePassenger(arg string) (carpolling.Person, error) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) != 3 {
		return carpolling.Person{}, fmt.Errorf("passenger must be name:age:nationalID")
	}
	age, err := strconv.Atoi(parts[1])
	if err != nil {
		return carpolling.Person{}, fmt.Errorf("passenger age must be a number")
	}
	return carpolling.Person{Name: parts[0], Age: age, NationalID: parts[2]}, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
