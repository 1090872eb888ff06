package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"boxoffice/internal/adminlogs"
	"boxoffice/internal/auth"
	"boxoffice/internal/bookings"
	"boxoffice/internal/events"
	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/selection"
	"boxoffice/internal/session"
	"boxoffice/internal/tickets"
	"boxoffice/pkg/logger"
)

type cli struct {
	gw    *gateway.Gateway
	store session.Store
	log   *logger.Logger
	out   io.Writer
}

func (a *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return exitUsage{msg: "missing command"}
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "login":
		err = a.login(ctx, rest)
	case "register":
		err = a.register(ctx, rest)
	case "logout":
		err = a.logout(ctx)
	case "whoami":
		err = a.whoami(ctx)
	case "events":
		err = a.events(ctx)
	case "seats":
		err = a.seats(ctx, rest)
	case "book":
		err = a.book(ctx, rest)
	case "orders":
		err = a.orders(ctx)
	case "logs":
		err = a.logs(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return exitUsage{msg: fmt.Sprintf("unknown command %q", cmd)}
	}

	if errors.Is(err, gateway.ErrSessionExpired) {
		return fmt.Errorf("%w (run: ticketctl login -u <username>)", err)
	}
	return err
}

func (a *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", os.Getenv("TICKETCTL_PASSWORD"), "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("login needs -u and -p (or TICKETCTL_PASSWORD)")
	}

	result, err := auth.NewService(a.gw, a.log).Login(ctx, &auth.LoginRequest{Username: *username, Password: *password})
	if err != nil {
		return err
	}

	role := "unknown"
	if result.User != nil {
		role = result.User.Role.String()
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", *username, role)
	return nil
}

func (a *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	req := auth.RegisterRequest{}
	fs.StringVar(&req.Username, "u", "", "username")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Password, "p", os.Getenv("TICKETCTL_PASSWORD"), "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.RePassword = req.Password

	if err := auth.NewService(a.gw, a.log).Register(ctx, &req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registration successful! Please login.")
	return nil
}

func (a *cli) logout(ctx context.Context) error {
	if err := auth.NewService(a.gw, a.log).Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *cli) whoami(ctx context.Context) error {
	sess, err := a.store.Get(ctx)
	if err != nil {
		return err
	}
	if !sess.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	user, err := auth.NewService(a.gw, a.log).Me(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Username\t%s\n", user.Username)
	fmt.Fprintf(w, "Email\t%s\n", user.Email)
	fmt.Fprintf(w, "Role\t%s\n", user.Role)
	fmt.Fprintf(w, "Staff\t%t\n", user.IsStaff)
	if claims, err := session.ParseClaims(sess.AccessToken); err == nil && !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "Token expires\t%s\n", claims.ExpiresAt.Local().Format("Jan 2, 2006 15:04"))
	}

	var links []string
	for _, l := range navigation.Decide(sess, navigation.HomePath).Links {
		links = append(links, l.Label)
	}
	fmt.Fprintf(w, "Menu\t%v\n", links)
	return w.Flush()
}

func (a *cli) eventService() events.Service {
	return events.NewService(a.gw, nil, a.log)
}

func (a *cli) events(ctx context.Context) error {
	list, err := a.eventService().List(ctx)
	if err != nil {
		return fmt.Errorf("Unable to load events: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No upcoming events found.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTITLE\tLOCATION")
	for _, e := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.DisplayDate(), e.Title, e.Location)
	}
	return w.Flush()
}

func (a *cli) seats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seats", flag.ContinueOnError)
	eventID := fs.Int64("event", 0, "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventID <= 0 {
		return errors.New("seats needs -event")
	}

	seats, err := a.eventService().Seats(ctx, *eventID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 1, ' ', 0)
	for _, row := range events.SeatMap(seats) {
		fmt.Fprintf(w, "%s", row.Label)
		for _, s := range row.Seats {
			mark := "x"
			if s.Selectable() {
				mark = fmt.Sprintf("%d", s.ID)
			}
			fmt.Fprintf(w, "\t%s", mark)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "\nAvailable seats show their id; x is taken.")
	return w.Flush()
}

func (a *cli) book(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	eventID := fs.Int64("event", 0, "event id")
	seatList := fs.String("seats", "", "comma separated seat ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids := bookings.ParseIDs(*seatList)
	if *eventID <= 0 || len(ids) == 0 {
		return errors.New("book needs -event and -seats")
	}

	sess, err := a.store.Get(ctx)
	if err != nil {
		return err
	}
	if !sess.Authenticated() {
		return errors.New("Please login to book tickets.")
	}

	seats, err := a.eventService().Seats(ctx, *eventID)
	if err != nil {
		return err
	}

	tracker := selection.NewTracker()
	for _, id := range ids {
		seat, ok := events.FindSeat(seats, id)
		if !ok || !seat.Selectable() {
			return fmt.Errorf("seat %d: %w", id, bookings.ErrSeatUnavailable)
		}
		if !tracker.Contains(id) {
			tracker.Toggle(seat.Selection())
		}
	}
	summary := tracker.Summary()
	fmt.Fprintf(a.out, "Booking %s for $%s...\n", summary.Labels, summary.DisplayTotal())

	confirmation, err := bookings.NewService(a.gw, a.log).Checkout(ctx, tracker, *eventID)
	if err != nil {
		return fmt.Errorf("Booking Failed: %s", bookings.FailureDetail(err))
	}
	fmt.Fprintf(a.out, "Booked! Tickets: %s\n", bookings.JoinIDs(confirmation.TicketIDs))
	return nil
}

func (a *cli) orders(ctx context.Context) error {
	list, err := tickets.NewService(a.gw).List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "You haven't booked any tickets yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKET\tEVENT\tSEAT\tSTATUS\tBOOKED")
	for _, t := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.EventTitle, t.SeatLabel, t.PaymentStatus,
			t.PurchaseDate.Local().Format("Jan 2, 2006 15:04"))
	}
	return w.Flush()
}

func (a *cli) logs(ctx context.Context) error {
	list, err := adminlogs.NewService(a.gw).List(ctx)
	if err != nil {
		if errors.Is(err, adminlogs.ErrForbidden) {
			return errors.New("You do not have permission to view this page.")
		}
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tUSER\tACTION\tDETAILS")
	for _, l := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Timestamp.Local().Format("Jan 2 15:04:05"), l.User, l.Action, l.Details)
	}
	return w.Flush()
}
