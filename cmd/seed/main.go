// Command seed fills a development backend with demo events. It logs in
// as an existing organizer, removes that organizer's events and creates a
// fresh set through the same API the site uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"boxoffice/internal/auth"
	"boxoffice/internal/events"
	"boxoffice/internal/gateway"
	"boxoffice/internal/session"
	"boxoffice/internal/shared/config"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"
)

type Seeder struct {
	auth   auth.Service
	events events.Service
	now    time.Time
}

func main() {
	fmt.Println("🌱 Starting demo data seeder...")

	_ = godotenv.Load()
	cfg := config.Load()
	log.SetFlags(0)

	username := os.Getenv("SEED_ORGANIZER_USERNAME")
	password := os.Getenv("SEED_ORGANIZER_PASSWORD")
	if username == "" || password == "" {
		log.Fatalf("SEED_ORGANIZER_USERNAME and SEED_ORGANIZER_PASSWORD must be set")
	}

	appLogger := logger.NewWithWriter(os.Stderr, "warn")
	store := session.NewMemoryStore(session.Session{})
	gw := gateway.New(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout}, store, appLogger)

	// the site caches event pages; clear them so the new events show at once
	var cacheService cache.Service
	if cfg.Redis.Enabled {
		client, err := cache.Connect(context.Background(), cache.Config{Address: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Printf("Warning: Redis unavailable, cached pages may be stale: %v", err)
		} else {
			defer client.Close()
			cacheService = cache.NewService(client, appLogger)
		}
	}

	seeder := &Seeder{
		auth:   auth.NewService(gw, appLogger),
		events: events.NewService(gw, cacheService, appLogger),
		now:    time.Now(),
	}

	ctx := context.Background()
	if err := seeder.Login(ctx, username, password); err != nil {
		log.Fatalf("Failed to login: %v", err)
	}

	fmt.Println("\n🧹 Removing existing events...")
	if err := seeder.Clean(ctx); err != nil {
		log.Fatalf("Failed to clean events: %v", err)
	}
	fmt.Println("✅ Events removed")

	fmt.Println("\n🌱 Seeding events...")
	if err := seeder.SeedEvents(ctx); err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}
	fmt.Println("✅ Events seeded successfully")

	fmt.Println("\n🎉 Seeding completed! The site is ready for testing.")
}

// Login signs in and checks the account may create events
func (s *Seeder) Login(ctx context.Context, username, password string) error {
	result, err := s.auth.Login(ctx, &auth.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	if result.User == nil || result.User.Role != session.RoleOrganizer {
		return errors.New("seed account is not an organizer")
	}
	fmt.Printf("  👤 Logged in as %s (%s)\n", result.User.Username, result.User.Role)
	return nil
}

// Clean deletes every event the organizer owns
func (s *Seeder) Clean(ctx context.Context) error {
	owned, err := s.events.ListOwned(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	for _, e := range owned {
		if err := s.events.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to delete event %d: %w", e.ID, err)
		}
		fmt.Printf("    🗑️  Deleted event: %s\n", e.Title)
	}
	return nil
}

// SeedEvents creates the demo catalogue
func (s *Seeder) SeedEvents(ctx context.Context) error {
	eventsData := []struct {
		title       string
		description string
		location    string
		daysAhead   int
		hour        int
		rows, cols  int
		vip         string
		standard    string
		economy     string
	}{
		{"Jazz Night", "An evening of live jazz with a local quartet.", "Blue Room, Downtown", 7, 20, 6, 10, "150", "100", "50"},
		{"Tech Conference 2026", "Talks on distributed systems and developer tooling.", "Convention Center Hall A", 21, 9, 8, 12, "300", "180", "90"},
		{"Comedy Showcase", "Five stand-up comedians, one night.", "The Laugh Factory", 14, 21, 5, 8, "", "", ""},
		{"Symphony in the Park", "The city orchestra plays open-air classics.", "Riverside Park Amphitheatre", 30, 18, 10, 15, "120", "80", "40"},
	}

	for _, e := range eventsData {
		date := time.Date(s.now.Year(), s.now.Month(), s.now.Day()+e.daysAhead, e.hour, 0, 0, 0, time.Local)
		req := events.CreateEventRequest{
			Title:         e.title,
			Description:   e.description,
			Location:      e.location,
			DateTime:      date.Format("2006-01-02T15:04"),
			SeatRows:      e.rows,
			SeatCols:      e.cols,
			PriceVIP:      e.vip,
			PriceStandard: e.standard,
			PriceEconomy:  e.economy,
		}

		created, err := s.events.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create event %s: %w", e.title, err)
		}

		preview := events.Preview(e.rows, e.cols, req.Prices())
		fmt.Printf("    ✅ Created event: %s (%d seats, up to $%s)\n",
			created.Title, created.SeatsCreated, preview.TotalValue.StringFixed(2))
	}
	return nil
}
