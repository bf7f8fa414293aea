package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"launidad/internal/auth"
	"launidad/internal/calendar"
	"launidad/internal/shared/config"
	"launidad/internal/shared/database"
	"launidad/internal/tickets"

	"github.com/google/uuid"
)

type Seeder struct {
	db  *database.DB
	cfg *config.Config
}

func main() {
	fmt.Println("🌱 Starting La Unidad Database Seeder...")

	// Load configuration
	cfg := config.Load()
	if !cfg.Database.Enabled {
		log.Fatal("Seeder requires Postgres: set DB_ENABLED=true")
	}

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, cfg: cfg}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"tickets",
		"slots",
		"operators",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seed operators first (no dependencies)
	if err := s.SeedOperators(ctx); err != nil {
		return fmt.Errorf("failed to seed operators: %w", err)
	}

	// Seed two weeks of visit slots
	slotIDs, err := s.SeedSlots(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed slots: %w", err)
	}

	// Seed demo tickets against the first slot
	if err := s.SeedTickets(ctx, slotIDs); err != nil {
		return fmt.Errorf("failed to seed tickets: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedOperators creates the back-office accounts: the configured
// bootstrap admin and 2 gate operators (all with password "qwerty")
func (s *Seeder) SeedOperators(ctx context.Context) error {
	fmt.Println("  👤 Seeding operators...")

	authRepo := auth.NewRepository(s.db.PostgreSQL)
	authService := auth.NewService(authRepo, s.cfg)

	if err := auth.EnsureBootstrapOperator(ctx, authService, s.cfg); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	fmt.Printf("    ✅ Created operator: %s (%s)\n", s.cfg.Bootstrap.OperatorEmail, auth.RoleAdmin)

	operatorsData := []struct {
		name  string
		email string
		gate  string
	}{
		{"Boletería Principal", "boleteria@launidad.ar", ""},
		{"Puerta Principal", "puerta@launidad.ar", "Puerta Principal"},
	}

	for _, operatorData := range operatorsData {
		operator, err := authService.CreateOperator(ctx,
			operatorData.name, operatorData.email, "qwerty", operatorData.gate, auth.RoleOperator)
		if err != nil {
			return fmt.Errorf("failed to create operator %s: %w", operatorData.email, err)
		}

		fmt.Printf("    ✅ Created operator: %s (%s)\n", operator.Email, operator.Role)
	}

	return nil
}

// SeedSlots provisions 14 days of visit slots through the calendar service
func (s *Seeder) SeedSlots(ctx context.Context) ([]uuid.UUID, error) {
	fmt.Println("  📅 Seeding visit slots...")

	slotRepo := calendar.NewRepository(s.db.PostgreSQL)
	calendarService := calendar.NewService(slotRepo)

	created, err := calendarService.CreateSlots(ctx, calendar.CreateSlotsRequest{
		StartDate:   time.Now(),
		Days:        14,
		SlotsPerDay: 4,
		Capacity:    100,
	})
	if err != nil {
		return nil, err
	}

	slotIDs := make([]uuid.UUID, 0, len(created))
	for _, slot := range created {
		id, err := uuid.Parse(slot.ID)
		if err != nil {
			return nil, fmt.Errorf("unexpected slot ID %q: %w", slot.ID, err)
		}
		slotIDs = append(slotIDs, id)
	}

	fmt.Printf("    ✅ Created %d slots over 14 days\n", len(created))
	return slotIDs, nil
}

// SeedTickets issues a handful of demo tickets against the first slot so the
// gate terminal has codes to scan
func (s *Seeder) SeedTickets(ctx context.Context, slotIDs []uuid.UUID) error {
	fmt.Println("  🎟️  Seeding demo tickets...")

	if len(slotIDs) == 0 {
		return fmt.Errorf("no slots to issue against")
	}

	slotRepo := calendar.NewRepository(s.db.PostgreSQL)
	calendarService := calendar.NewService(slotRepo)

	ticketRepo := tickets.NewRepository(s.db.PostgreSQL)
	ticketService := tickets.NewService(ticketRepo, calendarService)

	firstSlot := slotIDs[0]

	issued, err := ticketService.IssueOnline(ctx, firstSlot, 3, "María López", "30123456")
	if err != nil {
		return fmt.Errorf("failed to issue online tickets: %w", err)
	}
	for _, ticket := range issued {
		fmt.Printf("    ✅ Online ticket: %s\n", ticket.Code)
	}

	manualHolders := []struct {
		name     string
		dni      string
		category tickets.Category
	}{
		{"Jorge Fernández", "28987654", tickets.CategoryGeneral},
		{"Lucía Gómez", "42555111", tickets.CategoryEstudiante},
	}
	for _, holder := range manualHolders {
		ticket, err := ticketService.IssueManual(ctx, firstSlot, holder.name, holder.dni, holder.category)
		if err != nil {
			return fmt.Errorf("failed to issue manual ticket for %s: %w", holder.name, err)
		}
		fmt.Printf("    ✅ Manual ticket: %s (%s)\n", ticket.Code, ticket.Category)
	}

	return nil
}
