package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/slotline/booking-api/internal/adapters/database"
	"github.com/slotline/booking-api/internal/domain/entities"
	"github.com/slotline/booking-api/internal/infrastructure/clients/postgres"
	"github.com/slotline/booking-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	userRepo := database.NewUserAdapter(pgClient)
	appointmentRepo := database.NewAppointmentAdapter(pgClient)

	ctx := context.Background()
	db := pgClient.DB()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := db.ExecContext(ctx, `
			TRUNCATE TABLE
				appointments,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed providers
	providers := []entities.User{
		{ID: uuid.New().String(), Name: "Sérgio Oliveira", Email: "sergio@slotline.dev", Provider: true, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Ana Beatriz Costa", Email: "ana@slotline.dev", Provider: true, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "João Pedro Santos", Email: "joao@slotline.dev", Provider: true, CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}

	// 2. Seed customers
	customers := []entities.User{
		{ID: uuid.New().String(), Name: "Mariana Lima", Email: "mariana@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Carlos Eduardo", Email: "carlos@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Fernanda Rocha", Email: "fernanda@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Rafael Almeida", Email: "rafael@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}

	for _, u := range append(providers, customers...) {
		_, err := db.ExecContext(
			ctx,
			`INSERT INTO users (id, name, email, provider, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, NOW(), NOW())
			 ON CONFLICT (email) DO NOTHING`,
			u.ID, u.Name, u.Email, u.Provider,
		)
		if err != nil {
			log.Printf("Failed to create user %s: %v", u.Name, err)
		}
	}

	// 3. Seed appointments over the coming week, one customer per provider per slot
	base := time.Now().AddDate(0, 0, 1)
	for day := 0; day < 5; day++ {
		for i, p := range providers {
			customer := customers[(day+i)%len(customers)]
			requested := time.Date(base.Year(), base.Month(), base.Day(), 9+2*i, 15, 0, 0, time.Local).AddDate(0, 0, day)
			appointment := &entities.Appointment{
				ID:         uuid.New().String(),
				UserID:     customer.ID,
				ProviderID: p.ID,
				Date:       requested,
				Slot:       entities.SlotFor(requested),
			}
			if err := appointmentRepo.Create(ctx, appointment); err != nil {
				log.Printf("Failed to create appointment with %s: %v", p.Name, err)
			}
		}
	}

	// Verify seeded data is readable through the repository layer
	if sample, err := userRepo.GetProvider(ctx, providers[0].ID); err != nil {
		log.Printf("Failed to read back provider %s: %v", providers[0].Name, err)
	} else {
		log.Printf("Seeded provider %s (%s)", sample.Name, sample.ID)
	}

	log.Println("Seeding completed successfully")
}
