package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"villageboard/internal/config"
	"villageboard/internal/db"
	"villageboard/internal/model"
	"villageboard/internal/repository"
)

// seedPassword is the shared password for demo accounts.
const seedPassword = "village123"

type seedMember struct {
	Name  string
	Email string
}

type seedAnnouncement struct {
	OwnerEmail  string
	Title       string
	Description string
	Status      model.Status
}

var seedMembers = []seedMember{
	{Name: "Ana Morales", Email: "ana@vernonvillage.org"},
	{Name: "Ben Carter", Email: "ben@vernonvillage.org"},
	{Name: "Carla Nguyen", Email: "carla@vernonvillage.org"},
}

var seedAnnouncements = []seedAnnouncement{
	{OwnerEmail: "ana@vernonvillage.org", Title: "Block Party", Description: "Saturday 5pm at the commons, bring a dish to share.", Status: model.StatusApproved},
	{OwnerEmail: "ana@vernonvillage.org", Title: "Lost Cat", Description: "Orange tabby, answers to Milo, last seen near Elm St.", Status: model.StatusPending},
	{OwnerEmail: "ben@vernonvillage.org", Title: "Garage Sale", Description: "Furniture and tools, Sunday morning at 42 Maple Ave.", Status: model.StatusPending},
	{OwnerEmail: "carla@vernonvillage.org", Title: "Book Club", Description: "First meeting Thursday 7pm at the library annex.", Status: model.StatusRejected},
}

func main() {
	log.Println("Starting seed script...")

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Member{}, &model.Announcement{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	memberRepo := repository.NewMemberRepository(gormDB)
	announcementRepo := repository.NewAnnouncementRepository(gormDB)
	ctx := context.Background()

	members, err := seedMemberRecords(ctx, memberRepo)
	if err != nil {
		log.Fatalf("Failed to seed members: %v", err)
	}
	log.Printf("Members ready: %d", len(members))

	created, err := seedAnnouncementRecords(ctx, announcementRepo, members)
	if err != nil {
		log.Fatalf("Failed to seed announcements: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Announcements created: %d", created)
	log.Printf("  - Demo password for all accounts: %s", seedPassword)
}

// seedMemberRecords creates the demo members, skipping any email that already
// exists, and returns all of them keyed by email.
func seedMemberRecords(ctx context.Context, repo repository.MemberRepository) (map[string]*model.Member, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	members := make(map[string]*model.Member, len(seedMembers))
	for _, sm := range seedMembers {
		existing, err := repo.FindByEmail(ctx, sm.Email)
		if err == nil {
			members[sm.Email] = existing
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check member %s: %w", sm.Email, err)
		}

		member := &model.Member{
			Name:         sm.Name,
			Email:        sm.Email,
			PasswordHash: string(hashed),
		}
		if err := repo.Create(ctx, member); err != nil {
			return nil, fmt.Errorf("create member %s: %w", sm.Email, err)
		}
		members[sm.Email] = member
	}

	return members, nil
}

// seedAnnouncementRecords creates the demo announcements for their owners.
func seedAnnouncementRecords(ctx context.Context, repo repository.AnnouncementRepository, members map[string]*model.Member) (int, error) {
	created := 0
	for _, sa := range seedAnnouncements {
		owner, ok := members[sa.OwnerEmail]
		if !ok {
			log.Printf("Skipping announcement %q: unknown owner %s", sa.Title, sa.OwnerEmail)
			continue
		}

		existing, err := repo.ListByOwner(ctx, owner.ID)
		if err != nil {
			return created, fmt.Errorf("list announcements for %s: %w", sa.OwnerEmail, err)
		}
		if hasTitle(existing, sa.Title) {
			continue
		}

		announcement := &model.Announcement{
			Title:       sa.Title,
			Description: sa.Description,
			Status:      sa.Status,
			OwnerID:     owner.ID,
		}
		if err := repo.Create(ctx, announcement); err != nil {
			return created, fmt.Errorf("create announcement %q: %w", sa.Title, err)
		}
		created++
	}

	return created, nil
}

func hasTitle(announcements []model.Announcement, title string) bool {
	for _, a := range announcements {
		if a.Title == title {
			return true
		}
	}
	return false
}
