package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aspira/internal/config"
	"aspira/internal/db"
	"aspira/internal/model"
	"aspira/internal/repository"
)

type seedUser struct {
	Username string
	Email    string
	Password string
	FullName string
	NIM      string
	Jurusan  string
	Angkatan int
	Posts    []string
}

var fixtures = []seedUser{
	{
		Username: "budi.santoso",
		Email:    "budi.santoso@kampus.ac.id",
		Password: "rahasia-sekali",
		FullName: "Budi Santoso",
		NIM:      "21120001",
		Jurusan:  "Teknik Informatika",
		Angkatan: 2021,
		Posts: []string{
			"Kantin fakultas butuh lebih banyak tempat duduk.",
			"Usul: perpanjang jam buka perpustakaan saat minggu ujian.",
		},
	},
	{
		Username: "siti.rahma",
		Email:    "siti.rahma@kampus.ac.id",
		Password: "rahasia-juga",
		FullName: "Siti Rahma",
		NIM:      "22130042",
		Jurusan:  "Sistem Informasi",
		Angkatan: 2022,
		Posts: []string{
			"Wifi gedung C sering putus, tolong ditindaklanjuti.",
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Post{},
		&model.Comment{},
		&model.Reaction{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, fixture := range fixtures {
		if _, err := userRepo.FindByUsername(ctx, fixture.Username); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check user %s: %v", fixture.Username, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(fixture.Password), 10)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", fixture.Username, err)
		}

		user := &model.User{
			Username:     fixture.Username,
			Email:        fixture.Email,
			PasswordHash: string(hashed),
		}
		// Seed accounts come pre-verified so they can log in immediately.
		profile := &model.Profile{
			NIM:             fixture.NIM,
			FullName:        fixture.FullName,
			Jurusan:         fixture.Jurusan,
			Angkatan:        fixture.Angkatan,
			IsEmailVerified: true,
		}
		if err := userRepo.CreateWithProfile(ctx, user, profile); err != nil {
			log.Fatalf("Failed to create user %s: %v", fixture.Username, err)
		}

		for _, content := range fixture.Posts {
			if err := postRepo.Create(ctx, &model.Post{UserID: user.ID, Content: content}); err != nil {
				log.Fatalf("Failed to create post for %s: %v", fixture.Username, err)
			}
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New accounts created: %d", created)
	log.Printf("  - Existing accounts skipped: %d", skipped)
}
