package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/course-marketplace/config"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

type seedUser struct {
	name, email, password string
	role                  entity.Role
	balance               int64
}

func upsertUser(db *sql.DB, u seedUser) string {
	hash, err := helpers.HashPassword(u.password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, token_balance)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING id
	`, u.name, u.email, hash, string(u.role), u.balance).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", u.email, err)
	}
	fmt.Printf("seeded %s: id=%s email=%s password=%s\n", u.role, id, u.email, u.password)
	return id
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	teacherName := "Demo Teacher"
	teacherID := upsertUser(db, seedUser{name: teacherName, email: "teacher@example.com", password: "password123", role: entity.RoleTeacher})
	upsertUser(db, seedUser{name: "Demo Student", email: "student@example.com", password: "password123", role: entity.RoleStudent, balance: 500})

	sections, err := json.Marshal([]entity.Section{
		{SectionID: "s1", Title: "Getting started", Description: "Tooling and setup"},
		{SectionID: "s2", Title: "Core concepts", Description: "Types, functions and packages"},
		{SectionID: "s3", Title: "Building a service", Description: "HTTP, storage and tests"},
	})
	if err != nil {
		log.Fatalf("failed to encode sections: %v", err)
	}

	var exists bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM courses WHERE author_id = $1 AND title = $2)`,
		teacherID, "Go from Zero").Scan(&exists); err != nil {
		log.Fatalf("failed to check course: %v", err)
	}
	if exists {
		fmt.Println("course already seeded")
		return
	}

	var courseID string
	err = db.QueryRow(`
		INSERT INTO courses (title, category, author, author_id, price, sections, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, true)
		RETURNING id
	`, "Go from Zero", "programming", teacherName, teacherID, 50, string(sections)).Scan(&courseID)
	if err != nil {
		log.Fatalf("failed to seed course: %v", err)
	}
	fmt.Printf("seeded featured course: id=%s sections=3 price=50\n", courseID)
}
