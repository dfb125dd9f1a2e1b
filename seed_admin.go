package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"internship-registry-server/utils"
)

// seedAdmin inserts the first admin account when the users table has none.
// Runs at startup when SEED_ADMIN=true; uses plain database/sql so it works
// against a fresh schema before GORM is involved.
func seedAdmin() error {
	connString := os.Getenv("DB_URL")
	if connString == "" {
		return fmt.Errorf("DB_URL is required")
	}

	db, err := sql.Open("postgres", connString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE is_admin = true").Scan(&count); err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		log.Println("ℹ️ Admin account already exists, skipping seed")
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	mobile := os.Getenv("ADMIN_MOBILE")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || mobile == "" || password == "" {
		return fmt.Errorf("ADMIN_USERNAME, ADMIN_MOBILE and ADMIN_PASSWORD are required to seed the first admin")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	_, err = db.Exec(
		`INSERT INTO users (username, mobile, password_hash, is_admin, created_at, updated_at)
		 VALUES ($1, $2, $3, true, $4, $4)`,
		username, utils.FormatMobile(mobile), hash, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}

	log.Printf("✅ Admin account seeded: %s", username)
	return nil
}
