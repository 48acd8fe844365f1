package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/playarena/backend/internal/config"
	"github.com/playarena/backend/internal/database"
)

// Seeds demo player accounts for local play. Accounts come from
// SEED_ACCOUNTS (comma separated), each with the SEED_PIN and
// SEED_BALANCE.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	accounts := os.Getenv("SEED_ACCOUNTS")
	if accounts == "" {
		accounts = "256700000001,256700000002,256700000003,256700000004"
	}
	pin := os.Getenv("SEED_PIN")
	if pin == "" {
		pin = "1234"
		log.Printf("WARNING: Using default PIN %s for demo accounts", pin)
	}
	balance := 1000
	if v := os.Getenv("SEED_BALANCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			balance = n
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash PIN: %v", err)
	}

	for i, account := range strings.Split(accounts, ",") {
		account = strings.TrimSpace(account)
		if account == "" {
			continue
		}
		_, err := db.Exec(`
			INSERT INTO players (account, display_name, pin_hash, balance, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			ON CONFLICT (account) DO UPDATE SET pin_hash=EXCLUDED.pin_hash, balance=EXCLUDED.balance, updated_at=NOW()`,
			account, "Demo Player", string(hash), balance)
		if err != nil {
			log.Fatalf("Failed to seed account %s: %v", account, err)
		}
		log.Printf("Seeded account %d: %s (balance=%d)", i+1, account, balance)
	}

	log.Println("Demo accounts ready. Login with the seeded PIN.")
}
