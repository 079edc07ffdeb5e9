// Command seed populates a postgres database with a demo chart of accounts
// and a month of random transactions, so the SPA has something to show on a
// fresh install.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	txCount := flag.Int("transactions", 50, "number of random transactions to generate")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file, relying on environment: %v", err)
	}

	db, err := sql.Open("postgres", connString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	categories := seedCategories(db)
	accounts := seedAccounts(db, categories)
	seedTransactions(db, accounts, *txCount)

	log.Printf("Seeded %d categories, %d accounts, %d transactions",
		len(categories), len(accounts), *txCount+1)
}

func connString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DATABASE_HOST", "localhost"),
		getEnv("DATABASE_PORT", "5432"),
		getEnv("DATABASE_USER", "postgres"),
		getEnv("DATABASE_PASSWORD", "password"),
		getEnv("DATABASE_NAME", "pfm"),
		getEnv("DATABASE_SSL_MODE", "disable"),
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func seedCategories(db *sql.DB) map[string]int {
	categories := make(map[string]int)
	for _, name := range []string{"Equity", "Assets", "Expenses", "Income"} {
		var id int
		err := db.QueryRow(
			`INSERT INTO categories (name, created_at, updated_at) VALUES ($1, NOW(), NOW()) RETURNING id`,
			name,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to insert category %s: %v", name, err)
		}
		categories[name] = id
	}
	return categories
}

func seedAccounts(db *sql.DB, categories map[string]int) map[string]int {
	specs := []struct {
		name     string
		category string
		position int
		system   bool
	}{
		{"OpeningBalance", "Equity", 0, true},
		{"Checking", "Assets", 1, false},
		{"Savings", "Assets", 2, false},
		{"Groceries", "Expenses", 3, false},
		{"Rent", "Expenses", 4, false},
		{"Employer", "Income", 5, false},
	}

	accounts := make(map[string]int)
	for _, spec := range specs {
		var id int
		err := db.QueryRow(
			`INSERT INTO accounts (category_id, name, position, system, created_at, updated_at) VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id`,
			categories[spec.category], spec.name, spec.position, spec.system,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to insert account %s: %v", spec.name, err)
		}
		accounts[spec.name] = id
	}
	return accounts
}

func seedTransactions(db *sql.DB, accounts map[string]int, count int) {
	insert := func(from, to int, date time.Time, descr string, cents int64) {
		_, err := db.Exec(
			`INSERT INTO transactions (from_account_id, to_account_id, date, descr, cents, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
			from, to, midnight(date), descr, cents,
		)
		if err != nil {
			log.Fatalf("Failed to insert transaction: %v", err)
		}
	}

	start := time.Now().AddDate(0, -1, 0)
	insert(accounts["OpeningBalance"], accounts["Checking"], start, "Opening balance", 250_000)

	spenders := []string{"Groceries", "Rent", "Savings"}
	for i := 0; i < count; i++ {
		to := accounts[spenders[rand.Intn(len(spenders))]]
		date := start.AddDate(0, 0, rand.Intn(30))
		if rand.Intn(10) == 0 {
			// the occasional payday
			insert(accounts["Employer"], accounts["Checking"], date, "Salary", 300_000)
			continue
		}
		insert(accounts["Checking"], to, date, gofakeit.Sentence(3), int64(rand.Intn(15_000)+500))
	}
}

func midnight(t time.Time) int64 {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
}
