// Creates the tables the API expects. Run once against a fresh database:
//
//	go run ./scripts/bootstrap-db -conn "user=resep dbname=resep sslmode=disable password=... host=localhost"
package main

import (
	"flag"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR NOT NULL,
		email VARCHAR NOT NULL UNIQUE,
		username VARCHAR NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		fcm_token TEXT NOT NULL DEFAULT '',
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (id)
	);`,
	`CREATE TABLE IF NOT EXISTS user_credentials (
		user_id VARCHAR NOT NULL,
		password_hash VARCHAR NOT NULL,
		PRIMARY KEY (user_id)
	);`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		ingredients JSONB NOT NULL,
		steps JSONB NOT NULL,
		prep_time_minutes INTEGER NOT NULL DEFAULT 0,
		user_id VARCHAR NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (id)
	);`,
	`CREATE INDEX IF NOT EXISTS recipes_user_id_idx ON recipes (user_id);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id VARCHAR NOT NULL,
		title VARCHAR NOT NULL,
		message TEXT NOT NULL,
		sent_by VARCHAR NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (id)
	);`,
}

func main() {
	conn := flag.String("conn", "user=resep dbname=resep sslmode=disable host=localhost", "postgres connection string")
	flag.Parse()

	db, err := sqlx.Connect("postgres", *conn)
	if err != nil {
		log.Fatalln(err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalln("error", err)
		}
	}

	log.Println("schema ready")
}
