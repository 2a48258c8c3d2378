// Command seedadmin creates an administrator account. It prompts for the
// password on the terminal so the credential never lands in shell history.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/ksolovey/modacart/internal/common"
	"github.com/ksolovey/modacart/internal/server/auth"
	"github.com/ksolovey/modacart/internal/server/config"
	"github.com/ksolovey/modacart/internal/server/models"
	"github.com/ksolovey/modacart/internal/server/repositories/repomanager"
)

func main() {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	dsn := flag.String("d", cfg.DatabaseDSN, "database DSN")
	username := flag.String("u", "admin", "admin username")
	email := flag.String("e", "", "admin email")
	flag.Parse()

	if *email == "" {
		log.Fatal("email is required (-e)")
	}

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		// Not a terminal, fall back to reading a line from stdin.
		line, rerr := bufio.NewReader(os.Stdin).ReadString('\n')
		if rerr != nil {
			log.Fatalf("reading password: %v", err)
		}
		password = []byte(strings.TrimRight(line, "\r\n"))
	}
	defer common.WipeByteArray(password)

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		log.Fatalf("hashing password: %v", err)
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	user, err := rm.Users(db).Create(ctx, &models.User{
		UserName:     *username,
		Email:        *email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("creating admin: %v", err)
	}

	fmt.Printf("admin created id=%s\n", user.ID)
}
