package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an initial superadmin",
	Long:  `Create the first superadmin account so invitations can be issued. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		email := "superadmin@mail.com"
		password := "superadmin1"
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		var exists int
		if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", email).Scan(&exists); err == nil {
			fmt.Println("superadmin already exists:", email)
			return
		}

		_, err = db.Exec(`INSERT INTO users
			(email, password_hash, first_name, last_name, role, email_verified, created_at, updated_at)
			VALUES ($1, $2, 'Super', 'Admin', 'superadmin', true, now(), now())`,
			email, string(hash))
		if err != nil {
			log.Fatalf("failed to insert superadmin: %v", err)
		}

		fmt.Println("Seeded superadmin:", email)
		fmt.Println("Change the password after first sign-in.")
	},
}
