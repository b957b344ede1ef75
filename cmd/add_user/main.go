package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/services"
)

// Bootstraps the first back-office user so the login endpoint has
// someone to authenticate.
func main() {
	name := flag.String("name", "", "Full name (mandatory)")
	email := flag.String("email", "", "Login email (mandatory)")
	password := flag.String("password", "", "Password (mandatory)")
	userType := flag.String("type", string(models.UserTypeAdmin), "User type: Admin or Cobrador")

	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		fmt.Println("Usage: add_user -name <name> -email <email> -password <password> [-type Admin|Cobrador]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := services.InitDB(dsn)
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		UserType:     models.UserType(*userType),
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created successfully: %s (%s)\n", user.Name, user.Email)
}
