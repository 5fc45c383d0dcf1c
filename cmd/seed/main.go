package main

import (
	"errors"
	"log"
	"os"

	"second-brain-be/internal/entity"
	"second-brain-be/internal/model"
	"second-brain-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a demo account with a couple of folders and notes. Safe to run
// repeatedly, existing rows are left alone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo data...")

	user, err := seedUser(db, "demo@secondbrain.dev", "Demo User", "demo-password")
	if err != nil {
		color.Red("Failed to seed user: %v", err)
		os.Exit(1)
	}

	folders := map[string][]model.Note{
		entity.DefaultFolderName: {
			{Title: "Welcome", Content: "Everything without a folder lands here."},
		},
		"Reading List": {
			{Title: "The Mythical Man-Month", Content: "Adding people to a late project makes it later."},
			{Title: "Thinking, Fast and Slow", Content: "System 1 is fast and intuitive, System 2 is slow and deliberate."},
		},
		"Ideas": {
			{Title: "Weekly review habit", Content: "Sunday evening: sweep the Unfiled folder, file or delete."},
		},
	}

	for name, notes := range folders {
		if err := seedFolder(db, user.Id, name, notes); err != nil {
			color.Red("Failed to seed folder %q: %v", name, err)
			os.Exit(1)
		}
		color.Green("Folder %q seeded with %d notes", name, len(notes))
	}

	color.Cyan("Done. Login with demo@secondbrain.dev / demo-password")
}

func seedUser(db *gorm.DB, email, name, password string) (*model.User, error) {
	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		color.Yellow("User %s already exists, skipping", email)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := model.User{
		Id:           uuid.New(),
		Email:        email,
		FullName:     name,
		PasswordHash: &hashStr,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	color.Green("User %s created", email)
	return &user, nil
}

func seedFolder(db *gorm.DB, userId uuid.UUID, name string, notes []model.Note) error {
	var folder model.Folder
	err := db.Where("user_id = ? AND name = ?", userId, name).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		folder = model.Folder{
			Id:     uuid.New(),
			Name:   name,
			UserId: userId,
		}
		if err := db.Create(&folder).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	for _, note := range notes {
		var count int64
		if err := db.Model(&model.Note{}).
			Where("user_id = ? AND folder_id = ? AND title = ?", userId, folder.Id, note.Title).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		note.Id = uuid.New()
		note.UserId = userId
		note.FolderId = folder.Id
		if err := db.Create(&note).Error; err != nil {
			return err
		}
	}

	return nil
}
