package migration

import (
	"PayGuard-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Scan{}); err != nil {
		log.Fatalf("Error migrating scan database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.FraudAlert{}); err != nil {
		log.Fatalf("Error migrating fraud alert database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
