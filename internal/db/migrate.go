package db

import (
	"fmt" // Error wrapping

	"hospital_insights/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the relational schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate creates the user table and its unique username index
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return err
	}
	if stmt := caseSensitiveUsernames(db.Dialector.Name()); stmt != "" {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("make usernames case-sensitive: %w", err)
		}
	}
	logrus.Info("Migration completed.")
	return nil
}

// caseSensitiveUsernames returns the statement that makes the unique
// username index compare exactly. MySQL's default collation folds case;
// SQLite and PostgreSQL already compare bytes.
func caseSensitiveUsernames(dialect string) string {
	if dialect != "mysql" {
		return ""
	}
	return "ALTER TABLE app_users MODIFY username VARCHAR(120) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
}
