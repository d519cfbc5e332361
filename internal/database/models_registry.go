package database

import "moneta/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Follower{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.FinancialTarget{},
	}
}
