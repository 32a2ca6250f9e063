package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&Node{},
		&Name{},
		&Merged{},
	}
}

// TableNames returns table names in the order of AllModels.
func TableNames() []string {
	return []string{
		Node{}.TableName(),
		Name{}.TableName(),
		Merged{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
