// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// QueryFrequency records how often a user has asked a normalized assistant
// question, keyed by (user_id, normalized_query). It backs the "frequently
// asked" shortcuts in the admin panel and is pruned to the 50 most recently
// used records per user by the repository layer.
type QueryFrequency struct {
	ID              string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID          string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_norm_query,priority:1"`
	NormalizedQuery string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_norm_query,priority:2"`
	ExampleText     string    `gorm:"type:TEXT NOT NULL"`
	Count           int       `gorm:"type:INTEGER NOT NULL;default:1"`
	FirstUsed       time.Time `gorm:"type:DATETIME NOT NULL"`
	LastUsed        time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (QueryFrequency) TableName() string { return "ai_query_frequency" }
