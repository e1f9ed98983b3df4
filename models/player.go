package models

import "time"

// Player represents a user's in-game identity (one-to-one with User)
type Player struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
	// Active indicates whether the player is active. Use this for soft-state
	// instead of physically deleting the record. Defaults to true.
	Active   bool   `gorm:"default:true;not null"`
	UserID   uint   `gorm:"uniqueIndex;not null"` // one-to-one relation
	User     User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Gamertag string `gorm:"size:255;not null"` // name as it appears on the box-score HUD
	Position string `gorm:"size:32"`
	Team     string `gorm:"size:255"`
	// Screenshots is a one-to-many relation from Player to Screenshot
	Screenshots []Screenshot `gorm:"foreignKey:PlayerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
