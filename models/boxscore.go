package models

import "time"

// BoxScore is one interpreted stat line for a user's game
type BoxScore struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_user_boxscore_file"`
	FileName  string    `gorm:"size:255;not null;uniqueIndex:idx_user_boxscore_file"`
	Username  string    `gorm:"size:255;not null"` // gamertag as read off the HUD
	Grade     string    `gorm:"size:4"`
	Points    int       `gorm:"not null"`
	Rebounds  int       `gorm:"not null"`
	Assists   int       `gorm:"not null"`
	Steals    int       `gorm:"not null"`
	Blocks    int       `gorm:"not null"`
	Fouls     int       `gorm:"not null"`
	Turnovers int       `gorm:"not null"`
	FGM       int       `gorm:"not null"`
	FGA       int       `gorm:"not null"`
	TPM       int       `gorm:"column:tpm;not null"`
	TPA       int       `gorm:"column:tpa;not null"`
	FTM       int       `gorm:"not null"`
	FTA       int       `gorm:"not null"`
	Date      time.Time `gorm:"not null"`
}
