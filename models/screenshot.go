package models

import (
	"time"
)

// Screenshot represents an uploaded box-score capture awaiting or past OCR.
type Screenshot struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FileName    string `gorm:"size:255;not null"`
	StorePath   string `gorm:"column:store_path;size:512"` // public relative path (e.g. public/shots/xxx.png)
	PlayerID    uint   `gorm:"index;not null"`             // FK to players.id (player_id)
	Player      Player `gorm:"foreignKey:PlayerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ContentType string `gorm:"size:128"`
	BoxScoreID  *uint  `gorm:"index"` // FK to box_scores.id (nullable)
	// Mark screenshot as failed for OCR processing (do not delete record so front-end/admin can review)
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
