package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type User struct {
	ID       uint
	Username string
}
type Player struct {
	ID     uint
	UserID uint
}
type Screenshot struct {
	ID           uint
	PlayerID     uint
	FileName     string
	StorePath    string
	ContentType  string
	BoxScoreID   *uint
	Failed       bool
	FailedReason string
}

func (Screenshot) TableName() string { return "screenshots" }
func (Player) TableName() string     { return "players" }

func main() {
	username := flag.String("username", "", "username")
	file := flag.String("file", "", "file name")
	flag.Parse()
	if *username == "" || *file == "" {
		log.Fatal("--username and --file required")
	}
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in env")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	var u User
	if err := db.Where("username = ?", *username).First(&u).Error; err != nil {
		log.Fatalf("user: %v", err)
	}
	var p Player
	if err := db.Where("user_id = ?", u.ID).First(&p).Error; err != nil {
		log.Fatalf("player: %v", err)
	}
	var s Screenshot
	err = db.Where("player_id = ? AND file_name = ?", p.ID, *file).Order("id desc").First(&s).Error
	if err != nil {
		log.Fatalf("screenshot: %v", err)
	}
	fmt.Printf("screenshot id=%d box_score_id=%v failed=%v reason=%q store=%s ct=%s\n", s.ID, s.BoxScoreID, s.Failed, s.FailedReason, s.StorePath, s.ContentType)
}
