package report

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"boxscore/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

// RunReport prints a month-bounded report for username (month in YYYY-MM) and
// optionally lists matching box_scores rows.
func RunReport(username, month string, list bool) {
	gdb := mustDBFromEnv()

	var user models.User
	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	t, err := time.Parse("2006-01", month)
	if err != nil {
		log.Fatalf("invalid month format, expected YYYY-MM: %v", err)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var cnt int64
	var avgPts, avgReb, avgAst sql.NullFloat64
	if err := gdb.Raw(`SELECT COUNT(*) AS cnt,
		AVG(points) AS avg_pts, AVG(rebounds) AS avg_reb, AVG(assists) AS avg_ast
		FROM box_scores WHERE user_id = ? AND date >= ? AND date < ?`, user.ID, start, end).
		Row().Scan(&cnt, &avgPts, &avgReb, &avgAst); err != nil {
		log.Fatalf("query failed: %v", err)
	}

	fmt.Printf("Report for user=%s month=%s (UTC):\n", user.Username, month)
	fmt.Printf("  games=%d avg_points=%.1f avg_rebounds=%.1f avg_assists=%.1f\n", cnt, avgPts.Float64, avgReb.Float64, avgAst.Float64)

	if list {
		var rows []models.BoxScore
		if err := gdb.Where("user_id = ? AND date >= ? AND date < ?", user.ID, start, end).Order("id").Find(&rows).Error; err != nil {
			log.Fatalf("fetch rows failed: %v", err)
		}
		for _, r := range rows {
			fmt.Printf("%d|%s|%s|%d|%d|%d|%d/%d|%d/%d|%d/%d|%s\n",
				r.ID, r.FileName, r.Grade, r.Points, r.Rebounds, r.Assists,
				r.FGM, r.FGA, r.TPM, r.TPA, r.FTM, r.FTA, r.Date.Format("2006-01-02"))
		}
	}
}
