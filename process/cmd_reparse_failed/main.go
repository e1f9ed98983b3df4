package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"boxscore/pkg/boxscore"

	_ "github.com/lib/pq"
)

// Re-runs interpretation for screenshots previously marked failed. Failures
// usually come from glare or a cropped HUD; a re-shot or re-cropped file with
// the same name can make them pass.
func main() {
	username := flag.String("username", "admin", "account whose failed screenshots to retry")
	dir := flag.String("dir", "public/shots", "base dir for files")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set")
	}

	engine, err := boxscore.NewTesseractEngine()
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	pipe := boxscore.NewPipeline(engine)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT s.id, s.file_name, s.store_path, u.id, p.gamertag
		FROM screenshots s
		JOIN players p ON p.id = s.player_id
		JOIN users u ON u.id = p.user_id
		WHERE u.username=$1 AND s.failed = true`, *username)
	if err != nil {
		log.Fatalf("query: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shotID, userID int
		var fname, gamertag string
		var store sql.NullString
		if err := rows.Scan(&shotID, &fname, &store, &userID, &gamertag); err != nil {
			log.Printf("scan: %v", err)
			continue
		}
		path := *dir + "/" + fname
		if store.Valid && store.String != "" {
			path = store.String
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("read %s: %v", path, err)
			continue
		}
		rec, err := pipe.ExtractPlayerStats(data, gamertag)
		if err != nil {
			log.Printf("still failing id=%d file=%s: %v", shotID, fname, err)
			if _, uerr := db.Exec(`UPDATE screenshots SET failed_reason=$1 WHERE id=$2`, err.Error(), shotID); uerr != nil {
				log.Printf("update reason id=%d: %v", shotID, uerr)
			}
			continue
		}

		var bsID int
		err = db.QueryRow(`INSERT INTO box_scores
			(created_at, updated_at, user_id, file_name, username, grade,
			 points, rebounds, assists, steals, blocks, fouls, turnovers,
			 fgm, fga, tpm, tpa, ftm, fta, date)
			VALUES (now(), now(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, to_date($18,'YYYY-MM-DD'))
			ON CONFLICT (user_id, file_name) DO UPDATE SET updated_at = now()
			RETURNING id`,
			userID, fname, rec.Username, rec.Grade,
			rec.Points, rec.Rebounds, rec.Assists, rec.Steals, rec.Blocks, rec.Fouls, rec.Turnovers,
			rec.FGM, rec.FGA, rec.TPM, rec.TPA, rec.FTM, rec.FTA, rec.Date).Scan(&bsID)
		if err != nil {
			log.Printf("insert box score id=%d: %v", shotID, err)
			continue
		}
		if _, err := db.Exec(`UPDATE screenshots SET failed=false, failed_reason='', box_score_id=$1 WHERE id=$2`, bsID, shotID); err != nil {
			log.Printf("update screenshot id=%d: %v", shotID, err)
			continue
		}
		fmt.Printf("recovered id=%d file=%s pts=%d fg=%d/%d\n", shotID, fname, rec.Points, rec.FGM, rec.FGA)
	}
}
