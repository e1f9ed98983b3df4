package main

import (
	"flag"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"boxscore/models"
	"boxscore/pkg/boxscore"
)

// Global DB handle for helper funcs
var db *gorm.DB

// shared OCR pipeline, nil only in dry-run
var pipeline *boxscore.Pipeline

// global flags (parsed in main)
var (
	verbose     bool
	simulateOCR bool
)

// MIME mapping to avoid opening files repeatedly
var extMime = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// preload caches
type preloadState struct {
	shotsByFile  map[string]*models.Screenshot // fileName -> screenshot
	scoresByFile map[string]*models.BoxScore   // fileName -> box score
	mu           sync.RWMutex
}

func newPreloadState() *preloadState {
	return &preloadState{
		shotsByFile:  make(map[string]*models.Screenshot, 1024),
		scoresByFile: make(map[string]*models.BoxScore, 1024),
	}
}

func (ps *preloadState) getShot(name string) (*models.Screenshot, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	s, ok := ps.shotsByFile[name]
	return s, ok
}
func (ps *preloadState) putShot(s *models.Screenshot) {
	ps.mu.Lock()
	ps.shotsByFile[s.FileName] = s
	ps.mu.Unlock()
}
func (ps *preloadState) getScore(name string) (*models.BoxScore, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	b, ok := ps.scoresByFile[name]
	return b, ok
}
func (ps *preloadState) putScore(b *models.BoxScore) {
	ps.mu.Lock()
	ps.scoresByFile[b.FileName] = b
	ps.mu.Unlock()
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

// Main: scans a directory of box-score screenshots, creates Screenshot rows,
// runs OCR to create/link BoxScore, optional watch mode.
func main() {
	dirFlag := flag.String("dir", "public/shots", "directory to scan for box-score screenshots")
	playerID := flag.Uint("player-id", 0, "Player ID to assign screenshots to (if omitted attempts admin player)")
	dryRun := flag.Bool("dry-run", false, "Skip all DB queries and writes; just list / optionally OCR (see --simulate-ocr)")
	watch := flag.Bool("watch", false, "Watch directory for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.BoolVar(&simulateOCR, "simulate-ocr", false, "In dry-run: actually run OCR to show potential stat lines")
	flag.Parse()

	if *dryRun {
		log.Printf("Dry-run: scanning %s (no DB interaction)", *dirFlag)
		files := listImageFiles(*dirFlag)
		log.Printf("Found %d candidate files", len(files))
		if simulateOCR {
			engine, err := boxscore.NewTesseractEngine()
			if err != nil {
				log.Fatalf("simulate-ocr needs tesseract: %v", err)
			}
			pipe := boxscore.NewPipeline(engine)
			gamertag := os.Getenv("GAMERTAG")
			if gamertag == "" {
				log.Fatal("simulate-ocr needs GAMERTAG in environment")
			}
			for _, f := range files {
				data, err := os.ReadFile(filepath.Join(*dirFlag, f))
				if err != nil {
					continue
				}
				if rec, err := pipe.ExtractPlayerStats(data, gamertag); err == nil {
					logV("OCR %s pts=%d reb=%d ast=%d fg=%d/%d", f, rec.Points, rec.Rebounds, rec.Assists, rec.FGM, rec.FGA)
				} else {
					logV("OCR %s failed: %v", f, err)
				}
			}
		}
		return
	}

	engine, err := boxscore.NewTesseractEngine()
	if err != nil {
		log.Fatalf("tesseract required: %v", err)
	}
	pipeline = boxscore.NewPipeline(engine)

	db = mustInitDBFromEnv()
	player := resolvePlayer(*playerID)
	// preload all screenshots & box scores
	ps := preloadAll(player)
	log.Printf("Preloaded: screenshots=%d box scores=%d", len(ps.shotsByFile), len(ps.scoresByFile))

	// gather initial file list
	files := listImageFiles(*dirFlag)
	log.Printf("Scanning %d files (workers=%d)", len(files), effectiveWorkers(*workers))
	runWorkerPool(*dirFlag, player, ps, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(*dirFlag, player, ps, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// preloadAll fetches existing screenshots and box scores to minimize per-file queries.
func preloadAll(player models.Player) *preloadState {
	ps := newPreloadState()
	var shots []models.Screenshot
	if err := db.Where("player_id = ?", player.ID).Find(&shots).Error; err == nil {
		for i := range shots {
			s := shots[i]
			ps.shotsByFile[s.FileName] = &s
		}
	}
	var scores []models.BoxScore
	if err := db.Where("user_id = ?", player.UserID).Find(&scores).Error; err == nil {
		for i := range scores {
			b := scores[i]
			ps.scoresByFile[b.FileName] = &b
		}
	}
	return ps
}

// resolvePlayer finds the player either by explicit id or by admin username.
func resolvePlayer(id uint) models.Player {
	var p models.Player
	if id != 0 {
		if err := db.First(&p, id).Error; err != nil {
			log.Fatalf("failed to find player id %d: %v", id, err)
		}
		return p
	}
	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		log.Fatalf("no --player-id provided and admin user not found: %v", err)
	}
	if err := db.Where("user_id = ?", admin.ID).First(&p).Error; err != nil {
		log.Fatalf("admin player not found: %v", err)
	}
	return p
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func watchDirectory(dir string, player models.Player, ps *preloadState, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	// Use worker pool for watch events too
	go runWorkerPool(dir, player, ps, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}

func isSupportedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}

// worker pool orchestrator
func runWorkerPool(dir string, player models.Player, ps *preloadState, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processSingleFile(dir, name, player, ps)
			}
		}()
	}
	// feed initial
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		// also relay from extra channels if provided
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		// if no extraCh (scan only) close when done
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// processSingleFile processes a single filename using preloaded maps & minimal queries.
func processSingleFile(dir, name string, player models.Player, ps *preloadState) {
	storePath := filepath.ToSlash(filepath.Join("public", filepath.Base(dir), name))
	filePath := filepath.Join(dir, name)

	if _, ok := ps.getScore(name); ok { // box score already exists
		logV("SKIP box score exists %s", name)
		return
	}
	shot, shotExists := ps.getShot(name)
	if shotExists && shot.BoxScoreID != nil { // already linked
		logV("SKIP screenshot already linked %s", name)
		return
	}
	if shotExists && shot.Failed {
		logV("SKIP screenshot previously failed %s", name)
		return
	}

	// If screenshot doesn't exist, create it (DB write)
	if !shotExists {
		newShot := models.Screenshot{PlayerID: player.ID, FileName: name, StorePath: storePath}
		if ct := mimeFromExt(name); ct != "" {
			newShot.ContentType = ct
		}
		if err := db.Create(&newShot).Error; err != nil {
			if isUniqueConstraintError(err) { // race: someone else created
				if err2 := db.Where("store_path = ?", storePath).First(&newShot).Error; err2 != nil {
					log.Printf("WARN fetch after race failed %s: %v", storePath, err2)
					return
				}
			} else {
				log.Printf("ERROR create screenshot %s: %v", storePath, err)
				return
			}
		}
		ps.putShot(&newShot)
		shot = &newShot
		log.Printf("NEW screenshot id=%d file=%s", newShot.ID, name)
	}

	// Fill missing content type cheaply
	if shot.ContentType == "" {
		if ct := mimeFromExt(name); ct != "" {
			shot.ContentType = ct
			_ = db.Save(shot).Error
		}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		logV("read fail %s: %v", name, err)
		return
	}
	rec, err := pipeline.ExtractPlayerStats(data, player.Gamertag)
	if err != nil {
		// keep the record with the reason so an operator can review and reprocess
		shot.Failed = true
		shot.FailedReason = err.Error()
		_ = db.Save(shot).Error
		log.Printf("FAILED %s: %v", name, err)
		return
	}

	// Re-check if a box score was created concurrently
	if _, ok := ps.getScore(name); ok {
		return
	}

	// create box score + link
	date, derr := time.Parse("2006-01-02", rec.Date)
	if derr != nil {
		date = time.Now()
	}
	bs := models.BoxScore{
		UserID: player.UserID, FileName: name, Username: rec.Username, Grade: rec.Grade,
		Points: rec.Points, Rebounds: rec.Rebounds, Assists: rec.Assists, Steals: rec.Steals,
		Blocks: rec.Blocks, Fouls: rec.Fouls, Turnovers: rec.Turnovers,
		FGM: rec.FGM, FGA: rec.FGA, TPM: rec.TPM, TPA: rec.TPA, FTM: rec.FTM, FTA: rec.FTA,
		Date: date,
	}
	if err := db.Create(&bs).Error; err != nil {
		if isUniqueConstraintError(err) { // fetch existing
			var existing models.BoxScore
			if err2 := db.Where("user_id = ? AND file_name = ?", player.UserID, name).First(&existing).Error; err2 == nil {
				ps.putScore(&existing)
				if shot.BoxScoreID == nil {
					shot.BoxScoreID = &existing.ID
					_ = db.Save(shot).Error
				}
			}
		} else {
			log.Printf("ERROR create box score %s: %v", name, err)
		}
		return
	}
	ps.putScore(&bs)
	if shot.BoxScoreID == nil {
		shot.BoxScoreID = &bs.ID
		_ = db.Save(shot).Error
	}
	log.Printf("BOXSCORE pts=%d linked file=%s screenshot=%d", bs.Points, name, shot.ID)
	// Move the processed file out of the inbox so new images are processed only once
	if err := moveToProcessed(filepath.Join(dir, name), name); err != nil {
		log.Printf("WARN failed to move processed file %s: %v", name, err)
	} else {
		logV("moved processed %s to public/processed", name)
	}
}

func mimeFromExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if m, ok := extMime[ext]; ok {
		return m
	}
	return ""
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// moveToProcessed moves a file from the inbox to public/processed/<name>.
// It attempts an atomic rename and falls back to copy+remove when necessary.
func moveToProcessed(srcFullPath, name string) error {
	const maxBytes = 1_000_000 // 1 MB budget
	processedDir := filepath.Join("public", "processed")
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(processedDir, name)

	fi, err := os.Stat(srcFullPath)
	if err != nil {
		return err
	}
	// Fast path: already small enough -> attempt rename/copy
	if fi.Size() <= maxBytes {
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	// Need compression / resizing
	img, err := imaging.Open(srcFullPath)
	if err != nil { // fallback to raw move if cannot decode
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	// Estimate scale factor based on sqrt(max/current) (size roughly scales with area)
	scale := math.Sqrt(float64(maxBytes) / float64(fi.Size()))
	if scale > 0.95 { // still enforce some small reduction to help container formats
		scale = 0.95
	}
	if scale < 0.1 { // avoid absurd downscale
		scale = 0.1
	}
	if scale < 1 {
		w := img.Bounds().Dx()
		h := img.Bounds().Dy()
		newW := int(math.Max(1, math.Round(float64(w)*scale)))
		newH := int(math.Max(1, math.Round(float64(h)*scale)))
		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
	}
	// Save to dst (overwrite if exists)
	if err := imaging.Save(img, dst); err != nil {
		// fallback to original move
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	// Remove original after successful save
	_ = os.Remove(srcFullPath)
	// If still > maxBytes, try one more uniform 80% scale pass
	if fi2, err2 := os.Stat(dst); err2 == nil && fi2.Size() > maxBytes {
		img2, errOpen2 := imaging.Open(dst)
		if errOpen2 == nil {
			img2 = imaging.Resize(img2, int(float64(img2.Bounds().Dx())*0.8), 0, imaging.Lanczos)
			_ = imaging.Save(img2, dst)
		}
	}
	return nil
}

func copyRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	_ = out.Close()
	if err := os.Remove(src); err != nil {
		return err
	}
	return nil
}
