package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"boxscore/models"
	"boxscore/pkg/boxscore"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	r.POST("/parse-boxscore", parseBoxScoreHandler)
	r.POST("/stats/lookup", statsLookupHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/boxscores", createBoxScoreHandler)
	authGroup.GET("/boxscores", listBoxScoresHandler)
	authGroup.GET("/boxscores/:id", getBoxScoreHandler)
	authGroup.GET("/reports/monthly", monthlyReportHandler)
	authGroup.POST("/player", createPlayerHandler)
	authGroup.GET("/player", getPlayerHandler)
	authGroup.POST("/screenshots", uploadScreenshotHandler)
	authGroup.GET("/screenshots", listScreenshotsHandler)
	authGroup.GET("/screenshots/:id", getScreenshotHandler)
}

// corsMiddleware allows the front-end origins listed in CORS_ORIGINS
// (comma-separated) to call the API from a browser.
func corsMiddleware() gin.HandlerFunc {
	allowed := map[string]bool{}
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:5173"
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	username := usernameVal.(string)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// parseBoxScoreHandler interprets one uploaded screenshot for one gamertag.
// Stateless: nothing is written, the caller just gets the stat line back.
// The query username wins over the form field when both are sent.
func parseBoxScoreHandler(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		username = strings.TrimSpace(c.PostForm("username"))
	}
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	if pipeline == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OCR engine unavailable"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()
	buf, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}

	debug := c.Query("debug") == "1" || c.PostForm("debug") == "1"
	if debug {
		rec, diag, err := pipeline.ExtractPlayerStatsDebug(buf, username)
		if err != nil {
			c.JSON(statusForPipelineError(err), gin.H{
				"error":      err.Error(),
				"row":        diag.Row,
				"rescan":     diag.Rescan,
				"variant":    diag.Variant,
				"candidates": diag.Candidates,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"record": rec, "diagnostics": diag})
		return
	}
	rec, err := pipeline.ExtractPlayerStats(buf, username)
	if err != nil {
		c.JSON(statusForPipelineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func statusForPipelineError(err error) int {
	if errors.Is(err, boxscore.ErrEngineUnavailable) {
		return http.StatusInternalServerError
	}
	if errors.Is(err, boxscore.ErrImageDecode) ||
		errors.Is(err, boxscore.ErrUsernameNotFound) ||
		errors.Is(err, boxscore.ErrStatsParse) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// statsLookupHandler projects pre-structured stat rows (e.g. scraped from a
// league page) into the canonical record shape.
func statsLookupHandler(c *gin.Context) {
	var req struct {
		Username string           `json:"username" binding:"required"`
		Rows     []map[string]any `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, ok := boxscore.Lookup(req.Rows, req.Username)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found in rows"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// createBoxScoreHandler records a manually entered stat line for the authenticated user
func createBoxScoreHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		FileName  string `json:"file_name" binding:"required"`
		Username  string `json:"username" binding:"required"`
		Grade     string `json:"grade"`
		Points    int    `json:"points"`
		Rebounds  int    `json:"rebounds"`
		Assists   int    `json:"assists"`
		Steals    int    `json:"steals"`
		Blocks    int    `json:"blocks"`
		Fouls     int    `json:"fouls"`
		Turnovers int    `json:"turnovers"`
		FGM       int    `json:"fgm"`
		FGA       int    `json:"fga"`
		TPM       int    `json:"tpm"`
		TPA       int    `json:"tpa"`
		FTM       int    `json:"ftm"`
		FTA       int    `json:"fta"`
		Date      string `json:"date"` // optional ISO8601
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// prevent duplicate file for the same user
	var existing models.BoxScore
	if err := db.Where("user_id = ? AND file_name = ?", user.ID, req.FileName).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "file already recorded"})
		return
	}

	bs := models.BoxScore{
		UserID: user.ID, FileName: req.FileName, Username: req.Username, Grade: req.Grade,
		Points: req.Points, Rebounds: req.Rebounds, Assists: req.Assists, Steals: req.Steals,
		Blocks: req.Blocks, Fouls: req.Fouls, Turnovers: req.Turnovers,
		FGM: req.FGM, FGA: req.FGA, TPM: req.TPM, TPA: req.TPA, FTM: req.FTM, FTA: req.FTA,
	}
	if req.Date != "" {
		if t, err := time.Parse(time.RFC3339, req.Date); err == nil {
			bs.Date = t
		} else if t, err := time.Parse("2006-01-02", req.Date); err == nil {
			bs.Date = t
		}
	}
	if bs.Date.IsZero() {
		bs.Date = time.Now()
	}
	if err := db.Create(&bs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": bs.ID})
}

// listBoxScoresHandler lists recent box scores for the authenticated user (admin sees all)
func listBoxScoresHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.BoxScore
	q := db.Model(&models.BoxScore{})
	if role != "administrator" {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// getBoxScoreHandler returns a single box score if admin or owner.
func getBoxScoreHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id := c.Param("id")
	var bs models.BoxScore
	if err := db.First(&bs, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if role != "administrator" && bs.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, bs)
}

// monthlyReportHandler returns per-month games played and scoring averages
func monthlyReportHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	type Result struct {
		Month       string  `json:"month"`
		Games       int64   `json:"games"`
		AvgPoints   float64 `json:"avg_points"`
		AvgRebounds float64 `json:"avg_rebounds"`
		AvgAssists  float64 `json:"avg_assists"`
	}
	var results []Result
	q := db.Model(&models.BoxScore{})
	if role != "administrator" {
		q = q.Where("user_id = ?", user.ID)
	}
	// Use to_char for Postgres to group by YYYY-MM
	rows, err := q.Select(`to_char(date, 'YYYY-MM') as month, count(*) as games,
		avg(points) as avg_points, avg(rebounds) as avg_rebounds, avg(assists) as avg_assists`).
		Group("month").Order("month").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	defer rows.Close()
	for rows.Next() {
		var r Result
		rows.Scan(&r.Month, &r.Games, &r.AvgPoints, &r.AvgRebounds, &r.AvgAssists)
		results = append(results, r)
	}
	c.JSON(http.StatusOK, results)
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := Register(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func createPlayerHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Gamertag string `json:"gamertag" binding:"required"`
		Position string `json:"position"`
		Team     string `json:"team"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player := models.Player{UserID: user.ID, Gamertag: req.Gamertag, Position: req.Position, Team: req.Team}
	if err := db.Create(&player).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create player"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": player.ID})
}

func getPlayerHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var p models.Player
	if err := db.Where("user_id = ?", user.ID).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	// Generate JWT token. Resolve role name from RoleID (we only store role_id now).
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// create refresh token
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	// generate random 32-byte token (hex)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	// hash for storage
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	// load user
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	// create access token
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

// uploadScreenshotHandler handles multipart screenshot upload for the current
// user's player, then tries to interpret it into a BoxScore right away.
func uploadScreenshotHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	// ensure player record exists
	var player models.Player
	if err := db.Where("user_id = ?", user.ID).First(&player).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player missing"})
		return
	}
	folder := c.PostForm("folder")
	if folder == "" {
		folder = "default"
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	// simple content type sniff via header
	ct := file.Header.Get("Content-Type")
	baseDir := uploadBaseDir()
	relPath := folder + "/" + file.Filename
	fullPath := baseDir + "/" + relPath
	if err := os.MkdirAll(baseDir+"/"+folder, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	// gamertag override lets one account submit screenshots for an alt
	gamertag := strings.TrimSpace(c.PostForm("username"))
	if gamertag == "" {
		gamertag = player.Gamertag
	}
	// Build store path (public exposure path). Assume files served from 'public/' prefix.
	storePath := "public/" + relPath

	// If a screenshot record for this player+filename already exists, return it
	var existingShot models.Screenshot
	if err := db.Where("player_id = ? AND file_name = ?", player.ID, file.Filename).First(&existingShot).Error; err == nil {
		// retry interpretation if the earlier attempt never linked a box score
		if existingShot.BoxScoreID == nil && !existingShot.Failed {
			if id, ierr := interpretScreenshot(user.ID, gamertag, file.Filename, fullPath); ierr == nil {
				existingShot.BoxScoreID = &id
				db.Save(&existingShot)
			}
		}
		c.JSON(http.StatusOK, gin.H{"id": existingShot.ID, "path": relPath, "store_path": existingShot.StorePath, "box_score_id": existingShot.BoxScoreID})
		return
	}

	shot := models.Screenshot{PlayerID: player.ID, FileName: file.Filename, StorePath: storePath, ContentType: ct}
	if err := db.Create(&shot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	if id, ierr := interpretScreenshot(user.ID, gamertag, file.Filename, fullPath); ierr == nil {
		shot.BoxScoreID = &id
		db.Save(&shot)
	} else {
		// keep the record so an operator can reprocess it later
		shot.Failed = true
		shot.FailedReason = ierr.Error()
		db.Save(&shot)
	}
	c.JSON(http.StatusOK, gin.H{"id": shot.ID, "path": relPath, "store_path": storePath, "box_score_id": shot.BoxScoreID, "failed": shot.Failed, "failed_reason": shot.FailedReason})
}

// interpretScreenshot runs the OCR pipeline over a stored file and persists
// the resulting stat line, reusing an existing BoxScore for the same
// user+file instead of creating a duplicate.
func interpretScreenshot(userID uint, gamertag, fileName, fullPath string) (uint, error) {
	if pipeline == nil {
		return 0, boxscore.ErrEngineUnavailable
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return 0, err
	}
	rec, err := pipeline.ExtractPlayerStats(data, gamertag)
	if err != nil {
		return 0, err
	}
	var existing models.BoxScore
	if err := db.Where("user_id = ? AND file_name = ?", userID, fileName).First(&existing).Error; err == nil {
		return existing.ID, nil
	}
	date, err := time.Parse("2006-01-02", rec.Date)
	if err != nil {
		date = time.Now()
	}
	bs := models.BoxScore{
		UserID: userID, FileName: fileName, Username: rec.Username, Grade: rec.Grade,
		Points: rec.Points, Rebounds: rec.Rebounds, Assists: rec.Assists, Steals: rec.Steals,
		Blocks: rec.Blocks, Fouls: rec.Fouls, Turnovers: rec.Turnovers,
		FGM: rec.FGM, FGA: rec.FGA, TPM: rec.TPM, TPA: rec.TPA, FTM: rec.FTM, FTA: rec.FTA,
		Date: date,
	}
	if err := db.Create(&bs).Error; err != nil {
		return 0, err
	}
	return bs.ID, nil
}

// listScreenshotsHandler returns screenshots; admin sees all, user only own player's.
func listScreenshotsHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var player models.Player
	db.Where("user_id = ?", user.ID).First(&player)
	var shots []models.Screenshot
	q := db.Model(&models.Screenshot{})
	if role != "administrator" {
		q = q.Where("player_id = ?", player.ID)
	}
	if err := q.Order("id desc").Limit(100).Find(&shots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, shots)
}

// getScreenshotHandler returns single screenshot if admin or owner.
func getScreenshotHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var player models.Player
	db.Where("user_id = ?", user.ID).First(&player)
	id := c.Param("id")
	var shot models.Screenshot
	if err := db.First(&shot, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if role != "administrator" && shot.PlayerID != player.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, shot)
}
