package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/playarena/backend/internal/config"
	"github.com/playarena/backend/internal/models"
)

// Register creates a player with a bcrypt-hashed PIN and a zero balance
func Register(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Account     string `json:"account"`
			DisplayName string `json:"display_name"`
			Pin         string `json:"pin"`
		}
		if err := c.BindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "account and pin required")
			return
		}

		account := normalizeAccount(req.Account)
		pin := strings.TrimSpace(req.Pin)
		if account == "" || len(pin) < 4 {
			fail(c, http.StatusBadRequest, "valid account and a pin of at least 4 digits required")
			return
		}

		var exists bool
		if err := db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM players WHERE account=$1)`, account); err != nil {
			log.Printf("[AUTH] register lookup failed for %s: %v", account, err)
			fail(c, http.StatusInternalServerError, "internal error")
			return
		}
		if exists {
			fail(c, http.StatusConflict, "account already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[AUTH] pin hash failed: %v", err)
			fail(c, http.StatusInternalServerError, "internal error")
			return
		}

		if _, err := db.Exec(
			`INSERT INTO players (account, display_name, pin_hash, balance, is_active, created_at, updated_at)
			 VALUES ($1, $2, $3, 0, true, NOW(), NOW())`,
			account, strings.TrimSpace(req.DisplayName), string(hash)); err != nil {
			log.Printf("[AUTH] failed to create player %s: %v", account, err)
			fail(c, http.StatusInternalServerError, "internal error")
			return
		}

		ok(c, gin.H{"account": account})
	}
}

// Login verifies the PIN and issues a session JWT
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Account string `json:"account"`
			Pin     string `json:"pin"`
		}
		if err := c.BindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "account and pin required")
			return
		}
		account := normalizeAccount(req.Account)
		if account == "" || req.Pin == "" {
			fail(c, http.StatusBadRequest, "account and pin required")
			return
		}

		var player models.Player
		err := db.Get(&player, `SELECT account, display_name, pin_hash, balance FROM players WHERE account=$1 AND is_active`, account)
		if errors.Is(err, sql.ErrNoRows) {
			fail(c, http.StatusUnauthorized, "invalid account or pin")
			return
		}
		if err != nil {
			log.Printf("[AUTH] login lookup failed for %s: %v", account, err)
			fail(c, http.StatusInternalServerError, "internal error")
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(player.PinHash), []byte(req.Pin)) != nil {
			fail(c, http.StatusUnauthorized, "invalid account or pin")
			return
		}

		exp := time.Now().Add(time.Duration(cfg.SessionTimeoutMin) * time.Minute)
		claims := jwt.MapClaims{"account": account, "exp": exp.Unix()}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("[AUTH] failed to sign token: %v", err)
			fail(c, http.StatusInternalServerError, "internal error")
			return
		}

		db.Exec(`UPDATE players SET last_active=NOW() WHERE account=$1`, account)

		ok(c, gin.H{
			"token": signed,
			"player": gin.H{
				"account":      player.Account,
				"display_name": player.DisplayName,
				"balance":      player.Balance,
			},
		})
	}
}

// AuthMiddleware validates the bearer JWT and stores the account in the
// request context
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if auth == "" || token == auth {
			// Browsers cannot set headers on websocket upgrades, so the
			// socket route passes the token as a query parameter
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing token"})
			return
		}

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}
		claims, okClaims := parsed.Claims.(jwt.MapClaims)
		if !okClaims {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}
		account, okClaims := claims["account"].(string)
		if !okClaims || account == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		c.Set("account", account)
		c.Next()
	}
}
