package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/playarena/backend/internal/models"
	"github.com/playarena/backend/internal/wallet"
)

// GetMe returns the caller's balance
func GetMe(ledger wallet.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := c.GetString("account")
		balance, err := ledger.Balance(c.Request.Context(), account)
		if err != nil {
			log.Printf("[API] balance lookup failed for %s: %v", account, err)
			fail(c, http.StatusInternalServerError, "failed to read balance")
			return
		}
		ok(c, gin.H{"account": account, "balance": balance})
	}
}

// GetMyTransactions returns the caller's recent ledger rows
func GetMyTransactions(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := c.GetString("account")

		var rows []models.Transaction
		if err := db.Select(&rows,
			`SELECT id, account, kind, amount, reference, created_at FROM transactions
			 WHERE account=$1 ORDER BY created_at DESC LIMIT 50`, account); err != nil {
			log.Printf("[API] transaction list failed for %s: %v", account, err)
			fail(c, http.StatusInternalServerError, "failed to fetch transactions")
			return
		}
		ok(c, gin.H{"transactions": rows})
	}
}
