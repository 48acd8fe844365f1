package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ok wraps a successful payload in the {ok:true, ...} envelope
func ok(c *gin.Context, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// fail returns the {ok:false, error} envelope. Game rule rejections and
// validation failures are results, not server errors, so they ship with
// the caller's status code and never panic upward.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "error": message})
}

// normalizeAccount reduces a phone-style account identifier to bare digits.
// Returns "" when nothing usable remains.
func normalizeAccount(account string) string {
	digits := ""
	for _, char := range account {
		if char >= '0' && char <= '9' {
			digits += string(char)
		}
	}
	if len(digits) < 6 || len(digits) > 15 {
		return ""
	}
	return digits
}
