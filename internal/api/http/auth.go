package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// NewPasscodeVerifier builds the employer passcode check. A bcrypt hash wins
// over the plain passcode when both are configured.
func NewPasscodeVerifier(plain, bcryptHash string) func(string) bool {
	return func(candidate string) bool {
		if bcryptHash != "" {
			return bcrypt.CompareHashAndPassword([]byte(bcryptHash), []byte(candidate)) == nil
		}
		return subtle.ConstantTimeCompare([]byte(plain), []byte(candidate)) == 1
	}
}

// EmployerAuthHandler verifies the shared employer passcode. The request body
// is a JSON-encoded string, the shape the original frontend sends.
func EmployerAuthHandler(verify func(string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var passcode string
		if err := json.NewDecoder(r.Body).Decode(&passcode); err != nil {
			writeDetail(w, 400, "bad json")
			return
		}
		if strings.TrimSpace(passcode) == "" || !verify(passcode) {
			writeDetail(w, 401, "Invalid passcode")
			return
		}
		writeJSON(w, 200, map[string]interface{}{"success": true, "message": "Authentication successful"})
	}
}
