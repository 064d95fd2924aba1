package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"AgencyPulseSaas/api/auth"
	"AgencyPulseSaas/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const (
	OrgIDKey  contextKey = "orgID"
	UserIDKey contextKey = "userID"
)

// GetOrgIDFromCtx returns the tenant organization resolved by TenantMiddleware.
func GetOrgIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(OrgIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// TenantMiddleware validates the caller's session and resolves the tenant
// organization for the request. Every dashboard and forecast handler behind
// it can assume a valid org_id in context and nothing else about the caller.
func TenantMiddleware(pool *pgxpool.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID string
			ct := r.Header.Get(constants.ContentTypeText)
			if strings.HasPrefix(ct, constants.ContentTypeJSON) && (r.Method == "POST" || r.Method == "PUT") {
				var bodyMap map[string]interface{}
				_ = json.NewDecoder(r.Body).Decode(&bodyMap)
				if uid, ok := bodyMap[constants.KeyUserID].(string); ok {
					userID = uid
				}
				// Re-marshal and reset body for downstream handlers
				bodyBytes, _ := json.Marshal(bodyMap)
				r.Body = io.NopCloser(strings.NewReader(string(bodyBytes)))
			} else if strings.HasPrefix(ct, constants.ContentTypeMultipart) && (r.Method == "POST" || r.Method == "PUT") {
				if err := r.ParseMultipartForm(32 << 20); err == nil {
					userID = r.FormValue(constants.KeyUserID)
				}
			}

			if userID == "" {
				log.Println("[ERROR] Missing user_id in request")
				w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
				json.NewEncoder(w).Encode(map[string]interface{}{
					constants.ValueSuccess: false,
					constants.ValueError:   constants.ErrMissingUserID,
				})
				return
			}

			// Validate session
			found := false
			for _, session := range auth.GetActiveSessions() {
				if session.UserID == userID {
					found = true
					break
				}
			}
			if !found {
				log.Println("[ERROR] Invalid session for user_id:", userID)
				w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
				json.NewEncoder(w).Encode(map[string]interface{}{
					constants.ValueSuccess: false,
					constants.ValueError:   constants.ErrInvalidSession,
				})
				return
			}

			// Resolve the user's organization
			var orgID string
			err := pool.QueryRow(r.Context(),
				`SELECT org_id FROM users WHERE id = $1`, userID).Scan(&orgID)
			if err != nil || orgID == "" {
				log.Println("[ERROR] User not found or has no organization for user_id:", userID)
				w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
				json.NewEncoder(w).Encode(map[string]interface{}{
					constants.ValueSuccess: false,
					constants.ValueError:   constants.ErrNoOrganization,
				})
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, OrgIDKey, orgID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
