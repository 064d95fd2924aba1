package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"AgencyPulseSaas/internal/logger"
	"AgencyPulseSaas/internal/serviceiface"

	"github.com/google/uuid"
)

type UserSession struct {
	SessionID     string
	UserID        string
	Name          string
	Email         string
	Role          string
	LastLoginTime string
	ClientIP      string
	IsLoggedIn    bool
}

type AuthService struct {
	db           *sql.DB
	maxUsers     int
	users        map[string]*UserSession
	userPointers map[string]*UserSession
	mu           sync.Mutex
	stopCh       chan struct{}
}

func NewAuthService(db *sql.DB, maxUsers int) serviceiface.Service {
	return &AuthService{
		db:           db,
		maxUsers:     maxUsers,
		users:        make(map[string]*UserSession),
		userPointers: make(map[string]*UserSession),
		stopCh:       make(chan struct{}),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	go a.sessionCleaner()
	return nil
}

func (a *AuthService) Stop() error {
	close(a.stopCh)
	return nil
}

func (a *AuthService) Login(username, password string, clientIP string) (*UserSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, session := range a.users {
		if session.Email == username && session.IsLoggedIn {
			session.LastLoginTime = time.Now().Format(time.RFC3339)
			session.ClientIP = clientIP
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("User %s re-logged in, returning existing session", username))
			}
			return session, nil
		}
	}

	if len(a.users) >= a.maxUsers {
		return nil, errors.New("maximum concurrent users reached")
	}

	var (
		userID, name, email string
		role                sql.NullString
		status              sql.NullString
	)

	query := `
    SELECT u.id, u.full_name, u.email, u.role, u.status
    FROM users u
    WHERE u.email = $1 AND u.password = crypt($2, u.password)
    `

	err := a.db.QueryRow(query, username, password).Scan(&userID, &name, &email, &role, &status)
	if err != nil {
		return nil, errors.New("invalid credentials or user not found")
	}
	if status.Valid && status.String != "active" {
		return nil, errors.New("account is not active")
	}

	session := &UserSession{
		SessionID:     uuid.NewString(),
		UserID:        userID,
		Name:          name,
		Email:         email,
		Role:          role.String,
		LastLoginTime: time.Now().Format(time.RFC3339),
		ClientIP:      clientIP,
		IsLoggedIn:    true,
	}

	a.users[session.SessionID] = session
	a.userPointers[userID] = session

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("User logged in: " + username)
	}

	return session, nil
}

func (a *AuthService) Logout(sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, exists := a.users[sessionID]
	if !exists {
		return errors.New("session not found")
	}
	delete(a.users, sessionID)
	delete(a.userPointers, session.UserID)

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("User logged out: " + session.UserID)
	}

	return nil
}

func (a *AuthService) GetActiveSessions() []*UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions := make([]*UserSession, 0, len(a.users))
	for _, s := range a.users {
		sessions = append(sessions, s)
	}
	return sessions
}

// sessionCleaner drops sessions idle past the timeout once a minute.
func (a *AuthService) sessionCleaner() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-1 * time.Hour)
			a.mu.Lock()
			for id, s := range a.users {
				last, err := time.Parse(time.RFC3339, s.LastLoginTime)
				if err == nil && last.Before(cutoff) {
					delete(a.users, id)
					delete(a.userPointers, s.UserID)
				}
			}
			a.mu.Unlock()
		}
	}
}

var globalAuthService *AuthService

// SetGlobalAuthService sets the global AuthService instance
func SetGlobalAuthService(svc *AuthService) {
	globalAuthService = svc
}

// GetActiveSessions returns sessions from the globally registered service.
func GetActiveSessions() []*UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.GetActiveSessions()
}
