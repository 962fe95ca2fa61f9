package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"sayabantu/internal/apperr"
	"sayabantu/internal/config"
	"sayabantu/internal/database"
	"sayabantu/internal/models"
	"sayabantu/internal/store"
)

const (
	// ResetRequestedMessage is returned for every reset request, whether or
	// not the email is registered.
	ResetRequestedMessage = "Jika email terdaftar, link reset telah dikirim."
	// InvalidTokenMessage covers unknown, expired and used tokens alike.
	InvalidTokenMessage = "Token tidak valid atau sudah kedaluwarsa"
	// ResetDoneMessage is returned after a successful reset.
	ResetDoneMessage = "Password berhasil direset"
)

const tokenBytes = 32

// PasswordResetService issues and consumes emailed reset tokens.
type PasswordResetService struct {
	db     *database.Database
	store  *store.Store
	mailer Mailer
	appURL string
	ttl    time.Duration

	now    func() time.Time
	random io.Reader
}

func NewPasswordResetService(db *database.Database, st *store.Store, mailer Mailer, cfg *config.Config) *PasswordResetService {
	return &PasswordResetService{
		db:     db,
		store:  st,
		mailer: mailer,
		appURL: cfg.AppURL,
		ttl:    cfg.Reset.TokenTTL,
		now:    time.Now,
		random: rand.Reader,
	}
}

// HashString returns the hex SHA-256 of s. Only this digest of a reset
// token is ever stored.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (s *PasswordResetService) newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := io.ReadFull(s.random, b); err != nil {
		return "", fmt.Errorf("generate reset token: %w: %w", apperr.ErrInternal, err)
	}
	return hex.EncodeToString(b), nil
}

// RequestReset emails a reset link when email belongs to a user. Unknown
// and empty addresses succeed silently. Only storage failures are
// returned; a failed send is logged and dropped.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	logger := log.FromContext(ctx).WithPrefix("reset")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		resetRequestCounter.WithLabelValues("empty").Inc()
		return nil
	}

	user, err := s.store.Users.FindUserByEmail(ctx, s.db, email)
	if errors.Is(err, apperr.ErrNotFound) {
		resetRequestCounter.WithLabelValues("unknown").Inc()
		return nil
	}
	if err != nil {
		return err
	}

	plain, err := s.newToken()
	if err != nil {
		return err
	}
	now := s.now()
	token := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: HashString(plain),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		if _, err := s.store.ResetTokens.DeleteResetTokensByUser(ctx, tx, user.ID); err != nil {
			return err
		}
		_, err := s.store.ResetTokens.CreateResetToken(ctx, tx, token)
		return err
	}); err != nil {
		return err
	}
	resetRequestCounter.WithLabelValues("issued").Inc()

	link := s.appURL + "/reset-password?token=" + url.QueryEscape(plain)
	if err := s.mailer.Send(ctx, user.Email, resetSubject, resetEmail(link, s.ttl)); err != nil {
		mailFailureCounter.Inc()
		logger.Error("send reset email", "user_id", user.ID, "err", err)
		return nil
	}

	logger.Info("reset link sent", "user_id", user.ID)
	return nil
}

// ResetPassword sets a new password for the owner of token and revokes
// every outstanding token of that user. A token works at most once.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, password string) error {
	if strings.TrimSpace(token) == "" || password == "" {
		return fmt.Errorf("token and password are required: %w", apperr.ErrValidation)
	}

	hash := HashString(token)
	err := s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		t, err := s.store.ResetTokens.FindValidResetToken(ctx, tx, hash, s.now())
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrInvalidToken
		}
		if err != nil {
			return err
		}

		n, err := s.store.ResetTokens.DeleteResetToken(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.ErrInvalidToken
		}

		pw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w: %w", apperr.ErrInternal, err)
		}
		if err := s.store.Users.UpdateUserPassword(ctx, tx, t.UserID, string(pw)); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.ErrInvalidToken
			}
			return err
		}

		_, err = s.store.ResetTokens.DeleteResetTokensByUser(ctx, tx, t.UserID)
		return err
	})

	switch {
	case err == nil:
		resetCompleteCounter.WithLabelValues("ok").Inc()
		log.FromContext(ctx).WithPrefix("reset").Info("password reset")
	case errors.Is(err, apperr.ErrInvalidToken):
		resetCompleteCounter.WithLabelValues("invalid").Inc()
	}
	return err
}

// PurgeExpired removes tokens that can no longer be used.
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.ResetTokens.DeleteExpiredResetTokens(ctx, s.db, s.now())
	if err != nil {
		return 0, err
	}
	purgedTokenCounter.Add(float64(n))
	return n, nil
}
