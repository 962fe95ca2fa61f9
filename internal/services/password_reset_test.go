package services

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"golang.org/x/crypto/bcrypt"

	"sayabantu/internal/apperr"
	"sayabantu/internal/config"
	"sayabantu/internal/database"
	"sayabantu/internal/database/dbtest"
	"sayabantu/internal/models"
	"sayabantu/internal/store"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

var linkRe = regexp.MustCompile(`href="([^"]+)"`)

// token extracts the plaintext token from the last sent mail.
func (m *fakeMailer) token(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("no mail sent")
	}
	match := linkRe.FindStringSubmatch(m.sent[len(m.sent)-1].body)
	if match == nil {
		t.Fatal("no link in mail")
	}
	u, err := url.Parse(match[1])
	if err != nil {
		t.Fatal(err)
	}
	return u.Query().Get("token")
}

type fixture struct {
	db     *database.Database
	store  *store.Store
	mailer *fakeMailer
	svc    *PasswordResetService
	now    time.Time
	userID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	st := store.New()
	f := &fixture{
		db:     db,
		store:  st,
		mailer: &fakeMailer{},
		now:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	cfg := &config.Config{AppURL: "https://sayabantu.id"}
	cfg.Reset.TokenTTL = 30 * time.Minute
	f.svc = NewPasswordResetService(db, st, f.mailer, cfg)
	f.svc.now = func() time.Time { return f.now }

	pw, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	f.userID, err = st.Users.CreateUser(context.TODO(), db, "ani", "a@x.com", string(pw), models.RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) tokenRows(t *testing.T) []models.PasswordResetToken {
	t.Helper()
	var rows []models.PasswordResetToken
	if err := f.db.SelectContext(context.TODO(), &rows, "SELECT id, user_id, token_hash, expires_at, created_at FROM password_reset_tokens"); err != nil {
		t.Fatal(err)
	}
	return rows
}

func (f *fixture) passwordMatches(t *testing.T, password string) bool {
	t.Helper()
	u, err := f.store.Users.FindUserByID(context.TODO(), f.db, f.userID)
	if err != nil {
		t.Fatal(err)
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func TestRequestResetUnknownEmail(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	for _, email := range []string{"nobody@x.com", "", "   "} {
		is.NoErr(f.svc.RequestReset(context.TODO(), email))
	}
	is.Equal(len(f.tokenRows(t)), 0)
	is.Equal(len(f.mailer.sent), 0)
}

func TestRequestResetIssuesOneToken(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	is.NoErr(f.svc.RequestReset(context.TODO(), "  A@X.com "))

	rows := f.tokenRows(t)
	is.Equal(len(rows), 1)
	is.Equal(rows[0].UserID, f.userID)
	is.True(rows[0].ExpiresAt.Equal(f.now.Add(30 * time.Minute)))

	is.Equal(len(f.mailer.sent), 1)
	mail := f.mailer.sent[0]
	is.Equal(mail.to, "a@x.com")
	is.Equal(mail.subject, "Reset Password")
	is.True(strings.Contains(mail.body, "https://sayabantu.id/reset-password?token="))
	is.True(strings.Contains(mail.body, "berlaku 30 menit"))

	plain := f.mailer.token(t)
	is.Equal(len(plain), 64)
	is.Equal(rows[0].TokenHash, HashString(plain)) // only the digest is stored
	is.True(rows[0].TokenHash != plain)
}

func TestResetPasswordSingleUse(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.TODO()

	is.NoErr(f.svc.RequestReset(ctx, "a@x.com"))
	plain := f.mailer.token(t)

	is.NoErr(f.svc.ResetPassword(ctx, plain, "new-password"))
	is.True(f.passwordMatches(t, "new-password"))
	is.Equal(len(f.tokenRows(t)), 0)

	err := f.svc.ResetPassword(ctx, plain, "another-password")
	is.True(errors.Is(err, apperr.ErrInvalidToken))
	is.True(f.passwordMatches(t, "new-password"))
}

func TestResetPasswordExpired(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.TODO()

	is.NoErr(f.svc.RequestReset(ctx, "a@x.com"))
	plain := f.mailer.token(t)

	f.now = f.now.Add(30 * time.Minute)
	err := f.svc.ResetPassword(ctx, plain, "new-password")
	is.True(errors.Is(err, apperr.ErrInvalidToken))
	is.True(f.passwordMatches(t, "old-password"))
}

func TestSecondRequestInvalidatesFirst(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.TODO()

	is.NoErr(f.svc.RequestReset(ctx, "a@x.com"))
	first := f.mailer.token(t)
	f.now = f.now.Add(time.Second)
	is.NoErr(f.svc.RequestReset(ctx, "a@x.com"))
	second := f.mailer.token(t)
	is.True(first != second)

	rows := f.tokenRows(t)
	is.Equal(len(rows), 1)
	is.Equal(rows[0].TokenHash, HashString(second))

	is.True(errors.Is(f.svc.ResetPassword(ctx, first, "x"), apperr.ErrInvalidToken))
	is.NoErr(f.svc.ResetPassword(ctx, second, "new-password"))
}

func TestResetPasswordValidation(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	is.True(errors.Is(f.svc.ResetPassword(context.TODO(), "", "pw"), apperr.ErrValidation))
	is.True(errors.Is(f.svc.ResetPassword(context.TODO(), "abc", ""), apperr.ErrValidation))
	is.True(errors.Is(f.svc.ResetPassword(context.TODO(), "unknown", "pw"), apperr.ErrInvalidToken))
}

func TestMailFailureIsSwallowed(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")

	is.NoErr(f.svc.RequestReset(context.TODO(), "a@x.com"))
	is.Equal(len(f.tokenRows(t)), 1) // token still issued
}

func TestRandomFailure(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	f.svc.random = bytes.NewReader(nil)

	err := f.svc.RequestReset(context.TODO(), "a@x.com")
	is.True(errors.Is(err, apperr.ErrInternal))
	is.Equal(len(f.tokenRows(t)), 0)
}

func TestPurgeExpired(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.TODO()

	is.NoErr(f.svc.RequestReset(ctx, "a@x.com"))
	n, err := f.svc.PurgeExpired(ctx)
	is.NoErr(err)
	is.Equal(n, int64(0))

	f.now = f.now.Add(time.Hour)
	n, err = f.svc.PurgeExpired(ctx)
	is.NoErr(err)
	is.Equal(n, int64(1))
}

func TestHashString(t *testing.T) {
	is := is.New(t)
	is.Equal(HashString("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
}
