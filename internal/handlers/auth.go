package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sayabantu/internal/apperr"
	"sayabantu/internal/database"
	"sayabantu/internal/models"
	"sayabantu/internal/responses"
	"sayabantu/internal/store"
	"sayabantu/internal/utils"
)

func Register(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		email := strings.TrimSpace(req.Email)
		username := strings.TrimSpace(req.Username)
		if username == "" {
			username = email
		}

		taken, err := st.Users.EmailTaken(r.Context(), db, email, 0)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "POST /register")
			return
		}
		if taken {
			responses.SendError(w, http.StatusConflict, "Email already exists")
			return
		}
		taken, err = st.Users.UsernameTaken(r.Context(), db, username, 0)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "POST /register")
			return
		}
		if taken {
			responses.SendError(w, http.StatusConflict, "Username already exists")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			responses.SendError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		if _, err := st.Users.CreateUser(r.Context(), db, username, email, string(hashed), req.Role); err != nil {
			writeAppError(w, r, err, "POST /register")
			return
		}

		responses.SendJSON(w, http.StatusCreated, models.MessageResponse{Message: "User registered successfully"})
	}
}

func Login(db *database.Database, st *store.Store, jwtUtil *utils.JWTUtil) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := st.Users.FindUserByEmail(r.Context(), db, req.Email)
		if errors.Is(err, apperr.ErrNotFound) {
			sendAs(w, apperr.ErrUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			responses.SendDatabaseError(w, r, err, "POST /login")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			sendAs(w, apperr.ErrUnauthorized, "Invalid credentials")
			return
		}

		token, err := jwtUtil.GenerateToken(user.ID, user.Username, user.Role)
		if err != nil {
			responses.SendError(w, http.StatusInternalServerError, "Failed to generate token")
			return
		}

		responses.SendJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

// AdminWelcome greets an authenticated admin.
func AdminWelcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin() {
			sendAs(w, apperr.ErrForbidden, "Access denied: Admins only")
			return
		}
		responses.SendJSON(w, http.StatusOK, models.MessageResponse{
			Message: fmt.Sprintf("Welcome, Admin %s!", claims.Username),
		})
	}
}
