package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sayabantu/internal/database"
	"sayabantu/internal/models"
	"sayabantu/internal/responses"
	"sayabantu/internal/store"
)

func ListUsers(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := st.Users.ListUsers(r.Context(), db)
		if err != nil {
			responses.SendDatabaseError(w, r, err, "GET /users")
			return
		}
		responses.SendJSON(w, http.StatusOK, users)
	}
}

// checkTaken writes a 409 when username or email belongs to a user other
// than exceptID.
func checkTaken(w http.ResponseWriter, r *http.Request, db *database.Database, st *store.Store, username, email *string, exceptID int64, label string) bool {
	if username != nil {
		taken, err := st.Users.UsernameTaken(r.Context(), db, *username, exceptID)
		if err != nil {
			responses.SendDatabaseError(w, r, err, label)
			return false
		}
		if taken {
			responses.SendError(w, http.StatusConflict, "Username sudah dipakai")
			return false
		}
	}
	if email != nil {
		taken, err := st.Users.EmailTaken(r.Context(), db, *email, exceptID)
		if err != nil {
			responses.SendDatabaseError(w, r, err, label)
			return false
		}
		if taken {
			responses.SendError(w, http.StatusConflict, "Email sudah dipakai")
			return false
		}
	}
	return true
}

// CreateUser adds a user from the admin panel. Such users are always admins.
func CreateUser(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		username := strings.TrimSpace(req.Username)
		email := strings.TrimSpace(req.Email)
		if !checkTaken(w, r, db, st, &username, &email, 0, "POST /users") {
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			responses.SendError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		if _, err := st.Users.CreateUser(r.Context(), db, username, email, string(hash), models.RoleAdmin); err != nil {
			writeAppError(w, r, err, "POST /users")
			return
		}
		responses.SendJSON(w, http.StatusCreated, models.MessageResponse{Message: "created"})
	}
}

// UpdateUser applies a partial update and forces the role back to admin. An
// empty password keeps the current one.
func UpdateUser(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req models.UpdateUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if !checkTaken(w, r, db, st, req.Username, req.Email, id, "PUT /users/:id") {
			return
		}

		role := models.RoleAdmin
		upd := store.UserUpdate{Username: req.Username, Email: req.Email, Role: &role}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				responses.SendError(w, http.StatusInternalServerError, "Failed to hash password")
				return
			}
			h := string(hash)
			upd.PasswordHash = &h
		}

		if err := st.Users.UpdateUser(r.Context(), db, id, upd); err != nil {
			notFoundAs(w, r, err, "User not found", "PUT /users/:id")
			return
		}
		responses.SendJSON(w, http.StatusOK, models.MessageResponse{Message: "updated"})
	}
}

func DeleteUser(db *database.Database, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if claims, ok := ClaimsFromContext(r.Context()); ok && claims.ID == id {
			responses.SendError(w, http.StatusBadRequest, "Tidak boleh menghapus akun sendiri")
			return
		}

		err := db.TransactionContext(r.Context(), func(tx *database.Tx) error {
			return st.Users.DeleteUser(r.Context(), tx, id)
		})
		if err != nil {
			notFoundAs(w, r, err, "User not found", "DELETE /users/:id")
			return
		}
		responses.SendJSON(w, http.StatusOK, models.MessageResponse{Message: "deleted"})
	}
}
