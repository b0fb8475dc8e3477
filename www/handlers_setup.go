package www

import (
	"net/http"
	"time"
)

func (h *Handlers) handleSetup(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessions.user(r)
	cfg := h.engine.AppConfig()
	db := h.engine.DB()

	commands, _ := db.ListCommandLog(100)

	var lastLogin time.Time
	if u, err := db.GetAdminUser(username); err == nil && u != nil {
		lastLogin = u.LastLogin
	}

	data := map[string]interface{}{
		"Page":      "setup",
		"User":      username,
		"Config":    cfg,
		"Backend":   h.engine.Client().BaseURL(),
		"LastLogin": lastLogin,
		"Commands":  commands,
	}

	h.renderTemplate(w, "setup.html", data)
}

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, redirect to the testing page
	if _, ok := h.sessions.user(r); ok {
		http.Redirect(w, r, "/testing", http.StatusSeeOther)
		return
	}
	h.renderTemplate(w, "login.html", map[string]interface{}{
		"Page": "login",
	})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	db := h.engine.DB()

	// First login bootstraps the admin account
	exists, _ := db.AdminUserExists()
	if !exists {
		hash, err := hashPassword(password)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if _, err := db.CreateAdminUser(username, hash); err != nil {
			http.Error(w, "failed to create admin user", http.StatusInternalServerError)
			return
		}
		db.TouchAdminLogin(username)
		h.sessions.signIn(w, r, username)
		http.Redirect(w, r, "/testing", http.StatusSeeOther)
		return
	}

	user, err := db.GetAdminUser(username)
	if err != nil || user == nil || !verifyPassword(password, user.PasswordHash) {
		h.renderTemplate(w, "login.html", map[string]interface{}{
			"Page":  "login",
			"Error": "Invalid username or password",
		})
		return
	}

	db.TouchAdminLogin(username)
	h.sessions.signIn(w, r, username)
	http.Redirect(w, r, "/testing", http.StatusSeeOther)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.signOut(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
