package lostform

import (
	_ "embed"
	"html/template"
	"net/http"
	"net/url"

	"selfadmin/internal/core/domain/logging"
)

//go:embed change_password.html
var changePasswordHTML string

var changePasswordTemplate = template.Must(
	template.New("change_password").Parse(changePasswordHTML),
)

// Handler serves the change-password form linked from the reset email, with
// the token and user id from the link pre-filled.
type Handler struct {
	log               logging.Logger
	changePasswordURL url.URL
}

func New(log logging.Logger, changePasswordURL url.URL) *Handler {
	return &Handler{log: log, changePasswordURL: changePasswordURL}
}

type templateData struct {
	OneTimePassword   string
	UserID            string
	ChangePasswordURL string
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	oneTimePassword := r.URL.Query().Get("oneTimePassword")
	userID := r.URL.Query().Get("userId")
	if oneTimePassword == "" || userID == "" {
		http.Error(rw, "oneTimePassword and userId are required", http.StatusBadRequest)
		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := changePasswordTemplate.Execute(rw, templateData{
		OneTimePassword:   oneTimePassword,
		UserID:            userID,
		ChangePasswordURL: h.changePasswordURL.String(),
	})
	if err != nil {
		h.log.Error(r.Context(), "Could not render change password form.", logging.Entry("err", err))
	}
}
