package change

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	c "selfadmin/internal/core/domain/common"
	"selfadmin/internal/core/domain/directory"
	e "selfadmin/internal/core/domain/errors"
	"selfadmin/internal/core/domain/reset"
	"selfadmin/internal/core/services"
	redeemresettoken "selfadmin/internal/core/services/redeem_reset_token"
	"selfadmin/internal/http/handlers/auth"
	"selfadmin/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

// One body and one status for every invalid-token cause; anything more
// specific would tell a caller whether the account or token exists.
const invalidTokenMessage = "the submitted one time password is invalid"

type Handler struct {
	service services.Service[redeemresettoken.Input, redeemresettoken.Result]
}

func New(
	service services.Service[redeemresettoken.Input, redeemresettoken.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	OneTimePassword string `json:"oneTimePassword"`
	NewPassword     string `json:"newPassword"`
	// UserID is read from the form body only; JSON callers address the
	// target user through the URL.
	UserID string `json:"-"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

// FromForm reads the urlencoded body the served change-password form
// submits.
func (i *Input) FromForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	i.OneTimePassword = r.PostForm.Get("oneTimePassword")
	i.NewPassword = r.PostForm.Get("newPassword")
	i.UserID = r.PostForm.Get("userId")
	return nil
}

func isFormEncoded(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.OneTimePassword, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(0, 1024)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	accessToken, ok := auth.ParseAccessToken(r)
	if !ok {
		response.RenderUnauthorized(rw)
		return
	}
	input := Input{}
	if isFormEncoded(r) {
		if err := input.FromForm(r); err != nil {
			response.RenderError(rw, "invalid request data", http.StatusBadRequest)
			return
		}
	} else if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	var userID c.Optional[directory.UserID]
	if rawUserID := chi.URLParam(r, "userID"); rawUserID != "" {
		userID = c.NewOptional(directory.UserID(rawUserID), true)
	} else if input.UserID != "" {
		userID = c.NewOptional(directory.UserID(input.UserID), true)
	}

	result, err := h.service.Run(
		r.Context(),
		redeemresettoken.Input{
			AccessToken: accessToken,
			UserID:      userID,
			Token:       input.OneTimePassword,
			NewPassword: directory.RawPassword(input.NewPassword),
		},
	)
	if err != nil {
		var requestErr *directory.RequestError
		switch {
		case errors.Is(err, reset.ErrInvalidResetToken):
			response.RenderError(rw, invalidTokenMessage, http.StatusForbidden)
		case errors.Is(err, directory.ErrUserDoesNotExist):
			response.RenderError(rw, "user does not exist", http.StatusNotFound)
		case errors.As(err, &requestErr):
			response.RenderError(rw, requestErr.Message, requestErr.StatusCode)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(rw, response.UserFromDomain(result.User), http.StatusOK)
}
