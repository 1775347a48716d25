package issuetoken

import (
	"errors"
	"net/http"

	"selfadmin/internal/core/domain/directory"
	e "selfadmin/internal/core/domain/errors"
	"selfadmin/internal/core/domain/reset"
	"selfadmin/internal/core/services"
	issueresettoken "selfadmin/internal/core/services/issue_reset_token"
	"selfadmin/internal/http/handlers/auth"
	"selfadmin/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service    services.Service[issueresettoken.Input, issueresettoken.Result]
	isTestMode bool
}

func New(
	service services.Service[issueresettoken.Input, issueresettoken.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	accessToken, ok := auth.ParseAccessToken(r)
	if !ok {
		response.RenderUnauthorized(rw)
		return
	}
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		response.RenderError(rw, "user ID is required", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		issueresettoken.Input{
			AccessToken: accessToken,
			UserID:      directory.UserID(userID),
		},
	)
	if err != nil {
		var requestErr *directory.RequestError
		switch {
		case errors.Is(err, reset.ErrNoDeliveryAddress):
			response.RenderError(rw, "no email of user found", http.StatusBadRequest)
		case errors.Is(err, directory.ErrUserDoesNotExist):
			response.RenderError(rw, "user does not exist", http.StatusNotFound)
		case errors.As(err, &requestErr):
			response.RenderError(rw, requestErr.Message, requestErr.StatusCode)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	if h.isTestMode {
		rw.Header().Set("x-test-reset-token", string(result.Secret))
	}
	response.Render(rw, struct{}{}, http.StatusOK)
}
