package change

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	c "selfadmin/internal/core/domain/common"
	"selfadmin/internal/core/domain/directory"
	"selfadmin/internal/core/domain/reset"
	"selfadmin/internal/core/services"
	redeemresettoken "selfadmin/internal/core/services/redeem_reset_token"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

const ACCESS_TOKEN = "test-access-token"

type testSuite struct {
	suite.Suite
	router    *chi.Mux
	lastInput *redeemresettoken.Input
	result    redeemresettoken.Result
	err       error
}

func (suite *testSuite) SetupTest() {
	suite.lastInput = nil
	suite.result = redeemresettoken.Result{}
	suite.err = nil

	service := services.FuncService[redeemresettoken.Input, redeemresettoken.Result](
		func(ctx context.Context, input redeemresettoken.Input) (redeemresettoken.Result, error) {
			suite.lastInput = &input
			return suite.result, suite.err
		},
	)
	suite.router = chi.NewRouter()
	suite.router.Method(http.MethodPost, "/change", New(service))
	suite.router.Method(http.MethodPost, "/change/{userID}", New(service))
}

func TestChangePasswordHandler(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) post(path string, body string, withAuth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if withAuth {
		req.Header.Set("Authorization", "Bearer "+ACCESS_TOKEN)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testSuite) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+ACCESS_TOKEN)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testSuite) TestSuccess() {
	s.result = redeemresettoken.Result{
		User: directory.User{ID: "user-1", UserName: "test-user"},
	}

	rec := s.post("/change", `{"oneTimePassword": "secret", "newPassword": "NewPass1!"}`, true)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"id":"user-1"`)
	s.Require().NotNil(s.lastInput)
	s.Equal(directory.AccessToken(ACCESS_TOKEN), s.lastInput.AccessToken)
	s.False(s.lastInput.UserID.IsPresent)
	s.Equal("secret", s.lastInput.Token)
	s.Equal(directory.RawPassword("NewPass1!"), s.lastInput.NewPassword)
}

func (s *testSuite) TestTargetUserFromURL() {
	rec := s.post("/change/user-42", `{"oneTimePassword": "secret", "newPassword": "NewPass1!"}`, true)

	s.Equal(http.StatusOK, rec.Code)
	s.Require().NotNil(s.lastInput)
	s.Equal(c.NewOptional(directory.UserID("user-42"), true), s.lastInput.UserID)
}

func (s *testSuite) TestFormEncodedSubmission() {
	s.result = redeemresettoken.Result{
		User: directory.User{ID: "user-7", UserName: "test-user"},
	}

	rec := s.postForm("/change", url.Values{
		"oneTimePassword": {"secret"},
		"newPassword":     {"NewPass1!"},
		"userId":          {"user-7"},
	})

	s.Equal(http.StatusOK, rec.Code)
	s.Require().NotNil(s.lastInput)
	s.Equal(directory.AccessToken(ACCESS_TOKEN), s.lastInput.AccessToken)
	s.Equal(c.NewOptional(directory.UserID("user-7"), true), s.lastInput.UserID)
	s.Equal("secret", s.lastInput.Token)
	s.Equal(directory.RawPassword("NewPass1!"), s.lastInput.NewPassword)
}

func (s *testSuite) TestFormUserFieldYieldsToURL() {
	rec := s.postForm("/change/user-42", url.Values{
		"oneTimePassword": {"secret"},
		"newPassword":     {"NewPass1!"},
		"userId":          {"user-7"},
	})

	s.Equal(http.StatusOK, rec.Code)
	s.Require().NotNil(s.lastInput)
	s.Equal(c.NewOptional(directory.UserID("user-42"), true), s.lastInput.UserID)
}

func (s *testSuite) TestFormMissingFields() {
	rec := s.postForm("/change", url.Values{"oneTimePassword": {"secret"}})

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Nil(s.lastInput)
}

func (s *testSuite) TestMissingAuthorizationHeader() {
	rec := s.post("/change", `{"oneTimePassword": "secret", "newPassword": "NewPass1!"}`, false)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Nil(s.lastInput)
}

func (s *testSuite) TestInvalidJSON() {
	rec := s.post("/change", `{"oneTimePassword": `, true)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Nil(s.lastInput)
}

func (s *testSuite) TestMissingFields() {
	rec := s.post("/change", `{"oneTimePassword": "secret"}`, true)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Nil(s.lastInput)
}

func (s *testSuite) TestInvalidTokenRendersGenericForbidden() {
	s.err = reset.ErrInvalidResetToken

	rec := s.post("/change", `{"oneTimePassword": "wrong", "newPassword": "NewPass1!"}`, true)

	s.Equal(http.StatusForbidden, rec.Code)
	s.Contains(rec.Body.String(), invalidTokenMessage)
}

func (s *testSuite) TestDirectoryRequestErrorKeepsStatus() {
	s.err = directory.NewRequestError(http.StatusConflict, "version conflict")

	rec := s.post("/change", `{"oneTimePassword": "secret", "newPassword": "NewPass1!"}`, true)

	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "version conflict")
}

func (s *testSuite) TestDirectoryClientErrorRendersInternal() {
	s.err = directory.NewClientError("connection refused", nil)

	rec := s.post("/change", `{"oneTimePassword": "secret", "newPassword": "NewPass1!"}`, true)

	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *testSuite) TestUserDoesNotExist() {
	s.err = directory.ErrUserDoesNotExist

	rec := s.post("/change/user-42", `{"oneTimePassword": "secret", "newPassword": "NewPass1!"}`, true)

	s.Equal(http.StatusNotFound, rec.Code)
}
