package redeemresettoken

import (
	"context"
	"errors"
	"testing"
	"time"

	c "selfadmin/internal/core/domain/common"
	"selfadmin/internal/core/domain/directory"
	"selfadmin/internal/core/domain/logging"
	"selfadmin/internal/core/domain/reset"
	"selfadmin/internal/core/domain/token"
	"selfadmin/internal/core/services"

	"github.com/stretchr/testify/suite"
)

const (
	USER_ID      = "user-1"
	USER_EMAIL   = "test@test.test"
	ACCESS_TOKEN = "test-access-token"
	SECRET       = "test-secret"
	NEW_PASSWORD = "NewPass1!"
)

var (
	NOW     time.Time     = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	TIMEOUT time.Duration = 24 * time.Hour
)

type testSuite struct {
	suite.Suite
	Logger    *logging.FakeLogger
	Directory *directory.FakeClient
	Codec     *token.FakeCodec
	Service   services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Directory = directory.NewFakeClient()
	suite.Directory.Users[USER_ID] = directory.User{
		ID:       USER_ID,
		UserName: "test-user",
		Emails:   []directory.EmailAddress{{Value: c.NewEmail(USER_EMAIL), Primary: true}},
	}
	suite.Directory.CurrentUserID = USER_ID
	suite.Codec = token.NewFakeCodec(token.OneTimeToken{Secret: SECRET, IssuedAt: NOW})
	suite.Service = New(
		suite.Logger,
		suite.Directory,
		suite.Codec,
		TIMEOUT,
		func() time.Time { return NOW },
	)
}

func TestRedeemResetTokenService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) storeToken(secret token.Secret, issuedAt time.Time) {
	u := s.Directory.Users[USER_ID]
	serialized := s.Codec.Serialize(token.OneTimeToken{Secret: secret, IssuedAt: issuedAt})
	u.OneTimeToken = c.NewOptional(serialized, true)
	s.Directory.Users[USER_ID] = u
}

func (s *testSuite) storeRawToken(raw string) {
	u := s.Directory.Users[USER_ID]
	u.OneTimeToken = c.NewOptional(raw, true)
	s.Directory.Users[USER_ID] = u
}

func (s *testSuite) redeem(submitted string) (Result, error) {
	return s.Service.Run(
		context.Background(),
		Input{
			AccessToken: ACCESS_TOKEN,
			UserID:      c.NewOptional(directory.UserID(USER_ID), true),
			Token:       submitted,
			NewPassword: NEW_PASSWORD,
		},
	)
}

func (s *testSuite) TestSuccess() {
	s.storeToken(SECRET, NOW.Add(-time.Hour))

	result, err := s.redeem(SECRET)

	s.Nil(err)
	s.Equal(directory.UserID(USER_ID), result.User.ID)
	s.Equal(directory.RawPassword(NEW_PASSWORD), s.Directory.Passwords[USER_ID])
	s.False(s.Directory.StoredToken(USER_ID).IsPresent)
}

func (s *testSuite) TestSuccessConsumesTokenExactlyOnce() {
	s.storeToken(SECRET, NOW.Add(-time.Hour))

	_, err := s.redeem(SECRET)
	s.Nil(err)

	_, err = s.redeem(SECRET)
	s.True(errors.Is(err, reset.ErrInvalidResetToken))
}

func (s *testSuite) TestSuccessUsesSingleConditionalUpdate() {
	s.storeToken(SECRET, NOW.Add(-time.Hour))
	stored := s.Directory.StoredToken(USER_ID)

	_, err := s.redeem(SECRET)

	s.Nil(err)
	s.Equal(1, s.Directory.UpdateCallCount)
	update := s.Directory.Updates[0]
	s.True(update.SetPassword.IsPresent)
	s.True(update.DeleteOneTimeToken)
	s.True(update.IfOneTimeTokenIs.IsPresent)
	s.Equal(stored.Value, update.IfOneTimeTokenIs.Value)
}

func (s *testSuite) TestEmptyTokenRejectedWithoutDirectoryRead() {
	_, err := s.redeem("")

	s.True(errors.Is(err, reset.ErrInvalidResetToken))
	s.Equal(0, s.Directory.GetCallCount)
	s.Equal(0, s.Directory.UpdateCallCount)
}

func (s *testSuite) TestNoStoredToken() {
	_, err := s.redeem(SECRET)

	s.True(errors.Is(err, reset.ErrInvalidResetToken))
	s.Equal(0, s.Directory.UpdateCallCount)
}

func (s *testSuite) TestMalformedStoredToken() {
	s.storeRawToken("not-a-serialized-token")

	_, err := s.redeem(SECRET)

	s.True(errors.Is(err, reset.ErrInvalidResetToken))
	var formatErr *token.FormatError
	s.False(errors.As(err, &formatErr))
	s.Equal(0, s.Directory.UpdateCallCount)
}

func (s *testSuite) TestExpiredTokenPurged() {
	s.storeToken(SECRET, NOW.Add(-TIMEOUT))

	_, err := s.redeem(SECRET)

	s.True(errors.Is(err, reset.ErrInvalidResetToken))
	s.False(s.Directory.StoredToken(USER_ID).IsPresent)
	s.Empty(s.Directory.Passwords)
}

func (s *testSuite) TestTokenValidRightBeforeTimeout() {
	s.storeToken(SECRET, NOW.Add(-TIMEOUT+time.Second))

	_, err := s.redeem(SECRET)

	s.Nil(err)
}

func (s *testSuite) TestExpiredPurgeFailureSurfacesDirectoryError() {
	s.storeToken(SECRET, NOW.Add(-TIMEOUT))
	requestErr := directory.NewRequestError(503, "unavailable")
	s.Directory.UpdateReturnsError = requestErr

	_, err := s.redeem(SECRET)

	var actual *directory.RequestError
	s.True(errors.As(err, &actual))
	s.False(errors.Is(err, reset.ErrInvalidResetToken))
}

func (s *testSuite) TestMismatchedTokenLeavesSlotUntouched() {
	s.storeToken(SECRET, NOW.Add(-time.Hour))

	_, err := s.redeem("wrong")
	s.True(errors.Is(err, reset.ErrInvalidResetToken))
	s.True(s.Directory.StoredToken(USER_ID).IsPresent)

	warned := false
	for _, record := range s.Logger.Logged {
		if record.Level == logging.WARNING {
			warned = true
		}
	}
	s.True(warned)

	// A still-valid token may be retried with the correct value.
	_, err = s.redeem(SECRET)
	s.Nil(err)
}

func (s *testSuite) TestSupersededTokenNotRedeemable() {
	s.storeToken("first-secret", NOW.Add(-time.Hour))
	s.storeToken("second-secret", NOW.Add(-time.Minute))

	_, err := s.redeem("first-secret")
	s.True(errors.Is(err, reset.ErrInvalidResetToken))

	_, err = s.redeem("second-secret")
	s.Nil(err)
}

func (s *testSuite) TestConcurrentConsumptionLosesPrecondition() {
	s.storeToken(SECRET, NOW.Add(-time.Hour))
	s.Directory.UpdateReturnsError = directory.ErrPreconditionFailed

	_, err := s.redeem(SECRET)

	s.True(errors.Is(err, reset.ErrInvalidResetToken))
}

func (s *testSuite) TestUserFetchErrorSurfaces() {
	requestErr := directory.NewRequestError(404, "user not found")
	s.Directory.GetReturnsError = requestErr

	_, err := s.redeem(SECRET)

	var actual *directory.RequestError
	s.True(errors.As(err, &actual))
	s.Equal(404, actual.StatusCode)
}

func (s *testSuite) TestCurrentUserUsedWhenNoTargetGiven() {
	s.storeToken(SECRET, NOW.Add(-time.Hour))

	result, err := s.Service.Run(
		context.Background(),
		Input{
			AccessToken: ACCESS_TOKEN,
			Token:       SECRET,
			NewPassword: NEW_PASSWORD,
		},
	)

	s.Nil(err)
	s.Equal(directory.UserID(USER_ID), result.User.ID)
}

func (s *testSuite) TestPasswordUpdateErrorSurfaces() {
	s.storeToken(SECRET, NOW.Add(-time.Hour))
	s.Directory.UpdateReturnsError = directory.NewClientError("connection refused", nil)

	_, err := s.redeem(SECRET)

	var actual *directory.ClientError
	s.True(errors.As(err, &actual))
	s.False(errors.Is(err, reset.ErrInvalidResetToken))
}
