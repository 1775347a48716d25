package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"selfadmin/internal/core/domain/directory"
	"selfadmin/internal/core/domain/token"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type ResetTokenSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender        string
	resetTemplate string
	linkPrefix    url.URL
}

func NewResetTokenSender(
	awsConfig aws.Config,
	sender string,
	resetTemplate string,
	linkPrefix url.URL,
) *ResetTokenSender {
	return &ResetTokenSender{
		ses:           ses.NewFromConfig(awsConfig),
		sender:        sender,
		resetTemplate: resetTemplate,
		linkPrefix:    linkPrefix,
	}
}

func (s *ResetTokenSender) SendToken(
	ctx context.Context,
	u directory.User,
	secret token.Secret,
) error {
	email, ok := u.PrimaryOrFirstEmail()
	if !ok {
		return errors.New("user email is not defined")
	}

	templateParamsBytes, err := json.Marshal(
		resetTemplateParams{
			LostPasswordLink: s.buildLink(u.ID, secret),
			UserName:         u.UserName,
			Locale:           u.Locale,
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	recipient := string(email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{recipient},
			},
			Template:     &s.resetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

func (s *ResetTokenSender) buildLink(id directory.UserID, secret token.Secret) string {
	link := s.linkPrefix
	query := link.Query()
	query.Set("oneTimePassword", string(secret))
	query.Set("userId", string(id))
	link.RawQuery = query.Encode()
	return link.String()
}

type resetTemplateParams struct {
	LostPasswordLink string `json:"lostPasswordLink"`
	UserName         string `json:"userName"`
	Locale           string `json:"locale"`
}
