package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	c "selfadmin/internal/core/domain/common"
	d "selfadmin/internal/core/domain/directory"
	e "selfadmin/internal/core/domain/errors"
)

// HTTPClient talks to the remote user directory over its JSON REST surface.
// The one-time token attribute lives in an extension identified by the
// configured URN and field name; the core never sees either.
type HTTPClient struct {
	httpClient   *http.Client
	baseURL      url.URL
	extensionURN string
	tokenField   string
}

func NewHTTPClient(
	baseURL url.URL,
	timeout time.Duration,
	extensionURN string,
	tokenField string,
) *HTTPClient {
	if extensionURN == "" {
		panic(e.NewInvalidStateError("directory extension URN must not be empty"))
	}
	if tokenField == "" {
		panic(e.NewInvalidStateError("directory token field must not be empty"))
	}
	return &HTTPClient{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		extensionURN: extensionURN,
		tokenField:   tokenField,
	}
}

func (cl *HTTPClient) GetUser(
	ctx context.Context,
	accessToken d.AccessToken,
	id d.UserID,
) (d.User, error) {
	return cl.doUserRequest(
		ctx,
		accessToken,
		http.MethodGet,
		cl.baseURL.JoinPath("Users", string(id)),
		nil,
	)
}

func (cl *HTTPClient) GetCurrentUser(
	ctx context.Context,
	accessToken d.AccessToken,
) (d.User, error) {
	return cl.doUserRequest(ctx, accessToken, http.MethodGet, cl.baseURL.JoinPath("Me"), nil)
}

func (cl *HTTPClient) UpdateUser(
	ctx context.Context,
	accessToken d.AccessToken,
	id d.UserID,
	update d.Update,
) (d.User, error) {
	doc := updateDocument{ExtensionURN: cl.extensionURN}
	if update.SetOneTimeToken.IsPresent {
		doc.SetExtensionFields = map[string]string{cl.tokenField: update.SetOneTimeToken.Value}
	}
	if update.DeleteOneTimeToken {
		doc.DeleteExtensionFields = []string{cl.tokenField}
	}
	if update.SetPassword.IsPresent {
		password := string(update.SetPassword.Value)
		doc.Password = &password
	}
	if update.IfOneTimeTokenIs.IsPresent {
		doc.IfExtensionFieldIs = map[string]string{cl.tokenField: update.IfOneTimeTokenIs.Value}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return d.User{}, d.NewClientError("could not encode update document", err)
	}
	return cl.doUserRequest(
		ctx,
		accessToken,
		http.MethodPatch,
		cl.baseURL.JoinPath("Users", string(id)),
		bytes.NewReader(body),
	)
}

func (cl *HTTPClient) doUserRequest(
	ctx context.Context,
	accessToken d.AccessToken,
	method string,
	u *url.URL,
	body io.Reader,
) (d.User, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return d.User{}, d.NewClientError("could not create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+string(accessToken))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return d.User{}, d.NewClientError("could not reach directory", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return cl.decodeUser(resp.Body)
	case http.StatusNotFound:
		return d.User{}, d.ErrUserDoesNotExist
	case http.StatusPreconditionFailed:
		return d.User{}, d.ErrPreconditionFailed
	default:
		return d.User{}, d.NewRequestError(resp.StatusCode, errorMessage(resp))
	}
}

func (cl *HTTPClient) decodeUser(r io.Reader) (d.User, error) {
	var du directoryUser
	if err := json.NewDecoder(r).Decode(&du); err != nil {
		return d.User{}, d.NewClientError("could not decode user", err)
	}

	u := d.User{
		ID:       d.UserID(du.ID),
		UserName: du.UserName,
		Locale:   du.Locale,
	}
	for _, email := range du.Emails {
		u.Emails = append(u.Emails, d.EmailAddress{
			Value:   c.NewEmail(email.Value),
			Primary: email.Primary,
		})
	}
	if fields, ok := du.Extensions[cl.extensionURN]; ok {
		if value, ok := fields[cl.tokenField]; ok {
			u.OneTimeToken = c.NewOptional(value, true)
		}
	}
	return u, nil
}

func errorMessage(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return fmt.Sprintf("directory returned status %d", resp.StatusCode)
}

type directoryUser struct {
	ID         string                       `json:"id"`
	UserName   string                       `json:"userName"`
	Locale     string                       `json:"locale"`
	Emails     []directoryEmail             `json:"emails"`
	Extensions map[string]map[string]string `json:"extensions"`
}

type directoryEmail struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

type updateDocument struct {
	Password              *string           `json:"password,omitempty"`
	ExtensionURN          string            `json:"extensionUrn"`
	SetExtensionFields    map[string]string `json:"setExtensionFields,omitempty"`
	DeleteExtensionFields []string          `json:"deleteExtensionFields,omitempty"`
	IfExtensionFieldIs    map[string]string `json:"ifExtensionFieldIs,omitempty"`
}
