package response

import "selfadmin/internal/core/domain/directory"

type User struct {
	ID       string      `json:"id"`
	UserName string      `json:"userName"`
	Locale   string      `json:"locale,omitempty"`
	Emails   []UserEmail `json:"emails"`
}

type UserEmail struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

func UserFromDomain(u directory.User) User {
	view := User{
		ID:       string(u.ID),
		UserName: u.UserName,
		Locale:   u.Locale,
	}
	for _, e := range u.Emails {
		view.Emails = append(view.Emails, UserEmail{Value: string(e.Value), Primary: e.Primary})
	}
	return view
}
