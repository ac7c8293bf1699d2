package telegram

import (
	"context"
	"errors"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
)

// flowAuth adapts the interactive prompts behind AuthInput to gotd's
// auth.UserAuthenticator, for the user-account login flow.
type flowAuth struct {
	input AuthInput
}

func (a flowAuth) Phone(context.Context) (string, error) {
	return a.input.GetPhoneNumber()
}

func (a flowAuth) Code(context.Context, *tg.AuthSentCode) (string, error) {
	return a.input.GetCode()
}

func (a flowAuth) Password(context.Context) (string, error) {
	return a.input.GetPassword()
}

// AcceptTermsOfService accepts silently; there is no surface to show
// the terms on.
func (a flowAuth) AcceptTermsOfService(context.Context, tg.HelpTermsOfService) error {
	return nil
}

// SignUp refuses: the overview reads an existing account, it never
// registers one.
func (a flowAuth) SignUp(context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("telegram: account does not exist, sign up is not supported")
}
