// Package cli implements the interactive authd client: a small REPL over
// the REST API covering signup, login, code verification and account info.
package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/dmatveev/authd/internal/client/api"
	"github.com/dmatveev/authd/internal/client/config"
)

type App struct {
	client *api.Client
	reader *bufio.Reader
}

func NewApp(cfg *config.Config) (*App, error) {
	return &App{
		client: api.NewClient(cfg.ServerAddr),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) SignUp(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := GetSimpleText(a.reader, "Enter full name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.client.SignUp(ctx, email, username, fullName, password); err != nil {
		log.Printf("Signup failed: %v", err)
		return err
	}
	log.Printf("Account created, a verification code was sent to %s", email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.Login(ctx, email, password); err != nil {
		log.Printf("Login failed: %v", err)
		return err
	}
	log.Printf("Verification code sent to %s, use 'verify' to finish", email)
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	code, err := GetSimpleText(a.reader, "Enter the 6-digit code", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.Verify(ctx, email, code); err != nil {
		log.Printf("Verification failed: %v", err)
		return err
	}
	log.Printf("Verified, you are logged in")
	return nil
}

func (a *App) Resend(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.Resend(ctx, email); err != nil {
		log.Printf("Resend failed: %v", err)
		return err
	}
	log.Printf("A fresh verification code was sent to %s", email)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.client.Me(ctx)
	if err != nil {
		log.Printf("Request failed: %v", err)
		return err
	}
	log.Printf("id=%s email=%s username=%s role=%s verified=%v", u.ID, u.Email, u.Username, u.Role, u.Verified)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.SetToken("")
	log.Printf("Logged out")
	return nil
}

func (a *App) Run(ctx context.Context) {
	statusFn := func() string {
		if a.isLoggedIn() {
			return "logged in"
		}
		return "anonymous"
	}
	runREPL(ctx, a, statusFn, bufio.NewScanner(os.Stdin))
}
