// Package prompt collects the administrator credentials interactively. The
// actual terminal interaction sits behind the Driver interface so the
// retry-until-match loop can be exercised with a scripted input source.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the operator interrupts a prompt.
var ErrAborted = errors.New("prompt: aborted")

// Driver abstracts terminal prompts. Password input is masked.
type Driver interface {
	Input(ctx context.Context, message string) (string, error)
	Password(ctx context.Context, message string) (string, error)
	Info(ctx context.Context, message string) error
}

// Credentials is the administrator account injected into the variable set.
type Credentials struct {
	Username string
	Password string
}

// Collect prompts for the administrator username, then for the password twice
// until both entries match exactly. There is no retry limit; with an
// interactive driver this blocks until the operator gets it right.
func Collect(ctx context.Context, d Driver) (Credentials, error) {
	username, err := d.Input(ctx, "Enter the superuser administrator account username:")
	if err != nil {
		return Credentials{}, err
	}
	if err := d.Info(ctx, fmt.Sprintf("a phash will be created for superuser %s and added to the config file", username)); err != nil {
		return Credentials{}, err
	}

	for {
		first, err := d.Password(ctx, "Enter the superuser administrator account password:")
		if err != nil {
			return Credentials{}, err
		}
		second, err := d.Password(ctx, "Enter password again to verify:")
		if err != nil {
			return Credentials{}, err
		}
		if first == second {
			return Credentials{Username: username, Password: first}, nil
		}
		if err := d.Info(ctx, "Passwords do not match. Please try again."); err != nil {
			return Credentials{}, err
		}
	}
}

type surveyDriver struct{}

// NewSurveyDriver returns the interactive terminal Driver.
func NewSurveyDriver() Driver {
	return surveyDriver{}
}

func (surveyDriver) Input(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	if err := survey.AskOne(&survey.Input{Message: message}, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyDriver) Password(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	if err := survey.AskOne(&survey.Password{Message: message}, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyDriver) Info(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(os.Stdout, message)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// Scripted replays queued answers, for tests and non-interactive callers.
// Input and Password consume from the same queue in order; Info messages are
// recorded. A drained queue returns an error rather than blocking.
type Scripted struct {
	Answers []string
	Infos   []string

	next int
}

func (s *Scripted) Input(ctx context.Context, message string) (string, error) {
	return s.take(ctx)
}

func (s *Scripted) Password(ctx context.Context, message string) (string, error) {
	return s.take(ctx)
}

func (s *Scripted) Info(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Infos = append(s.Infos, message)
	return nil
}

func (s *Scripted) take(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.next >= len(s.Answers) {
		return "", errors.New("prompt: scripted driver ran out of answers")
	}
	answer := s.Answers[s.next]
	s.next++
	return answer, nil
}
