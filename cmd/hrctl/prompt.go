package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
)

// prompter asks the user for one value at a time.
type prompter interface {
	Input(message string, secret bool, validate func(string) error) (string, error)
	Select(message string, options []string) (int, error)
}

type surveyPrompter struct {
	opts []survey.AskOpt
}

func (p surveyPrompter) Input(message string, secret bool, validate func(string) error) (string, error) {
	var prompt survey.Prompt = &survey.Input{Message: message}
	if secret {
		prompt = &survey.Password{Message: message}
	}
	opts := append([]survey.AskOpt{}, p.opts...)
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, ok := ans.(string)
			if !ok {
				return errors.New("expected text")
			}
			return validate(s)
		}))
	}
	var answer string
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (p surveyPrompter) Select(message string, options []string) (int, error) {
	var index int
	if err := survey.AskOne(&survey.Select{Message: message, Options: options}, &index, p.opts...); err != nil {
		return 0, err
	}
	return index, nil
}
