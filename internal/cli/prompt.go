package cli

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// asker is the interactive input used by jobs and apply.
type asker interface {
	Select(label string, items []string) (int, error)
	Ask(label string, validate func(string) error) (string, error)
	AskSecret(label string) (string, error)
	Confirm(label string) (bool, error)
}

var errRequired = errors.New("value is required")

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}

type promptAsker struct{}

func (promptAsker) Select(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}
	index, _, err := prompt.Run()
	return index, err
}

func (promptAsker) Ask(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	return prompt.Run()
}

func (promptAsker) AskSecret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: notBlank,
	}
	return prompt.Run()
}

func (promptAsker) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
