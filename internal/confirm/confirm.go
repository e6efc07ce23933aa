// Package confirm asks the user before destructive operations.
package confirm

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrDeclined is returned when the user answers no.
var ErrDeclined = errors.New("declined by user")

type Confirmer interface {
	Confirm(label string) (bool, error)
}

// Prompt confirms on the terminal with a y/N question.
type Prompt struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func (p Prompt) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}

	return true, nil
}

// Always answers yes without asking, as with --yes.
type Always struct{}

func (Always) Confirm(string) (bool, error) { return true, nil }

// Do runs action only after the user agrees.
func Do(c Confirmer, label string, action func() error) error {
	ok, err := c.Confirm(label)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return action()
}

// DeleteLabel is the question asked before deleting an entity of the given kind.
func DeleteLabel(kind string) string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", kind)
}
