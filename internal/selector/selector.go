// Package selector lets the operator pick the form to process.
//
// Forms are listed as a numbered menu and the operator types the number of the
// form. Invalid answers are reported and the question is asked again until a
// valid number is given or the prompt itself fails (for example on Ctrl-C).
package selector

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grimpo6/helloasso-certificates/internal/helloasso"
)

var (
	ErrNoForms     = errors.New("organization has no forms")
	ErrUnknownForm = errors.New("unknown form")
)

// Prompter asks a question and returns the raw answer
type Prompter interface {
	Ask(message string) (string, error)
}

// Select prints the numbered form menu to out and asks for a 1-based choice
// until the answer is a number within range.
func Select(forms []helloasso.Form, p Prompter, out io.Writer) (helloasso.Form, error) {
	n := len(forms)
	if n == 0 {
		return helloasso.Form{}, ErrNoForms
	}

	for i, form := range forms {
		fmt.Fprintf(out, "%d: %s\n", i+1, form.Title)
	}
	fmt.Fprintln(out)

	question := fmt.Sprintf("Select the form number: [1-%d]:", n)
	for {
		answer, err := p.Ask(question)
		if err != nil {
			return helloasso.Form{}, fmt.Errorf("reading form selection: %w", err)
		}

		if choice, ok := parseChoice(answer, n); ok {
			return forms[choice-1], nil
		}
		fmt.Fprintf(out, "Invalid input. Please enter a number between 1 and %d\n", n)
	}
}

// parseChoice accepts an integer between 1 and n, ignoring surrounding spaces
func parseChoice(answer string, n int) (int, bool) {
	choice, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || choice < 1 || choice > n {
		return 0, false
	}
	return choice, true
}

// BySlug returns the form with the given slug
func BySlug(forms []helloasso.Form, slug string) (helloasso.Form, error) {
	for _, form := range forms {
		if form.Slug == slug {
			return form, nil
		}
	}
	return helloasso.Form{}, fmt.Errorf("%w: %s", ErrUnknownForm, slug)
}
