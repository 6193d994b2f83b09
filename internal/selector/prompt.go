package selector

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// SurveyPrompter asks questions on the terminal
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a terminal prompter. Options are passed to every
// survey.AskOne call.
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

// Ask implements Prompter
func (p *SurveyPrompter) Ask(message string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{Message: message}, &answer, p.opts...); err != nil {
		return "", err
	}
	return answer, nil
}

// LinePrompter reads one answer per line, for input that is not a terminal
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter writing questions to out and reading
// answers from in
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Ask implements Prompter. It fails with io.EOF once the input is exhausted.
func (p *LinePrompter) Ask(message string) (string, error) {
	fmt.Fprintf(p.out, "%s ", message)

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
