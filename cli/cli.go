// Package cli handles the interactive filename prompt.
// A terminal gets a survey prompt; piped input is read as a single line.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"

	"scriptfetch/util"
)

// ErrInterrupted is returned when the user aborts the prompt with Ctrl+C.
var ErrInterrupted = errors.New("prompt interrupted")

// GetFilenameFromUser asks for the script filename and returns the raw
// answer. Normalization is left to the caller, so an empty answer or a
// closed input stream yields "".
func GetFilenameFromUser(in io.Reader, out io.Writer) (string, error) {
	fin, inOK := in.(*os.File)
	fout, outOK := out.(*os.File)
	if inOK && outOK && term.IsTerminal(int(fin.Fd())) {
		return askTerminal(fin, fout)
	}
	return readLine(in, out)
}

func askTerminal(in, out *os.File) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: util.PromptLabel + ":",
		Help:    util.ExampleHint,
	}
	err := survey.AskOne(prompt, &answer, survey.WithStdio(in, out, os.Stderr))
	if errors.Is(err, terminal.InterruptErr) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", fmt.Errorf("failed to read filename: %w", err)
	}
	return answer, nil
}

func readLine(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintf(out, "%s: ", util.PromptLabel)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read filename: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
