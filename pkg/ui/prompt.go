package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"mvdan.cc/xurls/v2"
)

// Prompt is shown before reading a URL from an interactive terminal
const Prompt = "Enter Instagram URL: "

var urlFinder = xurls.Relaxed()

// ReadURL reads one line from in and returns the URL it contains. The prompt
// is written to out only when in is a terminal. When the line has no
// recognizable link the trimmed line is returned as is, and an empty input
// yields "".
func ReadURL(in io.Reader, out io.Writer) (string, error) {
	if isTerminal(in) {
		fmt.Fprint(out, Prompt)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read URL: %w", err)
	}

	return ExtractURL(line), nil
}

// ExtractURL returns the first instagram.com link found in text. Without one
// it falls back to the first link of any kind, then to the trimmed text.
func ExtractURL(text string) string {
	text = strings.TrimSpace(text)
	found := urlFinder.FindAllString(text, -1)
	for _, u := range found {
		if strings.Contains(strings.ToLower(u), "instagram.com") {
			return u
		}
	}
	if len(found) > 0 {
		return found[0]
	}
	return text
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
