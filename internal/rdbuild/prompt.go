package rdbuild

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// interactiveMu ensures only one interactive prompt reads stdin at a time.
var interactiveMu sync.Mutex

// askForConfirmation prompts with [Y/n]. Without a TTY it answers "no", so
// destructive subcommands never fire from scripts by accident.
func askForConfirmation(p colorPrinter, format string, a ...any) bool {
	interactiveMu.Lock()
	defer interactiveMu.Unlock()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	reader := bufio.NewReader(os.Stdin)
	mainPrompt := fmt.Sprintf(format, a...)
	fullPrompt := fmt.Sprintf("%s [Y/n]: ", mainPrompt)

	for {
		cPrintf(p, "%s", fullPrompt)
		response, err := reader.ReadString('\n')
		if err != nil {
			return false // On error (like Ctrl+D), default to "no"
		}
		response = strings.ToLower(strings.TrimSpace(response))

		if response == "y" || response == "yes" || response == "" {
			return true
		}
		if response == "n" || response == "no" {
			return false
		}
		cPrintln(colWarn, "Invalid input.")
	}
}
