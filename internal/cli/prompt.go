package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
)

// confirm спрашивает подтверждение в терминале. С --yes подтверждает без вопроса;
// пустой ввод, EOF и всё, кроме y/yes, — отказ.
func (a *app) confirm(_ context.Context, p lifecycle.Prompt) bool {
	if a.yes {
		return true
	}

	fmt.Fprintf(a.errOut, "%s [y/N]: ", p.Text)

	reader := bufio.NewReader(a.in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
