package pretty

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/mdinbox/pkg/remote"
)

// FormatRepositories lists repositories one per line. The current
// repository is marked with '*'.
func (t *TableFormatter) FormatRepositories(repos []remote.Repository, current string) string {
	nameWidth := 0
	for _, repo := range repos {
		nameWidth = max(nameWidth, runewidth.StringWidth(repo.FullName))
	}

	var builder strings.Builder
	for _, repo := range repos {
		marker := " "
		if strings.EqualFold(repo.FullName, current) {
			marker = t.styles.Success.Render("*")
		}

		visibility := "public "
		if repo.Private {
			visibility = "private"
		}

		line := marker + " " + t.styles.Name.Render(runewidth.FillRight(repo.FullName, nameWidth)) +
			"  " + t.styles.Dim.Render(visibility)
		if repo.Description != "" {
			descWidth := max(t.termWidth-nameWidth-13, 10)
			line += "  " + runewidth.Truncate(repo.Description, descWidth, "...")
		}
		builder.WriteString(line + "\n")
	}
	return builder.String()
}
