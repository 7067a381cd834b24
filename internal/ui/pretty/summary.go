package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdinbox/pkg/remote"
	"github.com/yaklabco/mdinbox/pkg/remotesync"
)

// FormatPublishResult formats the outcome of a publish as one line.
func (s *Styles) FormatPublishResult(result remotesync.Result, repository string) string {
	switch result.Outcome {
	case remotesync.OutcomeSaved:
		return s.Success.Render("Saved") + " " +
			s.Path.Render(repository+"/"+result.Path) +
			s.Dim.Render(fmt.Sprintf(" (%d bytes)", result.Bytes)) + "\n"
	case remotesync.OutcomeDropped:
		return s.Warning.Render("Dropped") + " " +
			s.Dim.Render("another save is in flight") + "\n"
	default:
		return s.Failure.Render("Not saved") + "\n"
	}
}

// FormatPublishError formats a failed publish. The server's message is shown
// verbatim for rejected requests.
func (s *Styles) FormatPublishError(err error) string {
	var builder strings.Builder
	builder.WriteString(s.Failure.Render("Not saved") + " ")

	switch {
	case remote.IsNotConfigured(err):
		builder.WriteString("token and repository are not configured")
		builder.WriteString("\n  " + s.Dim.Render("run: mdinbox config set token <token>; mdinbox config set repository <owner/name>"))
	case remote.IsRemoteRejected(err):
		builder.WriteString(fmt.Sprintf("remote rejected the document (%d): %s",
			remote.RejectionStatus(err), remote.RejectionMessage(err)))
	case remote.IsTransport(err):
		builder.WriteString("could not reach the remote; the draft is kept locally")
	default:
		builder.WriteString(err.Error())
	}
	builder.WriteString("\n")
	return builder.String()
}

// FormatRoundTrip reports the result of a round-trip check of name.
func (s *Styles) FormatRoundTrip(name string, stable bool) string {
	if stable {
		return s.Success.Render("stable") + "  " + s.Path.Render(name) + "\n"
	}
	return s.Failure.Render("unstable") + "  " + s.Path.Render(name) +
		s.Dim.Render("  (serialize/parse does not reproduce the document)") + "\n"
}

// FormatDraftStatus describes the local draft at path.
func (s *Styles) FormatDraftStatus(path string, bytes int) string {
	if bytes == 0 {
		return s.Dim.Render("No draft") + "  " + s.Path.Render(path) + "\n"
	}
	return s.Info.Render("Draft") + "  " + s.Path.Render(path) +
		s.Dim.Render(fmt.Sprintf(" (%d bytes)", bytes)) + "\n"
}
