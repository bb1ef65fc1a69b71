package checkls

import (
	"regexp"
	"strconv"
	"strings"
)

// ToolKind identifies one of the external analysis tools run on save.
type ToolKind string

const (
	ToolBuild ToolKind = "build"
	ToolVet   ToolKind = "vet"
	ToolLint  ToolKind = "lint"
)

// Severity tokens carried by findings. Anything other than
// SeverityWarning is published as an error.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is a single issue parsed from tool output. Line is 1-based as
// reported by the tool.
type Finding struct {
	File     string
	Line     int
	Severity string
	Message  string
}

// findingLine matches the `path:line[:column]: message` shape shared by go
// build, go vet and golint style output.
var findingLine = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?:\s*(\S.*)$`)

// ParseOutput converts raw line oriented tool output into findings. A line
// that does not match the expected shape is skipped without aborting the
// parse. Indented lines continue the previous finding's message, so multi
// line messages like go vet's "have/want" pairs stay attached.
func (k ToolKind) ParseOutput(text string) []Finding {
	var findings []Finding
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if len(findings) > 0 {
				findings[len(findings)-1].Message += "\n" + strings.TrimSpace(line)
			}
			continue
		}
		m := findingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNo, err := strconv.Atoi(m[2])
		if err != nil || lineNo <= 0 {
			continue
		}
		msg := m[4]
		findings = append(findings, Finding{
			File:     m[1],
			Line:     lineNo,
			Severity: k.severity(msg),
			Message:  msg,
		})
	}
	return findings
}

// severity classifies a finding's message for this tool kind. Build
// failures are errors unless the compiler marked the message as a warning,
// vet findings are always errors, lint findings are always warnings.
func (k ToolKind) severity(message string) string {
	switch k {
	case ToolLint:
		return SeverityWarning
	case ToolBuild:
		if strings.HasPrefix(message, "warning:") {
			return SeverityWarning
		}
	}
	return SeverityError
}
