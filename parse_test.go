package checkls

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToolKind_ParseOutput(t *testing.T) {
	tests := []struct {
		name string
		kind ToolKind
		text string
		want []Finding
	}{
		{
			name: "build error without column",
			kind: ToolBuild,
			text: "main.go:10: undefined: foo\n",
			want: []Finding{{File: "main.go", Line: 10, Severity: "error", Message: "undefined: foo"}},
		},
		{
			name: "lint finding with column",
			kind: ToolLint,
			text: "main.go:3:5: possible misuse of unsafe.Pointer",
			want: []Finding{{File: "main.go", Line: 3, Severity: "warning", Message: "possible misuse of unsafe.Pointer"}},
		},
		{
			name: "vet findings are errors",
			kind: ToolVet,
			text: "main.go:7:2: unreachable code",
			want: []Finding{{File: "main.go", Line: 7, Severity: "error", Message: "unreachable code"}},
		},
		{
			name: "build warning marker",
			kind: ToolBuild,
			text: "main.go:4:1: warning: something odd",
			want: []Finding{{File: "main.go", Line: 4, Severity: "warning", Message: "warning: something odd"}},
		},
		{
			name: "malformed lines are skipped",
			kind: ToolBuild,
			text: "# example.com/p\nmain.go:10: undefined: foo\nexit status 2\n",
			want: []Finding{{File: "main.go", Line: 10, Severity: "error", Message: "undefined: foo"}},
		},
		{
			name: "continuation lines extend the previous message",
			kind: ToolVet,
			text: "main.go:12:2: wrong number of args\n\thave (int)\n\twant (string)\n",
			want: []Finding{{File: "main.go", Line: 12, Severity: "error", Message: "wrong number of args\nhave (int)\nwant (string)"}},
		},
		{
			name: "continuation before any finding is skipped",
			kind: ToolVet,
			text: "\thave (int)\nmain.go:12:2: ok",
			want: []Finding{{File: "main.go", Line: 12, Severity: "error", Message: "ok"}},
		},
		{
			name: "non-positive line is dropped",
			kind: ToolBuild,
			text: "main.go:0: bogus",
			want: nil,
		},
		{
			name: "empty output",
			kind: ToolBuild,
			text: "",
			want: nil,
		},
		{
			name: "crlf line endings",
			kind: ToolLint,
			text: "main.go:2:1: exported function F should have comment\r\n",
			want: []Finding{{File: "main.go", Line: 2, Severity: "warning", Message: "exported function F should have comment"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.kind.ParseOutput(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseOutput() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
