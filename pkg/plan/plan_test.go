package plan

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
)

const sample = `
date: 2024-03-04
tasks:
  - title: Ship release
    priority: high
    startTime: "09:00"
    duration: 2h
    subtasks:
      - title: Tag build
      - title: Write notes
        duration: 30
  - title: Inbox zero
    description: archive everything older than a week
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", doc.Date)
	assert.Equal(t, 4, doc.Count())

	want := &taskv1.ImportPlanRequest{
		Date: "2024-03-04",
		Items: []*taskv1.PlanItem{
			{
				Title:     "Ship release",
				Priority:  "high",
				StartTime: "09:00",
				Duration:  120,
				Subtasks: []*taskv1.PlanItem{
					{Title: "Tag build"},
					{Title: "Write notes", Duration: 30},
				},
			},
			{Title: "Inbox zero", Description: "archive everything older than a week"},
		},
	}
	if diff := cmp.Diff(want, doc.Request("")); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "2024-03-05", doc.Request("2024-03-05").Date)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty input", "", "plan has no tasks"},
		{"no tasks", "date: 2024-03-04\n", "plan has no tasks"},
		{"unknown field", "tasks:\n  - title: x\n    owner: me\n", "owner"},
		{"bad duration", "tasks:\n  - title: x\n    duration: soon\n", "duration \"soon\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
