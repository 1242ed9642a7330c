// Package plan reads day plans written as YAML, for example the output of
// an assistant asked to break a goal into tasks:
//
//	date: 2024-03-04
//	tasks:
//	  - title: Ship release
//	    startTime: "09:00"
//	    duration: 2h
//	    subtasks:
//	      - title: Tag build
//	      - title: Write notes
//	        duration: 30
package plan

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
)

var ErrEmptyPlan = errors.New("plan has no tasks")

type Document struct {
	Date  string `yaml:"date"`
	Tasks []Item `yaml:"tasks"`
}

type Item struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Priority    string  `yaml:"priority"`
	StartTime   string  `yaml:"startTime"`
	Duration    Minutes `yaml:"duration"`
	Subtasks    []Item  `yaml:"subtasks"`
}

// Minutes accepts either a number of minutes or a duration such as "1h30m"
type Minutes int

func (m *Minutes) UnmarshalYAML(node *yaml.Node) error {
	value := strings.TrimSpace(node.Value)
	if value == "" {
		*m = 0
		return nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		*m = Minutes(n)
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("line %d: duration %q is neither minutes nor a duration", node.Line, value)
	}
	*m = Minutes(d / time.Minute)
	return nil
}

// Parse decodes a plan document. Unknown fields are rejected so typos surface.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyPlan
		}
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(doc.Tasks) == 0 {
		return nil, ErrEmptyPlan
	}
	return &doc, nil
}

// Request converts the document into an ImportPlan call. date overrides the
// document date when set.
func (d *Document) Request(date string) *taskv1.ImportPlanRequest {
	if date == "" {
		date = d.Date
	}
	return &taskv1.ImportPlanRequest{
		Date:  date,
		Items: convertItems(d.Tasks),
	}
}

// Count returns the number of tasks in the document, subtasks included
func (d *Document) Count() int {
	return countItems(d.Tasks)
}

func convertItems(items []Item) []*taskv1.PlanItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]*taskv1.PlanItem, len(items))
	for i, item := range items {
		out[i] = &taskv1.PlanItem{
			Title:       item.Title,
			Description: item.Description,
			Priority:    item.Priority,
			StartTime:   item.StartTime,
			Duration:    int32(item.Duration),
			Subtasks:    convertItems(item.Subtasks),
		}
	}
	return out
}

func countItems(items []Item) int {
	n := len(items)
	for _, item := range items {
		n += countItems(item.Subtasks)
	}
	return n
}
