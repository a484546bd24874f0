// Package week holds the dashboard's only real business logic: classifying a
// timeline task into one of three sliding calendar windows and deriving the
// human-readable weekly summaries shown per developer.
package week

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	Previous Type = "previous"
	Current  Type = "current"
	Upcoming Type = "upcoming"
)

// Bounds returns the Sunday-to-Saturday window containing now: Sunday
// 00:00:00.000 through Saturday 23:59:59.999 in now's location.
func Bounds(now time.Time) (start, end time.Time) {
	y, m, d := now.AddDate(0, 0, -int(now.Weekday())).Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// Classify buckets a task into the previous, current, or upcoming week
// relative to now, or reports false when it falls in none of the three.
//
// Only taskStart is compared: a task whose end overlaps a window but whose
// start precedes all of them is excluded from the three-week display. That is
// a deliberate contract the summaries and the frontend depend on, not an
// oversight.
func Classify(taskStart, taskEnd, now time.Time) (Type, bool) {
	_ = taskEnd
	curStart, curEnd := Bounds(now)
	within := func(s, e time.Time) bool {
		return !taskStart.Before(s) && !taskStart.After(e)
	}
	switch {
	case within(curStart, curEnd):
		return Current, true
	case within(curStart.AddDate(0, 0, -7), curEnd.AddDate(0, 0, -7)):
		return Previous, true
	case within(curStart.AddDate(0, 0, 7), curEnd.AddDate(0, 0, 7)):
		return Upcoming, true
	}
	return "", false
}

// TaskView is the slice of a task the summary generator needs.
type TaskView struct {
	Title    string
	Progress int
}

// Summarize renders a week's task list as one line: in-progress items first
// ("Title (40%)"), then completed ones ("Title - Concluído"), groups joined
// with " | ". Not-started items appear, as bare titles, only when both other
// groups are empty.
func Summarize(tasks []TaskView) string {
	if len(tasks) == 0 {
		return "Sem atividades"
	}
	var inProgress, completed, notStarted []string
	for _, t := range tasks {
		switch {
		case t.Progress > 0 && t.Progress < 100:
			inProgress = append(inProgress, fmt.Sprintf("%s (%d%%)", t.Title, t.Progress))
		case t.Progress == 100:
			completed = append(completed, t.Title+" - Concluído")
		case t.Progress == 0:
			notStarted = append(notStarted, t.Title)
		}
	}
	var groups []string
	if len(inProgress) > 0 {
		groups = append(groups, strings.Join(inProgress, ", "))
	}
	if len(completed) > 0 {
		groups = append(groups, strings.Join(completed, ", "))
	}
	if len(groups) == 0 && len(notStarted) > 0 {
		groups = append(groups, strings.Join(notStarted, ", "))
	}
	if len(groups) == 0 {
		return "Aguardando alocação"
	}
	return strings.Join(groups, " | ")
}

// ClassifiedTask is a task already tagged with its week type.
type ClassifiedTask struct {
	Title    string
	Progress int
	Type     Type
}

// Summaries holds the three weekly summary strings for one developer.
type Summaries struct {
	LastWeek string
	ThisWeek string
	NextWeek string
}

// BuildSummaries buckets classified tasks by week type and summarizes each
// bucket.
func BuildSummaries(tasks []ClassifiedTask) Summaries {
	buckets := map[Type][]TaskView{}
	for _, t := range tasks {
		buckets[t.Type] = append(buckets[t.Type], TaskView{Title: t.Title, Progress: t.Progress})
	}
	return Summaries{
		LastWeek: Summarize(buckets[Previous]),
		ThisWeek: Summarize(buckets[Current]),
		NextWeek: Summarize(buckets[Upcoming]),
	}
}
