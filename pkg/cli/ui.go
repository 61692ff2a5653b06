package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/usecase/tutor"
)

// notifier prints tutor notices to a terminal
type notifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newNotifier(w io.Writer) *notifier {
	return &notifier{w: w}
}

func (n *notifier) Notify(ctx context.Context, notice tutor.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	mark := "✔"
	if notice.Destructive {
		mark = "✘"
	}
	fmt.Fprintf(n.w, "%s %s %s\n", mark, notice.Title, notice.Description)
}

// spinnerPending renders the pending placeholder as a terminal spinner
type spinnerPending struct {
	s *spinner.Spinner
}

func newSpinner(w io.Writer) *spinnerPending {
	return &spinnerPending{
		s: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

func (p *spinnerPending) Start(message string) {
	p.s.Suffix = " " + message
	p.s.Start()
}

func (p *spinnerPending) Stop() {
	p.s.Stop()
}

func printExplanation(w io.Writer, topic string, exp *model.Explanation) {
	fmt.Fprintf(w, "# %s\n\n", topic)
	fmt.Fprintf(w, "Difficulty: %s\tEstimated time: %s\n\n", exp.Difficulty, exp.EstimatedTime)
	fmt.Fprintf(w, "%s\n", exp.Explanation)

	if len(exp.Resources) > 0 {
		fmt.Fprintf(w, "\nRecommended resources:\n")
		for _, r := range exp.Resources {
			fmt.Fprintf(w, "  [%s] %s\n      %s\n", r.Type, r.Title, r.URL)
			if r.Description != "" {
				fmt.Fprintf(w, "      %s\n", r.Description)
			}
		}
	}
}

func printQuestion(w io.Writer, index, total int, q *model.QuizQuestion) {
	fmt.Fprintf(w, "\nQuestion %d of %d (%s)\n%s\n", index+1, total, q.Type, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(w, "  %d. %s\n", i+1, opt)
	}
}

func printConceptMap(w io.Writer, m *model.ConceptMap) {
	fmt.Fprintf(w, "%s\n", m.MainTopic)
	for i, sub := range m.Subtopics {
		branch := "├──"
		indent := "│  "
		if i == len(m.Subtopics)-1 {
			branch = "└──"
			indent = "   "
		}
		fmt.Fprintf(w, "%s %s: %s\n", branch, sub.Name, sub.Description)
		if len(sub.Connections) > 0 {
			fmt.Fprintf(w, "%s    ↔ %s\n", indent, strings.Join(sub.Connections, ", "))
		}
	}
}

func printHistory(w io.Writer, entries []*model.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No history found\n")
		return
	}
	for _, e := range entries {
		detail := ""
		if e.Response != nil {
			detail = string(e.Response.Kind)
			if e.Response.Explanation != nil {
				detail += "/" + string(e.Response.Explanation.Difficulty)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			e.Query,
			detail,
		)
	}
}

func printSavedTopics(w io.Writer, topics []*model.SavedTopic) {
	if len(topics) == 0 {
		fmt.Fprintf(w, "No saved topics yet. Start asking questions to build your study collection!\n")
		return
	}
	for _, t := range topics {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			t.ID,
			t.SavedAt.Local().Format("2006-01-02 15:04:05"),
			t.Title,
		)
	}
}
