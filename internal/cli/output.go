package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"codego/internal/models"
	"codego/internal/notify"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// TerminalNotifier prints notifications as colored lines.
type TerminalNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalNotifier writes to w.
func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

func (t *TerminalNotifier) Notify(_ context.Context, n notify.Notification) {
	attr := color.FgGreen
	switch n.Variant {
	case notify.Destructive:
		attr = color.FgRed
	case notify.Warning:
		attr = color.FgYellow
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	title := color.New(attr, color.Bold).Sprint(n.Title)
	if n.Description == "" {
		fmt.Fprintln(t.w, title)
		return
	}
	fmt.Fprintf(t.w, "%s: %s\n", title, n.Description)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, color.New(color.FgRed, color.Bold).Sprint("Error: ")+err.Error())
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func renderPosts(w io.Writer, posts []models.Post) {
	table := newTable(w, "ID", "Title", "Author", "Likes", "Comments", "Created")
	for _, p := range posts {
		table.Append([]string{
			p.ID,
			p.Title,
			p.Username,
			strconv.Itoa(len(p.Likes)),
			strconv.Itoa(len(p.Comments)),
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	table.Render()
}

func renderPoll(w io.Writer, poll models.Poll, userID string) {
	fmt.Fprintf(w, "%s  %s\n", color.New(color.Bold).Sprint(poll.Question), poll.ID)
	table := newTable(w, "Option", "Text", "Votes", "%")
	total := poll.TotalVotes()
	for _, o := range poll.Options {
		text := o.Text
		if userID != "" && o.HasVoter(userID) {
			text = color.New(color.FgHiGreen).Sprint(text + " ✓")
		}
		table.Append([]string{
			o.ID,
			text,
			strconv.Itoa(len(o.Votes)),
			strconv.Itoa(o.Percentage(total)),
		})
	}
	table.Render()
}

func renderMaterials(w io.Writer, materials []models.LearningMaterial) {
	table := newTable(w, "ID", "Title", "Type", "URL", "Author")
	for _, m := range materials {
		table.Append([]string{m.ID, m.Title, string(m.FileType), m.FileURL, m.Username})
	}
	table.Render()
}
