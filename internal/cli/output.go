package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/schedule"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// itemView — элемент для вывода. Время расписания — в зоне модератора.
type itemView struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        string   `json:"kind" yaml:"kind"`
	Status      string   `json:"status" yaml:"status"`
	Title       string   `json:"title" yaml:"title"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	ImageRef    string   `json:"image_ref,omitempty" yaml:"image_ref,omitempty"`
	SourceURL   string   `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty" yaml:"hashtags,omitempty"`
	ScheduledAt string   `json:"scheduled_at,omitempty" yaml:"scheduled_at,omitempty"`
	Countdown   string   `json:"countdown,omitempty" yaml:"countdown,omitempty"`
	Player      string   `json:"player,omitempty" yaml:"player,omitempty"`
	Team        string   `json:"team,omitempty" yaml:"team,omitempty"`
	Age         int      `json:"age,omitempty" yaml:"age,omitempty"`
}

func toView(it models.ContentItem, now time.Time, loc *time.Location) itemView {
	v := itemView{
		ID:        it.ID.String(),
		Kind:      it.Kind.String(),
		Status:    it.Status.String(),
		Title:     it.Title,
		Summary:   it.Summary,
		ImageRef:  it.ImageRef,
		SourceURL: it.SourceURL,
		Hashtags:  it.Hashtags,
	}
	if it.ScheduledAt != nil {
		v.ScheduledAt = schedule.FormatLocal(*it.ScheduledAt, loc)
		v.Countdown = schedule.DescribeCountdown(*it.ScheduledAt, now)
	}
	if b := it.Birthday; b != nil {
		v.Player, v.Team, v.Age = b.Name, b.Team, b.Age
	}

	return v
}

// render выводит значение в выбранном формате; table — через tableFn.
func render(w io.Writer, format string, value any, tableFn func(io.Writer) error) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		return tableFn(w)
	}
}

func (a *app) printItems(items []models.ContentItem) error {
	now, loc := a.ctrl.Now(), a.ctrl.Location()

	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, toView(it, now, loc))
	}

	return render(a.out, a.output, views, func(w io.Writer) error {
		if len(views) == 0 {
			_, err := fmt.Fprintln(w, "No items.")
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tKIND\tSTATUS\tSCHEDULED\tIMAGE\tTITLE")
		for _, v := range views {
			scheduled := "-"
			if v.ScheduledAt != "" {
				scheduled = v.ScheduledAt + " (" + v.Countdown + ")"
			}
			image := "no"
			if strings.TrimSpace(v.ImageRef) != "" {
				image = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.Kind, v.Status, scheduled, image, truncate(v.Title, 60))
		}

		return tw.Flush()
	})
}

// printItem — один элемент после действия; пропадает, если ушёл из списка.
func (a *app) printItem(kind models.Kind, id models.ID) error {
	it, ok := a.ctrl.Store().Get(kind, id)
	if !ok {
		return nil
	}

	return a.printItems([]models.ContentItem{it})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
