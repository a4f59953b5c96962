package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/schedule"
)

func parseKind(s string) (models.Kind, error) {
	kind, err := models.ParseKind(s)
	if err != nil {
		return "", apierrors.Validation("kind", err)
	}

	return kind, nil
}

func (a *app) listCmd() *cobra.Command {
	var (
		status       string
		scheduled    bool
		missingImage bool
	)

	cmd := &cobra.Command{
		Use:   "list <news|birthday>",
		Short: "List items of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			var f models.Filter
			if status != "" {
				if f.Status, err = models.ParseStatus(status); err != nil {
					return apierrors.Validation("status", err)
				}
			}
			f.ScheduledOnly = scheduled
			f.MissingImageOnly = missingImage

			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			items, err := ctrl.Load(cmd.Context(), kind, f)
			if err != nil {
				return err
			}

			return a.printItems(items)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status: draft|approved|published|rejected")
	cmd.Flags().BoolVar(&scheduled, "scheduled", false, "only scheduled news")
	cmd.Flags().BoolVar(&missingImage, "missing-image", false, "only news without an image")

	return cmd
}

func (a *app) scheduledCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduled",
		Short: "List news waiting for scheduled publication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			items, err := ctrl.LoadScheduled(cmd.Context())
			if err != nil {
				return err
			}

			return a.printItems(items)
		},
	}
}

func (a *app) missingImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "missing-images",
		Short: "List news without an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			items, err := ctrl.LoadMissingImages(cmd.Context())
			if err != nil {
				return err
			}

			return a.printItems(items)
		},
	}
}

// actionCmd — approve|reject|publish|delete над одним элементом.
// Элемент сначала загружается: проверки перехода выполняются по актуальному статусу.
func (a *app) actionCmd(name string) *cobra.Command {
	var at string

	action := models.Action(name)

	cmd := &cobra.Command{
		Use:   name + " <news|birthday> <id>",
		Short: fmt.Sprintf("%s one item", name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			id := models.ID(args[1])

			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			var scheduledAt *time.Time
			if at != "" {
				t, err := schedule.ToAbsoluteInstant(at, ctrl.Location())
				if err != nil {
					return err
				}
				scheduledAt = &t
			}

			if _, err := ctrl.Load(cmd.Context(), kind, models.Filter{}); err != nil {
				return err
			}

			if err := ctrl.Act(cmd.Context(), kind, id, action, scheduledAt); err != nil {
				return err
			}

			return a.printItem(kind, id)
		},
	}

	if action == models.ActionPublish {
		cmd.Flags().StringVar(&at, "at", "", "schedule publication at local time (2006-01-02T15:04)")
	}

	return cmd
}

func (a *app) cancelScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-schedule <id>",
		Short: "Cancel scheduled publication of a news post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := models.ID(args[0])

			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			if _, err := ctrl.LoadScheduled(cmd.Context()); err != nil {
				return err
			}

			return ctrl.CancelSchedule(cmd.Context(), id)
		},
	}
}

// bulkCmd — массовое действие над выбранными id (или над всем загруженным списком с --all).
func (a *app) bulkCmd() *cobra.Command {
	var (
		all    bool
		status string
	)

	cmd := &cobra.Command{
		Use:   "bulk <action> <news|birthday> [id...]",
		Short: "Apply one action to several items",
		Example: "  kickoffzone-admin bulk reject news 12 15 19\n" +
			"  kickoffzone-admin bulk delete birthday --all --status rejected",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := models.ParseAction(args[0])
			if err != nil {
				return apierrors.Validation("action", err)
			}
			kind, err := parseKind(args[1])
			if err != nil {
				return err
			}

			ids := args[2:]
			if all == (len(ids) > 0) {
				return apierrors.Validation("ids", errors.New("pass item ids or --all, not both"))
			}

			var f models.Filter
			if status != "" {
				if f.Status, err = models.ParseStatus(status); err != nil {
					return apierrors.Validation("status", err)
				}
			}

			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			if _, err := ctrl.Load(cmd.Context(), kind, f); err != nil {
				return err
			}

			if all {
				ctrl.SelectAll(kind)
			}
			for _, raw := range ids {
				id := models.ID(raw)
				if _, ok := ctrl.Store().Get(kind, id); !ok {
					return apierrors.Validation("id", fmt.Errorf("%s: %w", id, lifecycle.ErrNotLoaded))
				}
				if !ctrl.Store().IsSelected(kind, id) {
					ctrl.Toggle(kind, id)
				}
			}

			err = ctrl.Bulk(cmd.Context(), kind, action)

			var be *lifecycle.BulkError
			if errors.As(err, &be) {
				for _, id := range be.FailedIDs() {
					fmt.Fprintf(a.errOut, "  %s: %s\n", id, apierrors.UserMessage(action.String(), be.Failed[id]))
				}
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "select every loaded item")
	cmd.Flags().StringVar(&status, "status", "", "load only items with this status")

	return cmd
}

func (a *app) countdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countdown <2006-01-02T15:04>",
		Short: "Check a local publication time against the schedule policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			at, err := schedule.ToAbsoluteInstant(args[0], ctrl.Location())
			if err != nil {
				return err
			}

			now := ctrl.Now()
			fmt.Fprintf(a.out, "%s UTC, %s\n", at.Format(time.RFC3339), schedule.DescribeCountdown(at, now))

			return ctrl.Policy().Validate(at, now)
		},
	}
}
