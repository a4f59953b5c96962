package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/schedule"
)

// openFile открывает локальный файл для загрузки; закрыть — вызывающему.
func openFile(field, path string) (models.File, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.File{}, nil, apierrors.Validation(field, err)
	}

	return models.File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Body:        f,
	}, f, nil
}

func localTime(ctrl *lifecycle.Controller, at string) (*time.Time, error) {
	if at == "" {
		return nil, nil
	}

	t, err := schedule.ToAbsoluteInstant(at, ctrl.Location())
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (a *app) fetchNewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-news",
		Short: "Ask the server to collect the latest news as drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			created, err := ctrl.FetchLatestNews(cmd.Context())
			if err != nil {
				return err
			}

			return a.printItems(created)
		},
	}
}

func (a *app) generateBirthdaysCmd() *cobra.Command {
	var req models.BirthdayRequest

	cmd := &cobra.Command{
		Use:   "generate-birthdays",
		Short: "Generate birthday posts for the week, or for one player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			res, err := ctrl.GenerateBirthdayPosts(cmd.Context(), req)
			if err != nil {
				return err
			}

			for _, p := range res.Players {
				fmt.Fprintln(a.out, p)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&req.PlayerName, "player", "", "generate for one player instead of the weekly batch")
	cmd.Flags().StringVar(&req.Team, "team", "", "player's team")
	cmd.Flags().StringVar(&req.ImageURL, "image-url", "", "image for the generated post")
	cmd.Flags().BoolVar(&req.PostNow, "post-now", false, "publish right away")

	return cmd
}

func (a *app) postCmd() *cobra.Command {
	var (
		title, summary, image, at string
		postNow                   bool
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create a news post manually",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			scheduledAt, err := localTime(ctrl, at)
			if err != nil {
				return err
			}

			post := models.ManualPost{Title: title, Summary: summary, PostNow: postNow, ScheduledAt: scheduledAt}
			if image != "" {
				file, f, err := openFile("image", image)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				post.Image = file
			}

			res, err := ctrl.SubmitManualPost(cmd.Context(), post)
			if err != nil {
				return err
			}
			if res.Item != nil {
				return a.printItems([]models.ContentItem{*res.Item})
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title (required)")
	cmd.Flags().StringVar(&summary, "summary", "", "post text")
	cmd.Flags().StringVar(&image, "image", "", "path to the cover image (required)")
	cmd.Flags().StringVar(&at, "at", "", "schedule publication at local time (2006-01-02T15:04)")
	cmd.Flags().BoolVar(&postNow, "post-now", false, "publish right away")

	return cmd
}

func (a *app) birthdayDirectCmd() *cobra.Command {
	var (
		name, postID, at string
		year             int
		images, urls     []string
	)

	cmd := &cobra.Command{
		Use:   "birthday-direct",
		Short: "Publish a birthday post with prepared images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			scheduledAt, err := localTime(ctrl, at)
			if err != nil {
				return err
			}

			post := models.BirthdayDirect{
				Name:        name,
				Year:        year,
				PostID:      models.ID(postID),
				ScheduledAt: scheduledAt,
				ImageURLs:   urls,
			}
			for _, path := range images {
				file, f, err := openFile("images", path)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				post.Images = append(post.Images, file)
			}

			_, err = ctrl.SubmitBirthdayDirect(cmd.Context(), post)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "player name (required)")
	cmd.Flags().IntVar(&year, "year", 0, "birth year")
	cmd.Flags().StringVar(&postID, "post-id", "", "existing birthday post to publish")
	cmd.Flags().StringVar(&at, "at", "", "schedule publication at local time (2006-01-02T15:04)")
	cmd.Flags().StringSliceVar(&images, "image", nil, "image file (repeatable)")
	cmd.Flags().StringSliceVar(&urls, "image-url", nil, "image url (repeatable)")

	return cmd
}

func (a *app) uploadVideoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-video <file>",
		Short: "Upload a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			file, f, err := openFile("file", args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			_, err = ctrl.SubmitVideo(cmd.Context(), file)
			return err
		},
	}
}

func (a *app) setImageCmd() *cobra.Command {
	var file, imageURL string

	cmd := &cobra.Command{
		Use:   "set-image <id>",
		Short: "Attach an image to a news post (file or url)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (imageURL == "") {
				return apierrors.Validation("image", errors.New("pass exactly one of --file or --url"))
			}

			id := models.ID(args[0])

			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			if imageURL != "" {
				return ctrl.SetImageURL(cmd.Context(), id, imageURL)
			}

			img, f, err := openFile("image", file)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			return ctrl.UploadImage(cmd.Context(), id, img)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the image file")
	cmd.Flags().StringVar(&imageURL, "url", "", "absolute http(s) image url")

	return cmd
}
