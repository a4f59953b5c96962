package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/remote"
	"github.com/pribylovaa/kickoffzone-admin/internal/store"
	"github.com/pribylovaa/kickoffzone-admin/mocks"
)

var fixedNow = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

type env struct {
	remote  *mocks.MockRemote
	handler http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()

	mc := gomock.NewController(t)
	rm := mocks.NewMockRemote(mc)

	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := lifecycle.New(rm, store.New(),
		lifecycle.WithClock(func() time.Time { return fixedNow }),
		lifecycle.WithLocation(time.UTC),
		lifecycle.WithLogger(lg),
	)

	return &env{
		remote:  rm,
		handler: NewRouter(ctrl, Options{Logger: lg, Timeout: 5 * time.Second}),
	}
}

func (e *env) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type listBody struct {
	Kind  string `json:"kind"`
	Items []struct {
		ID             string `json:"id"`
		Status         string `json:"status"`
		Countdown      string `json:"countdown"`
		ScheduledLocal string `json:"scheduled_local"`
		Selected       bool   `json:"selected"`
	} `json:"items"`
	Selected []string `json:"selected"`
}

type errBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func news(id string, status models.Status) models.ContentItem {
	return models.ContentItem{ID: models.ID(id), Kind: models.KindNews, Title: "post " + id, Status: status}
}

func (e *env) loadDrafts(t *testing.T, items ...models.ContentItem) {
	t.Helper()

	e.remote.EXPECT().ListItems(gomock.Any(), models.KindNews, models.StatusDraft).Return(items, nil)
	rr := e.do(t, http.MethodGet, "/items/news?status=draft", nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestListItems(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.loadDrafts(t, news("1", models.StatusDraft), news("2", models.StatusDraft))

	rr := e.do(t, http.MethodGet, "/items/news/cached", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode[listBody](t, rr)
	require.Equal(t, "news", body.Kind)
	require.Len(t, body.Items, 2)
	require.Equal(t, "draft", body.Items[0].Status)
}

func TestListItems_ScheduledCountdown(t *testing.T) {
	t.Parallel()

	at := fixedNow.Add(30 * time.Minute)
	it := news("1", models.StatusApproved)
	it.ScheduledAt = &at

	e := newEnv(t)
	e.remote.EXPECT().ListScheduled(gomock.Any()).Return([]models.ContentItem{it}, nil)

	rr := e.do(t, http.MethodGet, "/items/news?scheduled=true", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode[listBody](t, rr)
	require.Len(t, body.Items, 1)
	require.Equal(t, "in 30 minutes", body.Items[0].Countdown)
	require.Equal(t, "2025-03-14T12:30", body.Items[0].ScheduledLocal)
}

func TestListItems_BadInput(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	for _, target := range []string{"/items/videos", "/items/news?status=archived", "/items/news?scheduled=maybe"} {
		rr := e.do(t, http.MethodGet, target, nil, "")
		require.Equal(t, http.StatusBadRequest, rr.Code, target)
		require.Equal(t, "invalid_argument", decode[errBody](t, rr).Error.Code)
	}
}

func TestListItems_UpstreamErrors(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.remote.EXPECT().ListItems(gomock.Any(), models.KindBirthday, models.Status("")).
		Return(nil, &apierrors.TransportError{Op: "list", Err: errors.New("refused")})

	req := httptest.NewRequest(http.MethodGet, "/items/birthday", nil)
	req.Header.Set("X-Request-Id", "rid-7")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadGateway, rr.Code)
	body := decode[errBody](t, rr)
	require.Equal(t, "upstream_unavailable", body.Error.Code)
	require.Equal(t, "rid-7", body.Error.RequestID)
}

func TestAct_ApproveForwardsRequestID(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.loadDrafts(t, news("1", models.StatusDraft))

	e.remote.EXPECT().
		Transition(gomock.Any(), models.KindNews, models.ID("1"), models.ActionApprove, nil).
		DoAndReturn(func(ctx context.Context, _ models.Kind, _ models.ID, _ models.Action, _ *time.Time) error {
			require.Equal(t, "rid-approve", remote.RequestIDFrom(ctx))
			return nil
		})

	req := httptest.NewRequest(http.MethodPost, "/items/news/1/approve", nil)
	req.Header.Set("X-Request-Id", "rid-approve")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Message string          `json:"message"`
		Item    json.RawMessage `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "approve: done", body.Message)
	require.Empty(t, body.Item, "approved item leaves the draft list")
}

func TestAct_PublishScheduledLocalTime(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.remote.EXPECT().ListItems(gomock.Any(), models.KindNews, models.StatusApproved).
		Return([]models.ContentItem{news("1", models.StatusApproved)}, nil)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/items/news?status=approved", nil, "").Code)

	want := time.Date(2025, time.March, 14, 15, 45, 0, 0, time.UTC)
	e.remote.EXPECT().
		Transition(gomock.Any(), models.KindNews, models.ID("1"), models.ActionPublish, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Kind, _ models.ID, _ models.Action, at *time.Time) error {
			require.NotNil(t, at)
			require.True(t, at.Equal(want))
			return nil
		})

	rr := e.do(t, http.MethodPost, "/items/news/1/publish",
		strings.NewReader(`{"scheduled_at":"2025-03-14T15:45"}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestAct_LocalRejections(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.loadDrafts(t, news("1", models.StatusDraft))

	tcs := []struct {
		name     string
		target   string
		body     string
		wantCode int
		wantErr  string
	}{
		{"publish_from_draft", "/items/news/1/publish", "", http.StatusConflict, "illegal_transition"},
		{"unknown_action", "/items/news/1/archive", "", http.StatusBadRequest, "invalid_argument"},
		{"not_loaded", "/items/news/99/approve", "", http.StatusNotFound, "not_loaded"},
		{"bad_time", "/items/news/1/publish", `{"scheduled_at":"tomorrow"}`, http.StatusBadRequest, "invalid_argument"},
		{"unknown_field", "/items/news/1/approve", `{"when":"now"}`, http.StatusBadRequest, "invalid_argument"},
		{"schedule_on_approve", "/items/news/1/approve", `{"scheduled_at":"2025-03-14T15:45"}`, http.StatusBadRequest, "invalid_argument"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			rr := e.do(t, http.MethodPost, tc.target, strings.NewReader(tc.body), "application/json")
			require.Equal(t, tc.wantCode, rr.Code, rr.Body.String())
			require.Equal(t, tc.wantErr, decode[errBody](t, rr).Error.Code)
		})
	}
}

func TestDeleteAndSelectionAndBulk(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.loadDrafts(t, news("A", models.StatusDraft), news("B", models.StatusDraft), news("C", models.StatusDraft), news("D", models.StatusDraft))

	e.remote.EXPECT().Delete(gomock.Any(), models.KindNews, models.ID("D")).Return(nil)
	rr := e.do(t, http.MethodDelete, "/items/news/D", nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/items/news/selection/A", nil, "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/items/news/selection/C", nil, "").Code)

	sel := decode[struct {
		Selected []string `json:"selected"`
	}](t, e.do(t, http.MethodGet, "/items/news/selection", nil, ""))
	require.Equal(t, []string{"A", "C"}, sel.Selected)

	e.remote.EXPECT().Transition(gomock.Any(), models.KindNews, models.ID("A"), models.ActionReject, nil).Return(nil)
	e.remote.EXPECT().Transition(gomock.Any(), models.KindNews, models.ID("C"), models.ActionReject, nil).
		Return(&apierrors.ApplicationError{Op: "reject", Message: "Post not found"})

	rr = e.do(t, http.MethodPost, "/items/news/bulk/reject", nil, "")
	require.Equal(t, http.StatusMultiStatus, rr.Code, rr.Body.String())

	bulk := decode[struct {
		Total  int `json:"total"`
		Failed []struct {
			ID    string `json:"id"`
			Code  string `json:"code"`
			Error string `json:"error"`
		} `json:"failed"`
		Selected []string `json:"selected"`
	}](t, rr)
	require.Equal(t, 2, bulk.Total)
	require.Len(t, bulk.Failed, 1)
	require.Equal(t, "C", bulk.Failed[0].ID)
	require.Equal(t, "upstream_rejected", bulk.Failed[0].Code)
	require.Equal(t, "Post not found", bulk.Failed[0].Error)
	require.Empty(t, bulk.Selected)

	list := decode[listBody](t, e.do(t, http.MethodGet, "/items/news/cached", nil, ""))
	ids := make([]string, 0, len(list.Items))
	for _, it := range list.Items {
		ids = append(ids, it.ID)
	}
	require.Equal(t, []string{"B", "C"}, ids)

	rr = e.do(t, http.MethodPost, "/items/news/bulk/reject", nil, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "empty_selection", decode[errBody](t, rr).Error.Code)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/items/news/selection/all", nil, "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/items/news/selection", nil, "").Code)
}

func TestManualPost_Multipart(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Transfer news"))
	require.NoError(t, mw.WriteField("summary", "Big signing"))
	require.NoError(t, mw.WriteField("scheduled_at", "2025-03-14T18:00"))
	fw, err := mw.CreateFormFile("image", "cover.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("jpeg"))
	require.NoError(t, mw.Close())

	created := news("11", models.StatusApproved)
	e.remote.EXPECT().SubmitManualPost(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p models.ManualPost) (models.SubmitResult, error) {
			require.Equal(t, "Transfer news", p.Title)
			require.Equal(t, "cover.jpg", p.Image.Name)
			require.NotNil(t, p.ScheduledAt)
			require.Equal(t, 18, p.ScheduledAt.Hour())

			b, err := io.ReadAll(p.Image.Body)
			require.NoError(t, err)
			require.Equal(t, "jpeg", string(b))

			return models.SubmitResult{Message: "Manual post created successfully", Item: &created}, nil
		})
	e.remote.EXPECT().ListItems(gomock.Any(), models.KindNews, models.Status("")).Return(nil, nil)

	rr := e.do(t, http.MethodPost, "/posts/manual", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestManualPost_MissingImage(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "No image"))
	require.NoError(t, mw.Close())

	rr := e.do(t, http.MethodPost, "/posts/manual", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, decode[errBody](t, rr).Error.Message, "image")
}

func TestGenerateBirthdays(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.remote.EXPECT().GenerateBirthdayPosts(gomock.Any(), models.BirthdayRequest{PlayerName: "Kaka", Team: "Milan"}).
		Return(models.GenerateResult{Players: []string{"Kaka"}}, nil)
	e.remote.EXPECT().ListItems(gomock.Any(), models.KindBirthday, models.Status("")).Return(nil, nil)

	rr := e.do(t, http.MethodPost, "/birthdays/generate",
		strings.NewReader(`{"player_name":"Kaka","team":"Milan"}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestSetImageURL(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.remote.EXPECT().SetImageURL(gomock.Any(), models.ID("5"), "https://img.example/5.jpg").Return(nil)

	rr := e.do(t, http.MethodPost, "/items/news/5/image-url",
		strings.NewReader(`{"image_url":"https://img.example/5.jpg"}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = e.do(t, http.MethodPost, "/items/news/5/image-url",
		strings.NewReader(`{"image_url":"/relative.jpg"}`), "application/json")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCountdown(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	body := decode[struct {
		Countdown string `json:"countdown"`
		Valid     bool   `json:"valid"`
		Reason    string `json:"reason"`
	}](t, e.do(t, http.MethodGet, "/schedule/countdown?at=2025-03-14T12:05", nil, ""))

	require.Equal(t, "in 5 minutes", body.Countdown)
	require.False(t, body.Valid)
	require.Contains(t, body.Reason, "too soon")

	rr := e.do(t, http.MethodGet, "/schedule/countdown?at=soon", nil, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
