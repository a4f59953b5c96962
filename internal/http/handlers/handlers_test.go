package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
	"github.com/pribylovaa/kickoffzone-admin/internal/models"
	"github.com/pribylovaa/kickoffzone-admin/internal/store"
	"github.com/pribylovaa/kickoffzone-admin/mocks"
)

var fixedNow = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

func newHandlers(t *testing.T) (*Handlers, *mocks.MockRemote) {
	t.Helper()

	rm := mocks.NewMockRemote(gomock.NewController(t))
	ctrl := lifecycle.New(rm, store.New(),
		lifecycle.WithClock(func() time.Time { return fixedNow }),
		lifecycle.WithLocation(time.UTC),
		lifecycle.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	return New(ctrl), rm
}

type part struct {
	field, name, body string
}

// form собирает multipart-тело из полей и файлов.
func form(t *testing.T, fields map[string][]string, files ...part) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = io.WriteString(w, f.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	return body
}

func TestMultipartHandlers_RejectBadForms(t *testing.T) {
	t.Parallel()

	h, _ := newHandlers(t)

	tcs := []struct {
		name    string
		handler http.HandlerFunc
		body    func(t *testing.T) (io.Reader, string)
		message string
	}{
		{
			name:    "manual_not_multipart",
			handler: h.ManualPost,
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"title":"x"}`), "application/json"
			},
			message: "invalid body",
		},
		{
			name:    "manual_bad_post_now",
			handler: h.ManualPost,
			body: func(t *testing.T) (io.Reader, string) {
				return form(t, map[string][]string{"title": {"Derby"}, "post_now": {"maybe"}}, part{"image", "a.png", "png"})
			},
			message: "invalid post_now",
		},
		{
			name:    "manual_bad_scheduled_at",
			handler: h.ManualPost,
			body: func(t *testing.T) (io.Reader, string) {
				return form(t, map[string][]string{"title": {"Derby"}, "scheduled_at": {"tomorrow"}}, part{"image", "a.png", "png"})
			},
			message: "scheduled",
		},
		{
			name:    "direct_bad_year",
			handler: h.BirthdayDirect,
			body: func(t *testing.T) (io.Reader, string) {
				return form(t, map[string][]string{"name": {"Kaka"}, "year": {"nineteen"}})
			},
			message: "invalid year",
		},
		{
			name:    "video_missing_file",
			handler: h.Video,
			body: func(t *testing.T) (io.Reader, string) {
				return form(t, map[string][]string{"title": {"clip"}})
			},
			message: "invalid file: required",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			body, ct := tc.body(t)
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", ct)

			rr := httptest.NewRecorder()
			tc.handler(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			got := decodeError(t, rr)
			require.Equal(t, "invalid_argument", got.Error.Code)
			require.Contains(t, got.Error.Message, tc.message)
		})
	}
}

func TestBirthdayDirect_MapsFormFields(t *testing.T) {
	t.Parallel()

	h, rm := newHandlers(t)

	rm.EXPECT().
		SubmitBirthdayDirect(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, post models.BirthdayDirect) (models.SubmitResult, error) {
			require.Equal(t, "Kaka", post.Name)
			require.Equal(t, 1982, post.Year)
			require.Equal(t, models.ID("12"), post.PostID)
			require.Equal(t, []string{"https://img.example/1.jpg", "https://img.example/2.jpg"}, post.ImageURLs)
			require.Len(t, post.Images, 2)
			require.Equal(t, "a.jpg", post.Images[0].Name)

			b, err := io.ReadAll(post.Images[1].Body)
			require.NoError(t, err)
			require.Equal(t, "second", string(b))

			require.NotNil(t, post.ScheduledAt)
			require.True(t, fixedNow.Add(time.Hour).Equal(*post.ScheduledAt))

			return models.SubmitResult{Message: "Birthday post published"}, nil
		})
	rm.EXPECT().ListItems(gomock.Any(), models.KindBirthday, gomock.Any()).Return(nil, nil).AnyTimes()

	body, ct := form(t, map[string][]string{
		"name":         {"Kaka"},
		"year":         {"1982"},
		"post_id":      {" 12 "},
		"scheduled_at": {"2025-03-14T13:00"},
		"image_urls":   {"https://img.example/1.jpg, https://img.example/2.jpg", ""},
	}, part{"images[]", "a.jpg", "first"}, part{"images", "b.jpg", "second"})

	req := httptest.NewRequest(http.MethodPost, "/birthdays/direct", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.BirthdayDirect(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.JSONEq(t, `{"message":"Birthday post published"}`, rr.Body.String())
}

func TestUploadImage_RequiresID(t *testing.T) {
	t.Parallel()

	h, _ := newHandlers(t)

	body, ct := form(t, nil, part{"image", "a.png", "png"})
	req := withParams(httptest.NewRequest(http.MethodPost, "/", body), "id", "  ")
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.UploadImage(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, decodeError(t, rr).Error.Message, "invalid id")
}

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	t.Run("empty_body_keeps_defaults", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		v := generateRequest{Team: "Milan"}
		require.NoError(t, decodeStrict(req, &v))
		require.Equal(t, "Milan", v.Team)
	})

	t.Run("unknown_field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"player":"Kaka"}`))
		var v generateRequest
		require.Error(t, decodeStrict(req, &v))
	})

	t.Run("fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"player_name":"Kaka","post_now":true}`))
		var v generateRequest
		require.NoError(t, decodeStrict(req, &v))
		require.Equal(t, generateRequest{PlayerName: "Kaka", PostNow: true}, v)
	})
}

func TestKindParam(t *testing.T) {
	t.Parallel()

	req := withParams(httptest.NewRequest(http.MethodGet, "/", nil), "kind", "birthday")
	kind, err := kindParam(req)
	require.NoError(t, err)
	require.Equal(t, models.KindBirthday, kind)

	_, err = kindParam(withParams(httptest.NewRequest(http.MethodGet, "/", nil), "kind", "video"))
	require.Error(t, err)
}
