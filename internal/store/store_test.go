package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

func draft(id string) models.ContentItem {
	return models.ContentItem{ID: models.ID(id), Kind: models.KindNews, Title: "post " + id, Status: models.StatusDraft}
}

func ids(items []models.ContentItem) []models.ID {
	out := make([]models.ID, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestReplaceAll_KeepsServerOrderAndDropsDuplicates(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll(models.KindNews, models.Filter{Status: models.StatusDraft},
		[]models.ContentItem{draft("3"), draft("1"), draft("3"), draft("2")})

	require.Equal(t, []models.ID{"3", "1", "2"}, ids(s.List(models.KindNews)))
	require.Equal(t, models.Filter{Status: models.StatusDraft}, s.Filter(models.KindNews))
	require.Empty(t, s.List(models.KindBirthday))
}

func TestReplaceAll_PrunesSelection(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll(models.KindNews, models.Filter{}, []models.ContentItem{draft("A"), draft("B"), draft("C")})
	s.Toggle(models.KindNews, "A")
	s.Toggle(models.KindNews, "C")

	s.ReplaceAll(models.KindNews, models.Filter{}, []models.ContentItem{draft("B"), draft("C")})

	require.Equal(t, []models.ID{"C"}, s.Selected(models.KindNews))
}

func TestKindsAreIndependent(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll(models.KindNews, models.Filter{}, []models.ContentItem{draft("1")})
	s.ReplaceAll(models.KindBirthday, models.Filter{}, []models.ContentItem{{ID: "1", Title: "Kaka", Status: models.StatusDraft}})

	news, ok := s.Get(models.KindNews, "1")
	require.True(t, ok)
	require.Equal(t, "post 1", news.Title)

	bd, ok := s.Get(models.KindBirthday, "1")
	require.True(t, ok)
	require.Equal(t, "Kaka", bd.Title)
	require.Equal(t, models.KindBirthday, bd.Kind)

	require.True(t, s.Remove(models.KindNews, "1"))
	_, ok = s.Get(models.KindBirthday, "1")
	require.True(t, ok)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll(models.KindNews, models.Filter{}, []models.ContentItem{draft("A"), draft("B")})
	s.Toggle(models.KindNews, "A")

	require.True(t, s.Remove(models.KindNews, "A"))
	require.False(t, s.Remove(models.KindNews, "A"))

	require.Equal(t, []models.ID{"B"}, ids(s.List(models.KindNews)))
	require.Empty(t, s.Selected(models.KindNews))
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("still_matches_filter_updates_in_place", func(t *testing.T) {
		s := New()
		s.ReplaceAll(models.KindNews, models.Filter{}, []models.ContentItem{draft("A"), draft("B")})

		upd := draft("A")
		upd.Status = models.StatusApproved
		require.True(t, s.Apply(models.KindNews, upd))

		got, ok := s.Get(models.KindNews, "A")
		require.True(t, ok)
		require.Equal(t, models.StatusApproved, got.Status)
		require.Equal(t, []models.ID{"A", "B"}, ids(s.List(models.KindNews)))
	})

	t.Run("leaves_filter_is_dropped_and_deselected", func(t *testing.T) {
		s := New()
		s.ReplaceAll(models.KindNews, models.Filter{Status: models.StatusDraft}, []models.ContentItem{draft("A"), draft("B")})
		s.SelectAll(models.KindNews)

		upd := draft("A")
		upd.Status = models.StatusRejected
		require.True(t, s.Apply(models.KindNews, upd))

		require.Equal(t, []models.ID{"B"}, ids(s.List(models.KindNews)))
		require.Equal(t, []models.ID{"B"}, s.Selected(models.KindNews))
	})

	t.Run("scheduled_list_drops_unscheduled", func(t *testing.T) {
		at := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
		it := draft("A")
		it.Status = models.StatusApproved
		it.ScheduledAt = &at

		s := New()
		s.ReplaceAll(models.KindNews, models.Filter{ScheduledOnly: true}, []models.ContentItem{it})

		it.ScheduledAt = nil
		require.True(t, s.Apply(models.KindNews, it))
		require.Empty(t, s.List(models.KindNews))
	})

	t.Run("unknown_item_is_ignored", func(t *testing.T) {
		s := New()
		require.False(t, s.Apply(models.KindNews, draft("Z")))
		require.Empty(t, s.List(models.KindNews))
	})
}

func TestSelection(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll(models.KindNews, models.Filter{}, []models.ContentItem{draft("A"), draft("B"), draft("C")})

	require.False(t, s.Toggle(models.KindNews, "missing"))
	require.Empty(t, s.Selected(models.KindNews))

	require.True(t, s.Toggle(models.KindNews, "C"))
	require.True(t, s.Toggle(models.KindNews, "A"))
	require.Equal(t, []models.ID{"A", "C"}, s.Selected(models.KindNews), "selection follows list order")
	require.True(t, s.IsSelected(models.KindNews, "A"))

	require.False(t, s.Toggle(models.KindNews, "A"))
	require.False(t, s.IsSelected(models.KindNews, "A"))

	s.SelectAll(models.KindNews)
	require.Equal(t, []models.ID{"A", "B", "C"}, s.Selected(models.KindNews))

	s.Clear(models.KindNews)
	require.Empty(t, s.Selected(models.KindNews))
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	s := New()

	var got []Change
	unsubscribe := s.Subscribe(func(ch Change) {
		// Подписчик может читать хранилище: блокировка уже снята.
		_ = s.List(ch.Kind)
		got = append(got, ch)
	})

	s.ReplaceAll(models.KindNews, models.Filter{}, []models.ContentItem{draft("A")})
	s.Toggle(models.KindNews, "A")
	s.Remove(models.KindNews, "A")
	s.Remove(models.KindNews, "A")

	unsubscribe()
	unsubscribe()
	s.ReplaceAll(models.KindNews, models.Filter{}, nil)

	require.Equal(t, []Change{
		{Kind: models.KindNews, Reason: ReasonReplaced},
		{Kind: models.KindNews, Reason: ReasonSelection},
		{Kind: models.KindNews, Reason: ReasonRemoved},
	}, got)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll(models.KindNews, models.Filter{Status: models.StatusDraft},
		[]models.ContentItem{draft("1"), draft("2"), draft("3"), draft("4")})
	s.SelectAll(models.KindNews)

	var wg sync.WaitGroup
	for _, id := range []models.ID{"1", "2", "3", "4"} {
		wg.Add(2)
		go func() {
			defer wg.Done()
			upd := draft(id.String())
			upd.Status = models.StatusRejected
			s.Apply(models.KindNews, upd)
		}()
		go func() {
			defer wg.Done()
			_ = s.List(models.KindNews)
			_ = s.Selected(models.KindNews)
		}()
	}
	wg.Wait()

	require.Empty(t, s.List(models.KindNews))
	require.Empty(t, s.Selected(models.KindNews))
}
