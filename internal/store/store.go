// store — in-memory хранилище загруженных элементов модерации.
//
// Хранилище держит по одному загруженному списку на каждый вид контента
// (в порядке сервера) и набор выбранных id для массовых действий.
// Мутации вызывает только контроллер жизненного цикла; представления получают Reader.
package store

import (
	"slices"
	"sync"

	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

// Reason — причина изменения, которую получают подписчики.
type Reason string

const (
	ReasonReplaced  Reason = "replaced"
	ReasonRemoved   Reason = "removed"
	ReasonUpdated   Reason = "updated"
	ReasonSelection Reason = "selection"
)

// Change — событие изменения списка или выбора для вида kind.
type Change struct {
	Kind   models.Kind
	Reason Reason
}

// Reader — доступ только на чтение для представлений.
type Reader interface {
	Get(kind models.Kind, id models.ID) (models.ContentItem, bool)
	List(kind models.Kind) []models.ContentItem
	Filter(kind models.Kind) models.Filter
	Selected(kind models.Kind) []models.ID
	IsSelected(kind models.Kind, id models.ID) bool
	Subscribe(fn func(Change)) (unsubscribe func())
}

type list struct {
	filter   models.Filter
	order    []models.ID
	items    map[models.ID]models.ContentItem
	selected map[models.ID]struct{}
}

func newList(filter models.Filter) *list {
	return &list{
		filter:   filter,
		items:    make(map[models.ID]models.ContentItem),
		selected: make(map[models.ID]struct{}),
	}
}

// prune выкидывает из выбора id, которых больше нет в списке.
func (l *list) prune() {
	for id := range l.selected {
		if _, ok := l.items[id]; !ok {
			delete(l.selected, id)
		}
	}
}

func (l *list) remove(id models.ID) bool {
	if _, ok := l.items[id]; !ok {
		return false
	}

	delete(l.items, id)
	l.order = slices.DeleteFunc(l.order, func(v models.ID) bool { return v == id })
	delete(l.selected, id)

	return true
}

// Store — хранилище с ключом (kind, id). Безопасно для конкурентного использования.
type Store struct {
	mu    sync.RWMutex
	lists map[models.Kind]*list

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Change)
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		lists: make(map[models.Kind]*list),
		subs:  make(map[int]func(Change)),
	}
}

var _ Reader = (*Store)(nil)

// list возвращает список вида kind; вызывать под блокировкой.
func (s *Store) list(kind models.Kind) *list {
	l, ok := s.lists[kind]
	if !ok {
		l = newList(models.Filter{})
		s.lists[kind] = l
	}

	return l
}

// ReplaceAll полностью заменяет список вида kind результатом загрузки по filter.
// Дубликаты id схлопываются (остаётся первое вхождение), выбор очищается от пропавших id.
func (s *Store) ReplaceAll(kind models.Kind, filter models.Filter, items []models.ContentItem) {
	s.mu.Lock()

	l := s.list(kind)
	l.filter = filter
	l.order = make([]models.ID, 0, len(items))
	l.items = make(map[models.ID]models.ContentItem, len(items))

	for _, it := range items {
		if _, dup := l.items[it.ID]; dup {
			continue
		}
		it.Kind = kind
		l.items[it.ID] = it
		l.order = append(l.order, it.ID)
	}
	l.prune()

	s.mu.Unlock()

	s.publish(Change{Kind: kind, Reason: ReasonReplaced})
}

// Remove убирает элемент из списка (и из выбора). Возвращает false, если элемента не было.
func (s *Store) Remove(kind models.Kind, id models.ID) bool {
	s.mu.Lock()
	removed := s.list(kind).remove(id)
	s.mu.Unlock()

	if removed {
		s.publish(Change{Kind: kind, Reason: ReasonRemoved})
	}

	return removed
}

// Apply применяет новое состояние элемента после успешного ответа сервера.
// Если элемент перестал подходить под фильтр списка, он удаляется из списка.
// Возвращает false, если элемент в списке не найден.
func (s *Store) Apply(kind models.Kind, item models.ContentItem) bool {
	s.mu.Lock()

	l := s.list(kind)
	if _, ok := l.items[item.ID]; !ok {
		s.mu.Unlock()
		return false
	}

	reason := ReasonUpdated
	item.Kind = kind
	if l.filter.Match(item) {
		l.items[item.ID] = item
	} else {
		l.remove(item.ID)
		reason = ReasonRemoved
	}

	s.mu.Unlock()

	s.publish(Change{Kind: kind, Reason: reason})

	return true
}

// Get возвращает элемент по ключу.
func (s *Store) Get(kind models.Kind, id models.ID) (models.ContentItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[kind]
	if !ok {
		return models.ContentItem{}, false
	}

	it, ok := l.items[id]
	return it, ok
}

// List — копия списка в порядке сервера.
func (s *Store) List(kind models.Kind) []models.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[kind]
	if !ok {
		return nil
	}

	out := make([]models.ContentItem, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.items[id])
	}

	return out
}

// Filter — фильтр, по которому загружен текущий список.
func (s *Store) Filter(kind models.Kind) models.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.lists[kind]; ok {
		return l.filter
	}

	return models.Filter{}
}

// Toggle переключает выбор элемента. Id, которых нет в списке, игнорируются.
// Возвращает итоговое состояние выбора.
func (s *Store) Toggle(kind models.Kind, id models.ID) bool {
	s.mu.Lock()

	l := s.list(kind)
	if _, ok := l.items[id]; !ok {
		s.mu.Unlock()
		return false
	}

	_, was := l.selected[id]
	if was {
		delete(l.selected, id)
	} else {
		l.selected[id] = struct{}{}
	}

	s.mu.Unlock()

	s.publish(Change{Kind: kind, Reason: ReasonSelection})

	return !was
}

// SelectAll выбирает все элементы текущего списка.
func (s *Store) SelectAll(kind models.Kind) {
	s.mu.Lock()

	l := s.list(kind)
	for _, id := range l.order {
		l.selected[id] = struct{}{}
	}

	s.mu.Unlock()

	s.publish(Change{Kind: kind, Reason: ReasonSelection})
}

// Clear снимает выбор.
func (s *Store) Clear(kind models.Kind) {
	s.mu.Lock()
	clear(s.list(kind).selected)
	s.mu.Unlock()

	s.publish(Change{Kind: kind, Reason: ReasonSelection})
}

// Selected — выбранные id в порядке списка.
func (s *Store) Selected(kind models.Kind) []models.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[kind]
	if !ok {
		return nil
	}

	out := make([]models.ID, 0, len(l.selected))
	for _, id := range l.order {
		if _, ok := l.selected[id]; ok {
			out = append(out, id)
		}
	}

	return out
}

// IsSelected — выбран ли элемент.
func (s *Store) IsSelected(kind models.Kind, id models.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[kind]
	if !ok {
		return false
	}

	_, sel := l.selected[id]
	return sel
}

// Subscribe регистрирует подписчика. Уведомления приходят после снятия блокировки,
// так что подписчик может читать хранилище.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) publish(ch Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}
