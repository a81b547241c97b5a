// selection.go — трекер выбранных заявок списка.
// Выбор всегда ограничен заявками, видимыми на текущей странице,
// и целиком сбрасывается при любой смене контекста (фильтры, вкладка,
// страница), чтобы батчевое действие не зацепило невидимые записи.
package dashboard

import "sort"

// Selection — множество идентификаторов выбранных заявок.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection создаёт пустой выбор.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle переключает членство идентификатора. Идемпотентно per-id:
// повторный Toggle возвращает исходное состояние.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// SelectAll заменяет выбор ровно на переданные идентификаторы
// (заявки, видимые на странице, а не весь отфильтрованный список).
func (s *Selection) SelectAll(visible []string) {
	s.ids = make(map[string]struct{}, len(visible))
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// Clear опустошает выбор.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Has сообщает, выбрана ли заявка.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len возвращает размер выбора.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs возвращает выбранные идентификаторы в детерминированном порядке.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Prune оставляет в выборе только перечисленные идентификаторы.
func (s *Selection) Prune(visible []string) {
	keep := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		keep[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
		}
	}
}
