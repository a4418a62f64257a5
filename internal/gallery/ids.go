package gallery

import (
	"sync"
	"time"
)

// IDSource выдаёт идентификаторы из момента создания (unix ms).
// Если часы не сдвинулись, значение увеличивается на 1: выдача строго монотонна.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource создаёт источник; now == nil -> time.Now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}

	return &IDSource{now: now}
}

// Next возвращает следующий идентификатор.
func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id

	return id
}
