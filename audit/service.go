package audit

import (
	"sort"
	"sync"

	"github.com/signroom/signroom/errors"
	"github.com/signroom/signroom/log"
)

// Service keeps the trail in memory and mirrors it into an Index
// for free-text lookup. The trail lives for the duration of the
// room, so there is no persistent repository behind it.
type Service struct {
	mu      sync.Mutex
	records map[int]Record
	nextID  int

	index  Index
	logger log.Logger
}

func NewService(index Index, logger log.Logger) *Service {
	return &Service{
		records: make(map[int]Record),
		nextID:  1,
		index:   index,
		logger:  logger,
	}
}

// Append saves the record and returns it with its id set.
func (s *Service) Append(r Record) (Record, error) {
	s.mu.Lock()
	r.ID = s.nextID
	s.nextID++
	s.records[r.ID] = r
	s.mu.Unlock()

	if err := s.index.Index(r); err != nil {
		return Record{}, errors.New("error indexing audit record", errors.WithCause(err))
	}
	return r, nil
}

// Get retrieves a single record.
func (s *Service) Get(id int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return Record{}, errors.New("no such audit record", errors.NotFound())
	}
	return r, nil
}

// Search runs a free-text query over the trail. An empty query
// returns the most recent records first.
func (s *Service) Search(q string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	if q == "" {
		return s.recent(limit, offset), nil
	}

	ids, err := s.index.Search(q, limit, offset)
	if err != nil {
		return nil, errors.New("error searching audit trail", errors.WithCause(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.records[id]; ok {
			records = append(records, r)
		}
	}
	return records, nil
}

func (s *Service) recent(limit, offset int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })

	if offset >= len(records) {
		return []Record{}
	}
	records = records[offset:]
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
