package bleve

import (
	"strconv"
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/signroom/signroom/audit"
)

// RecordIndex indexes audit records for free-text search.
type RecordIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it if it does not exist yet.
func (s *RecordIndex) Open(path string) error {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, createMapping())
	}
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

func (s *RecordIndex) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.Close()
}

func (s *RecordIndex) Index(r audit.Record) error {
	data := map[string]interface{}{
		"kind":   string(r.Kind),
		"email":  r.UserEmail,
		"detail": r.Detail,
	}

	return s.index.Index(strconv.Itoa(r.ID), data)
}

func (s *RecordIndex) Delete(id int) error {
	return s.index.Delete(strconv.Itoa(id))
}

// Search matches every word of q as a prefix against the kind,
// email and detail fields. Results come back sorted by id.
func (s *RecordIndex) Search(q string, limit, offset int) ([]int, error) {
	searchRequest := bleve.NewSearchRequest(s.buildQuery(q))
	searchRequest.SortBy([]string{"_id"})

	if limit > 0 {
		searchRequest.Size = limit
	}
	searchRequest.From = offset

	searchResults, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(searchResults.Hits))
	for i, hit := range searchResults.Hits {
		ids[i], err = strconv.Atoi(hit.ID)
		if err != nil {
			return nil, err
		}
	}

	return ids, nil
}

func (s *RecordIndex) buildQuery(q string) query.Query {
	words := strings.Fields(q)
	if len(words) == 0 {
		return query.NewMatchAllQuery()
	}

	ands := make([]query.Query, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(word)
		ors := make([]query.Query, 0, 3)
		for _, field := range []string{"kind", "email", "detail"} {
			ors = append(ors, &query.PrefixQuery{
				Prefix:   word,
				FieldVal: field,
			})
		}
		ands = append(ands, query.NewDisjunctionQuery(ors))
	}

	return query.NewConjunctionQuery(ands)
}

func createMapping() *mapping.IndexMappingImpl {
	fm := bleve.NewTextFieldMapping()

	dm := bleve.NewDocumentMapping()
	dm.AddFieldMappingsAt("kind", fm)
	dm.AddFieldMappingsAt("email", fm)
	dm.AddFieldMappingsAt("detail", fm)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = dm
	return m
}
