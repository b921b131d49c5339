package bleve

import (
	"strconv"
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/studynet/studynet"
)

// HighlightIndex indexes highlight text and URLs for full-text search.
type HighlightIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it if it does not exist yet.
func (s *HighlightIndex) Open(path string) error {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, indexMapping())
	}
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

func (s *HighlightIndex) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.Close()
}

func (s *HighlightIndex) Index(highlight *studynet.Highlight) error {
	data := map[string]interface{}{
		"text": highlight.Text,
		"url":  highlight.URL,
	}

	return s.index.Index(strconv.Itoa(highlight.ID), data)
}

func (s *HighlightIndex) Delete(id int) error {
	return s.index.Delete(strconv.Itoa(id))
}

// Search returns the ids of the highlights whose text or URL matches every
// word of q, sorted by id.
func (s *HighlightIndex) Search(q string) ([]int, error) {
	searchQuery := andQ(
		query.NewMatchAllQuery(),
		s.searchTextOrURL(q),
	)

	searchRequest := bleve.NewSearchRequest(searchQuery)
	searchRequest.SortBy([]string{"_id"})
	searchRequest.Size = 1000

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

func indexMapping() *mapping.IndexMappingImpl {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = en.AnalyzerName

	urlField := bleve.NewTextFieldMapping()
	urlField.Analyzer = simple.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("text", textField)
	doc.AddFieldMappingsAt("url", urlField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

func andQ(qs ...query.Query) query.Query {
	ands := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			ands = append(ands, q)
		}
	}

	if len(ands) == 0 {
		return nil
	}
	return query.NewConjunctionQuery(ands)
}

func orQ(qs ...query.Query) query.Query {
	ors := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			ors = append(ors, q)
		}
	}

	if len(ors) == 0 {
		return nil
	}
	return query.NewDisjunctionQuery(ors)
}

func (s *HighlightIndex) searchTextOrURL(queryString string) query.Query {
	words := strings.Fields(queryString)

	ands := make([]query.Query, 0, len(words))
	for _, word := range words {
		ands = append(ands, orQ(
			s.prefixQuery(word, "text", en.AnalyzerName),
			s.prefixQuery(word, "url", simple.Name),
		))
	}

	return andQ(ands...)
}

func (s *HighlightIndex) prefixQuery(queryString, field, analyzerName string) query.Query {
	analyzer := s.index.Mapping().AnalyzerNamed(analyzerName)
	tokens := analyzer.Analyze([]byte(queryString))
	if len(tokens) == 0 {
		return nil
	}

	conjuncs := make([]query.Query, len(tokens))
	for i, token := range tokens {
		conjuncs[i] = &query.PrefixQuery{
			Prefix:   string(token.Term),
			FieldVal: field,
		}
	}

	return query.NewConjunctionQuery(conjuncs)
}
