package service

import (
	"errors"
	"strings"

	"github.com/parisxmas/formforge/internal/models"
	"github.com/parisxmas/formforge/internal/store"
)

type SearchService struct {
	store *store.Store
}

func NewSearchService(st *store.Store) *SearchService {
	return &SearchService{store: st}
}

const searchLimit = 50

// Search finds submissions whose captured values contain the query text.
func (s *SearchService) Search(formID, query string) ([]models.Submission, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}
	return s.store.SearchSubmissions(formID, query, searchLimit)
}
