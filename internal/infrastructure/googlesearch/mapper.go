package googlesearch

import (
	"strings"

	"github.com/ecoshop/backend/internal/domain"
)

// MapToSearchHits converts API items to domain hits, skipping items without a link
func MapToSearchHits(items []searchItem) []domain.SearchHit {
	hits := make([]domain.SearchHit, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Link) == "" {
			continue
		}
		hits = append(hits, domain.SearchHit{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Snippet:     strings.TrimSpace(item.Snippet),
			DisplayLink: item.DisplayLink,
			Image:       firstImage(item.Pagemap),
		})
	}
	return hits
}

// firstImage prefers the full page image over the thumbnail
func firstImage(p pagemap) string {
	for _, refs := range [][]imageRef{p.CSEImage, p.CSEThumbnail} {
		for _, ref := range refs {
			if ref.Src != "" {
				return ref.Src
			}
		}
	}
	return ""
}
