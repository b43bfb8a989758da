package domain

// SearchHit is one organic result returned by a web search provider
type SearchHit struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
	Image       string `json:"image,omitempty"`
}

// PageData holds the fields extracted from a fetched product page.
// Every field is best-effort and may be empty.
type PageData struct {
	Name           string          `json:"name"`
	Image          string          `json:"image"`
	Price          float64         `json:"price"`
	Description    string          `json:"description"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// SearchRequest is the body of POST /api/search
type SearchRequest struct {
	Query string `json:"query"`
}
