package googlesearch

// searchResponse is the subset of the Custom Search JSON API response we read
type searchResponse struct {
	Items []searchItem `json:"items"`
	Error *apiError    `json:"error,omitempty"`
}

type searchItem struct {
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	Snippet     string  `json:"snippet"`
	DisplayLink string  `json:"displayLink"`
	Pagemap     pagemap `json:"pagemap"`
}

type pagemap struct {
	CSEImage     []imageRef `json:"cse_image"`
	CSEThumbnail []imageRef `json:"cse_thumbnail"`
}

type imageRef struct {
	Src string `json:"src"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
