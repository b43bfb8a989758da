package domain

// Certification is a recognized sustainability certification label
type Certification string

// Recognized certification labels, in extraction table order
const (
	CertFairTrade          Certification = "Fair Trade"
	CertGOTS               Certification = "GOTS"
	CertBCorp              Certification = "B Corp"
	CertOrganic            Certification = "Organic"
	CertRecycled           Certification = "Recycled"
	CertFSC                Certification = "FSC"
	CertCarbonNeutral      Certification = "Carbon Neutral"
	CertCradleToCradle     Certification = "Cradle to Cradle"
	CertBluesign           Certification = "Bluesign"
	CertOekoTex            Certification = "OEKO-TEX"
	CertUSDAOrganic        Certification = "USDA Organic"
	CertRainforestAlliance Certification = "Rainforest Alliance"
)

// Product is a single search result. It only lives for one search response.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Image          string          `json:"image"`
	Price          float64         `json:"price"` // 0 means unknown
	Description    string          `json:"description"`
	SourceURL      string          `json:"sourceUrl"`
	SourceName     string          `json:"sourceName,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// CatalogEntry is a product of the static fallback catalog
type CatalogEntry struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Brand       string  `json:"brand" yaml:"brand"`
	Price       float64 `json:"price" yaml:"price"`
	Image       string  `json:"image" yaml:"image"`
	Category    string  `json:"category" yaml:"-"`
	Description string  `json:"description" yaml:"description"`
	EcoFeature  string  `json:"ecoFeature" yaml:"eco_feature"`
	SourceURL   string  `json:"sourceUrl,omitempty" yaml:"source_url"`

	// Certifications are labels known up front; more are extracted from the text
	Certifications []Certification `json:"certifications,omitempty" yaml:"certifications"`
}

// CategoryAliases lists the words that map a free-text query onto a catalog category
type CategoryAliases struct {
	Category string
	Aliases  []string
}

// CartItem is a product held in a client's cart. Quantity is always >= 1.
type CartItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	SourceURL   string  `json:"sourceUrl"`
	Quantity    int     `json:"quantity"`
}

// Cart is the view of a client's cart returned to callers
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}
