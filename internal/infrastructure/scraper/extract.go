package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/heuristics"
)

// Structured prices at or above this are discarded
const maxPagePrice = 100000.0

// ExtractProductData parses a product page and returns its best-effort fields.
// pageURL is used to resolve relative image links.
func ExtractProductData(html []byte, pageURL string) (*domain.PageData, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrMalformedResponse, err)
	}

	ld, _ := findLdProduct(doc)

	data := &domain.PageData{
		Name: firstNonEmpty(
			collapseSpace(doc.Find("h1").First().Text()),
			metaContent(doc, `meta[property="og:title"]`),
			ld.Name,
		),
		Image: resolveImage(pageURL, firstNonEmpty(
			metaContent(doc, `meta[property="og:image"]`),
			ld.Image,
			productImage(doc),
		)),
		Price: pagePrice(doc, ld),
		Description: firstNonEmpty(
			metaContent(doc, `meta[name="description"]`),
			metaContent(doc, `meta[property="og:description"]`),
			ld.Description,
			collapseSpace(doc.Find(`p[class*="description"]`).First().Text()),
		),
	}

	doc.Find("script, style, noscript").Remove()
	pageText := strings.Join([]string{data.Name, data.Description, doc.Find("body").Text()}, " ")
	data.Certifications = heuristics.ExtractCertifications(pageText)

	return data, nil
}

// pagePrice prefers structured prices and falls back to the price extractor
// over elements whose class mentions "price"
func pagePrice(doc *goquery.Document, ld ldProduct) float64 {
	if validPrice(ld.Price) {
		return heuristics.RoundPrice(ld.Price)
	}

	if amount := metaContent(doc, `meta[property="product:price:amount"]`); amount != "" {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64); err == nil && validPrice(v) {
			return heuristics.RoundPrice(v)
		}
	}

	var texts []string
	doc.Find(`[class*="price"]`).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, collapseSpace(s.Text()))
	})
	return heuristics.ExtractPrice(strings.Join(texts, " "))
}

func validPrice(v float64) bool {
	return v > 0 && v < maxPagePrice
}

func productImage(doc *goquery.Document) string {
	src, _ := doc.Find(`img[class*="product"]`).First().Attr("src")
	return strings.TrimSpace(src)
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// resolveImage makes protocol-relative and relative image links absolute
func resolveImage(pageURL, image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "//") {
		return "https:" + image
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}

	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return image
	}
	ref, err := url.Parse(image)
	if err != nil {
		return image
	}
	return base.ResolveReference(ref).String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
