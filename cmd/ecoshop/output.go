package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ecoshop/backend/internal/domain"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	nameColor   = color.New(color.FgGreen, color.Bold)
	priceColor  = color.New(color.FgYellow)
	certColor   = color.New(color.FgMagenta)
	dimColor    = color.New(color.Faint)
	errorColor  = color.New(color.FgRed, color.Bold)
)

func printProducts(w io.Writer, query string, products []domain.Product) {
	headerColor.Fprintf(w, "%d eco products for %q\n\n", len(products), query)
	for i, p := range products {
		nameColor.Fprintf(w, "%2d. %s", i+1, p.Name)
		fmt.Fprintf(w, "  %s\n", formatPrice(p.Price))
		if p.SourceName != "" {
			dimColor.Fprintf(w, "    %s\n", p.SourceName)
		}
		if p.Description != "" {
			fmt.Fprintf(w, "    %s\n", truncate(p.Description, 120))
		}
		if len(p.Certifications) > 0 {
			certColor.Fprintf(w, "    [%s]\n", joinCertifications(p.Certifications))
		}
		if p.SourceURL != "" {
			dimColor.Fprintf(w, "    %s\n", p.SourceURL)
		}
		fmt.Fprintln(w)
	}
}

func printCategories(w io.Writer, categories []string) {
	headerColor.Fprintf(w, "%d categories\n", len(categories))
	for _, c := range categories {
		fmt.Fprintf(w, "  - %s\n", c)
	}
}

func printEntries(w io.Writer, category string, entries []domain.CatalogEntry) {
	headerColor.Fprintf(w, "%s (%d)\n\n", category, len(entries))
	for _, e := range entries {
		nameColor.Fprintf(w, "%s", e.Name)
		fmt.Fprintf(w, " by %s  %s\n", e.Brand, formatPrice(e.Price))
		fmt.Fprintf(w, "    %s\n", e.Description)
		if e.EcoFeature != "" {
			certColor.Fprintf(w, "    %s\n", e.EcoFeature)
		}
	}
}

func formatPrice(price float64) string {
	if price <= 0 {
		return dimColor.Sprint("price unknown")
	}
	return priceColor.Sprintf("$%.2f", price)
}

func joinCertifications(certs []domain.Certification) string {
	labels := make([]string, len(certs))
	for i, c := range certs {
		labels[i] = string(c)
	}
	return strings.Join(labels, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
