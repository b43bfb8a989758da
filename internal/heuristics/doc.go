// Package heuristics holds the text heuristics used by product search:
// query building, price and certification extraction, product-page URL
// classification, category matching and query-term relevance.
//
// Every function is a best-effort transformation of free text. None of them
// return errors; an unrecognized input yields the zero value.
package heuristics
