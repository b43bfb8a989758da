package heuristics

import (
	"strings"

	"github.com/ecoshop/backend/internal/domain"
)

type certificationRule struct {
	label    domain.Certification
	triggers []string
}

// certificationRules is the closed certification table. Output order follows it.
var certificationRules = []certificationRule{
	{domain.CertFairTrade, []string{"fair trade", "fairtrade"}},
	{domain.CertGOTS, []string{"gots", "global organic textile standard"}},
	{domain.CertBCorp, []string{"b corp", "b-corp", "bcorp"}},
	{domain.CertOrganic, []string{"certified organic", "organic certified"}},
	{domain.CertRecycled, []string{"recycled materials", "made from recycled"}},
	{domain.CertFSC, []string{"fsc certified", "fsc-certified", "forest stewardship council"}},
	{domain.CertCarbonNeutral, []string{"carbon neutral", "carbon-neutral"}},
	{domain.CertCradleToCradle, []string{"cradle to cradle", "cradle-to-cradle", "c2c"}},
	{domain.CertBluesign, []string{"bluesign"}},
	{domain.CertOekoTex, []string{"oeko-tex", "oekotex", "oeko tex"}},
	{domain.CertUSDAOrganic, []string{"usda organic"}},
	{domain.CertRainforestAlliance, []string{"rainforest alliance"}},
}

// ExtractCertifications returns every certification whose trigger phrase
// appears in text, in table order. Returns nil when none apply.
func ExtractCertifications(text string) []domain.Certification {
	if text == "" {
		return nil
	}
	normalized := strings.ToLower(text)

	var found []domain.Certification
	for _, rule := range certificationRules {
		if containsAny(normalized, rule.triggers) {
			found = append(found, rule.label)
		}
	}
	return found
}

// MergeCertifications unions label sets keeping first-seen order
func MergeCertifications(sets ...[]domain.Certification) []domain.Certification {
	var merged []domain.Certification
	seen := make(map[domain.Certification]bool)
	for _, set := range sets {
		for _, c := range set {
			if !seen[c] {
				seen[c] = true
				merged = append(merged, c)
			}
		}
	}
	return merged
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
