package registry

import (
	"sort"
	"strings"
)

// DomainSummary aggregates the entity registry for one domain.
type DomainSummary struct {
	Domain   string
	Count    int
	Enabled  int
	Disabled int
	Examples []string
}

const maxSummaryExamples = 3

// SummarizeByDomain groups entities by the domain part of their ids.
// Summaries are sorted by domain; examples within a domain are sorted ids.
func SummarizeByDomain(entities map[string]Entity) []DomainSummary {
	byDomain := map[string]*DomainSummary{}

	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		domain, _, _ := strings.Cut(id, ".")

		summary, ok := byDomain[domain]
		if !ok {
			summary = &DomainSummary{Domain: domain}
			byDomain[domain] = summary
		}
		summary.Count++
		if entities[id].Disabled() {
			summary.Disabled++
		} else {
			summary.Enabled++
		}
		if len(summary.Examples) < maxSummaryExamples {
			summary.Examples = append(summary.Examples, id)
		}
	}

	out := make([]DomainSummary, 0, len(byDomain))
	for _, s := range byDomain {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}
