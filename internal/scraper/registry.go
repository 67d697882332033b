package scraper

import (
	"sort"
	"strings"

	"github.com/jimezsa/jobassist/internal/network"
)

const (
	SiteLinkedIn     = "LinkedIn"
	SiteIndeed       = "Indeed"
	SiteGlassdoor    = "Glassdoor"
	SiteZipRecruiter = "ZipRecruiter"
)

// Registry builds one scraper per supported board, keyed by lowercase name.
// Each scraper gets its own client so cookies stay per board.
func Registry(rotator *network.Rotator, timeoutSeconds int) (map[string]Scraper, error) {
	constructors := []func(network.Doer) Scraper{
		func(c network.Doer) Scraper { return NewLinkedIn(c) },
		func(c network.Doer) Scraper { return NewIndeed(c) },
		func(c network.Doer) Scraper { return NewGlassdoor(c) },
		func(c network.Doer) Scraper { return NewZipRecruiter(c) },
	}

	registry := make(map[string]Scraper, len(constructors))
	for _, build := range constructors {
		client, err := network.NewClient(rotator, timeoutSeconds)
		if err != nil {
			return nil, err
		}
		sc := build(client)
		registry[siteKey(sc.Name())] = sc
	}
	return registry, nil
}

func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = siteKey(site)
		if site == "" {
			continue
		}
		site = strings.TrimSuffix(strings.TrimPrefix(site, "www."), ".com")
		out = append(out, site)
	}
	return out
}

func siteKey(site string) string {
	return strings.ToLower(strings.TrimSpace(site))
}

func sortedSites(registry map[string]Scraper) []string {
	sites := make([]string, 0, len(registry))
	for site := range registry {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}
