package scraper

import (
	"reflect"
	"testing"
)

func TestRegistryBuildsEveryBoard(t *testing.T) {
	registry, err := Registry(nil, 5)
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	want := []string{"glassdoor", "indeed", "linkedin", "ziprecruiter"}
	if got := sortedSites(registry); !reflect.DeepEqual(got, want) {
		t.Fatalf("sortedSites() = %v, want %v", got, want)
	}
	if name := registry["ziprecruiter"].Name(); name != SiteZipRecruiter {
		t.Fatalf("Name() = %q", name)
	}
}

func TestNormalizeSites(t *testing.T) {
	got := NormalizeSites([]string{" LinkedIn ", "", "www.indeed.com", "All"})
	want := []string{"linkedin", "indeed", "all"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeSites() = %v, want %v", got, want)
	}
}
