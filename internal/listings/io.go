// Package listings reads and writes JobListing JSON files.
package listings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/normalize"
)

// Read decodes a JSON array of listings. Blank input is an empty list. Every
// listing read back gets the normalizer's field defaults.
func Read(r io.Reader) ([]models.JobListing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.JobListing{}, nil
	}

	var listings []models.JobListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	out := make([]models.JobListing, 0, len(listings))
	for _, listing := range listings {
		out = append(out, normalize.Fill(listing))
	}
	return out, nil
}

// ReadFile reads listings from path; "-" reads stdin.
func ReadFile(path string) ([]models.JobListing, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if path == "-" {
		return Read(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// ReadFileAllowMissing treats a missing file as an empty list.
func ReadFileAllowMissing(path string) ([]models.JobListing, error) {
	listings, err := ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.JobListing{}, nil
		}
		return nil, err
	}
	return listings, nil
}

// WriteFile writes listings as pretty JSON.
func WriteFile(path string, listings []models.JobListing) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if listings == nil {
		listings = []models.JobListing{}
	}
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
