// Package main provides a tool to seed the database with festival
// reference data: the brewery booths and their sake lineups.
//
// The input is a JSON file exported from the festival program. Reruns
// are idempotent; breweries and sakes already in the database are
// skipped by name.
//
// Usage:
//
//	DB_PATH=./sakenavi.db go run ./cmd/seed --file data/breweries.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sakenavi/sakenavi-server/internal/domain"
	"github.com/sakenavi/sakenavi-server/internal/store"
)

var dataFile = flag.String("file", "data/breweries.json", "Path to the brewery JSON file")

// seedBrewery mirrors the festival program export format.
type seedBrewery struct {
	Name         string     `json:"name"`
	BoothNumber  *int       `json:"boothNumber"`
	MapPositionX float64    `json:"mapPositionX"`
	MapPositionY float64    `json:"mapPositionY"`
	Area         *string    `json:"area"`
	Sakes        []seedSake `json:"sakes"`
}

type seedSake struct {
	Name             string  `json:"name"`
	Type             *string `json:"type"`
	Category         string  `json:"category"`
	IsLimited        bool    `json:"isLimited"`
	PaidTastingPrice *int    `json:"paidTastingPrice"`
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "sakenavi.db"
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	raw, err := os.ReadFile(*dataFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *dataFile, err)
	}

	var breweries []seedBrewery
	if err := json.Unmarshal(raw, &breweries); err != nil {
		log.Fatalf("Failed to parse %s: %v", *dataFile, err)
	}

	ctx := context.Background()
	var createdBreweries, createdSakes, skipped int

	for _, sb := range breweries {
		brewery, err := s.GetBreweryByName(ctx, sb.Name)
		switch {
		case err == nil:
			// Already seeded; keep its row and fill in missing sakes.
		case errors.Is(err, store.ErrNotFound):
			brewery = &domain.Brewery{
				Name:         sb.Name,
				BoothNumber:  sb.BoothNumber,
				MapPositionX: sb.MapPositionX,
				MapPositionY: sb.MapPositionY,
				Area:         sb.Area,
			}
			if err := s.CreateBrewery(ctx, brewery); err != nil {
				log.Fatalf("Failed to create brewery %q: %v", sb.Name, err)
			}
			createdBreweries++
		default:
			log.Fatalf("Failed to look up brewery %q: %v", sb.Name, err)
		}

		existing, err := s.ListBrewerySakes(ctx, brewery.ID)
		if err != nil {
			log.Fatalf("Failed to list sakes for %q: %v", sb.Name, err)
		}
		known := make(map[string]bool, len(existing))
		for _, l := range existing {
			known[l.Name] = true
		}

		for _, ss := range sb.Sakes {
			if known[ss.Name] {
				skipped++
				continue
			}

			category := domain.Category(ss.Category)
			if category == "" {
				category = domain.CategorySeishu
			}
			if !category.Valid() {
				log.Fatalf("Unknown category %q for sake %q at %q", ss.Category, ss.Name, sb.Name)
			}

			sake := &domain.Sake{
				BreweryID:        brewery.ID,
				Name:             ss.Name,
				Type:             ss.Type,
				Category:         category,
				IsLimited:        ss.IsLimited,
				PaidTastingPrice: ss.PaidTastingPrice,
				CreatedAt:        time.Now().UTC(),
			}
			if err := s.CreateSake(ctx, sake); err != nil {
				log.Fatalf("Failed to create sake %q at %q: %v", ss.Name, sb.Name, err)
			}
			createdSakes++
		}
	}

	fmt.Printf("Done: %d breweries created, %d sakes created, %d sakes skipped\n",
		createdBreweries, createdSakes, skipped)
}
