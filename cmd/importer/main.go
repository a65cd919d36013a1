package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"address-api/internal/config"
	"address-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AddressRecord is one parsed CSV row.
type AddressRecord struct {
	Name string
	Lat  float64
	Lon  float64
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import (header: name,latitude,longitude)")
	configPath := flag.String("config", "configs", "Directory containing app.env")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	log.Info().Str("file", *file).Msg("starting import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open file")
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing CSV")
	}

	log.Info().Int("records", len(records)).Msg("parsed records")

	// Load config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	ctx := context.Background()

	// Connect to DB
	store, err := repository.Open(ctx, cfg.DBDriver, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer store.Close()

	inserted, skipped, err := importRecords(ctx, store, records)
	if err != nil {
		log.Fatal().Err(err).Msg("error importing records")
	}

	log.Info().Int("inserted", inserted).Int("skipped", skipped).Msg("import finished")
}

func parseCSV(r io.Reader) ([]AddressRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 3 || strings.ToLower(header[0]) != "name" {
		return nil, fmt.Errorf("unexpected header %v, expected name,latitude,longitude", header)
	}

	var records []AddressRecord
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		line, _ := reader.FieldPos(0)

		lat, err := strconv.ParseFloat(record[1], 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("line %d: invalid latitude: %s", line, record[1])
		}

		lon, err := strconv.ParseFloat(record[2], 64)
		if err != nil || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("line %d: invalid longitude: %s", line, record[2])
		}

		records = append(records, AddressRecord{Name: record[0], Lat: lat, Lon: lon})
	}

	return records, nil
}

// importRecords inserts records and checks the row count afterwards.
// The table may be shared with a running API, so a count mismatch is only logged.
func importRecords(ctx context.Context, store repository.Store, records []AddressRecord) (inserted, skipped int, err error) {
	before, err := store.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count addresses: %w", err)
	}

	inserted, skipped, err = insertRecords(ctx, store, records)
	if err != nil {
		return inserted, skipped, err
	}

	// Verify data
	if err := verifyImport(ctx, store, before+inserted); err != nil {
		log.Warn().Err(err).Msg("row count changed by another writer during import")
	}

	return inserted, skipped, nil
}

func insertRecords(ctx context.Context, store repository.Store, records []AddressRecord) (inserted, skipped int, err error) {
	for _, r := range records {
		if _, err := store.Create(ctx, r.Name, r.Lat, r.Lon); err != nil {
			if errors.Is(err, repository.ErrDuplicateName) {
				log.Warn().Str("name", r.Name).Msg("skipping duplicate name")
				skipped++
				continue
			}
			return inserted, skipped, fmt.Errorf("failed to insert %q: %w", r.Name, err)
		}
		inserted++
	}
	return inserted, skipped, nil
}

func verifyImport(ctx context.Context, store repository.Store, expectedCount int) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}

	return nil
}
