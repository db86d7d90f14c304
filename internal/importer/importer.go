package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tourbooking/internal/domain"
)

type TourWriter interface {
	Upsert(ctx context.Context, tour domain.Tour) (*domain.Tour, error)
}

// CSVImporter reads tour catalog CSV files and inserts/updates tours by slug.
//
// Columns: slug,name,description,pricing_type,currency,max_pax,retail_price,
// net_price,child_retail_price,child_net_price,child_age_max,seat_type.
// Prices are in minor units. Rows with an empty slug add a seat type to the
// seat-based tour above them.
type CSVImporter struct {
	reader *csv.Reader
	tours  TourWriter
	logger *zap.Logger
}

func NewCSVImporter(r io.Reader, tours TourWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader: csvr,
		tours:  tours,
		logger: logger.Named("importer"),
	}
}

type csvRow struct {
	line        int
	Slug        string
	Name        string
	Desc        string
	PricingType domain.PricingModel
	Currency    string
	MaxPax      int
	Retail      int64
	Net         int64
	ChildRetail int64
	ChildNet    int64
	ChildAgeMax int
	Seats       []domain.SeatPrice
}

// Run parses CSV rows and upserts tours grouped by slug.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["slug"]; !ok {
		return 0, errors.New("read headers: slug column is required")
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row, err := parseRow(record, index, line)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if row.Slug != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows carry extra seat types for the current tour.
		if current == nil || current.PricingType != domain.PricingSeatBased {
			return imported, fmt.Errorf("line %d: seat row without a seat_based tour above it", line)
		}
		current.Seats = append(current.Seats, row.Seats...)
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Name == "" {
		return fmt.Errorf("line %d: name required for %q", row.line, row.Slug)
	}
	cfg, err := row.pricing()
	if err != nil {
		return fmt.Errorf("line %d: %w", row.line, err)
	}
	if err := domain.ValidatePricing(cfg); err != nil {
		return fmt.Errorf("tour %q: %w", row.Slug, err)
	}

	saved, err := i.tours.Upsert(ctx, domain.Tour{
		Slug:        row.Slug,
		Name:        row.Name,
		Description: row.Desc,
		Pricing:     cfg,
		Active:      true,
	})
	if err != nil {
		return fmt.Errorf("upsert tour %q: %w", row.Slug, err)
	}
	i.logger.Info("tour imported", zap.String("slug", row.Slug), zap.String("id", saved.ID), zap.String("pricing", string(row.PricingType)))
	return nil
}

func (r *csvRow) pricing() (domain.PricingConfig, error) {
	currency := strings.ToUpper(r.Currency)
	switch r.PricingType {
	case domain.PricingFlatPerPerson:
		return domain.FlatPerPerson{RetailPrice: r.Retail, NetPrice: r.Net, Currency: currency, MaxGuests: r.MaxPax}, nil
	case domain.PricingAdultChild:
		return domain.AdultChild{
			AdultRetailPrice: r.Retail,
			AdultNetPrice:    r.Net,
			ChildRetailPrice: r.ChildRetail,
			ChildNetPrice:    r.ChildNet,
			ChildAgeMax:      r.ChildAgeMax,
			Currency:         currency,
			MaxGuests:        r.MaxPax,
		}, nil
	case domain.PricingSeatBased:
		return domain.SeatBased{Seats: r.Seats, Currency: currency, MaxGuests: r.MaxPax}, nil
	}
	return nil, fmt.Errorf("unknown pricing_type %q", r.PricingType)
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	slug := pick(record, index, "slug")
	seatType := pick(record, index, "seat_type")
	if slug == "" && seatType == "" {
		return nil, nil
	}

	var ints [6]int64
	for n, col := range []string{"max_pax", "retail_price", "net_price", "child_retail_price", "child_net_price", "child_age_max"} {
		raw := pick(record, index, col)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %q is not an integer", line, col, raw)
		}
		ints[n] = v
	}

	row := &csvRow{
		line:        line,
		Slug:        slug,
		Name:        pick(record, index, "name"),
		Desc:        pick(record, index, "description"),
		PricingType: domain.PricingModel(strings.ToLower(pick(record, index, "pricing_type"))),
		Currency:    pick(record, index, "currency"),
		MaxPax:      int(ints[0]),
		Retail:      ints[1],
		Net:         ints[2],
		ChildRetail: ints[3],
		ChildNet:    ints[4],
		ChildAgeMax: int(ints[5]),
	}
	if seatType != "" {
		row.Seats = []domain.SeatPrice{{SeatType: seatType, RetailPrice: ints[1], NetPrice: ints[2]}}
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
