// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/servicebridge/internal/catalog"
	"github.com/tomtom215/servicebridge/internal/geo"
	"github.com/tomtom215/servicebridge/internal/logging"
	"github.com/tomtom215/servicebridge/internal/models"
)

// demoSeed keeps the generated marketplace identical between runs.
const demoSeed = 20260101

var demoCategories = []string{
	"Plumbing", "Electrical", "Cleaning", "Painting",
	"Carpentry", "Gardening", "Moving", "Appliance Repair",
}

var demoCities = []struct {
	name string
	lat  float64
	lon  float64
}{
	{"Berlin", 52.5200, 13.4050},
	{"Potsdam", 52.3906, 13.0645},
	{"Hamburg", 53.5511, 9.9937},
	{"Munich", 48.1351, 11.5820},
	{"Leipzig", 51.3397, 12.3731},
}

var demoNames = []string{
	"Alice", "Bob", "Charlie", "David", "Emma",
	"Frank", "Grace", "Henry", "Isabella", "Jack",
	"Kate", "Liam", "Mia", "Noah", "Olivia",
}

// DemoDataset returns a deterministic marketplace for local development and
// demos. Bookings span the 16 weeks before now and the 2 weeks after it.
func DemoDataset(now time.Time) *catalog.Dataset {
	const (
		numCustomers     = 60
		numProfessionals = 24
		numBookings      = 900
		historyDays      = 16 * 7
	)

	rng := rand.New(rand.NewSource(demoSeed)) //nolint:gosec // demo data, not security sensitive
	now = now.UTC().Truncate(time.Hour)
	ds := &catalog.Dataset{}

	for i, name := range demoCategories {
		ds.Categories = append(ds.Categories, models.Category{ID: int64(i + 1), Name: name})
	}

	jitter := func(v float64) float64 { return v + (rng.Float64()-0.5)*0.2 }

	for i := 0; i < numCustomers; i++ {
		city := demoCities[rng.Intn(len(demoCities))]
		c := models.Customer{
			ID:     int64(i + 1),
			UserID: int64(1000 + i),
			Name:   fmt.Sprintf("%s %d", demoNames[i%len(demoNames)], i+1),
			City:   city.name,
		}
		// Every tenth customer has no stored location.
		if i%10 != 9 {
			c.Location = &geo.Point{Lat: jitter(city.lat), Lon: jitter(city.lon)}
		}
		ds.Customers = append(ds.Customers, c)
	}

	verification := []models.VerificationStatus{
		models.VerificationVerified, models.VerificationVerified, models.VerificationVerified,
		models.VerificationVerified, models.VerificationPending, models.VerificationRejected,
	}
	for i := 0; i < numProfessionals; i++ {
		city := demoCities[i%len(demoCities)]
		primary := int64(i%len(demoCategories) + 1)
		cats := []int64{primary}
		if rng.Intn(2) == 0 {
			if extra := int64(rng.Intn(len(demoCategories)) + 1); extra != primary {
				cats = append(cats, extra)
			}
		}
		p := models.Professional{
			ID:              int64(i + 1),
			UserID:          int64(5000 + i),
			Name:            fmt.Sprintf("%s Services", demoNames[(i+3)%len(demoNames)]),
			City:            city.name,
			Location:        &geo.Point{Lat: jitter(city.lat), Lon: jitter(city.lon)},
			Active:          i%11 != 10,
			Verification:    verification[rng.Intn(len(verification))],
			YearsExperience: rng.Intn(20),
			CategoryIDs:     uniqueSorted(cats),
		}
		if rng.Intn(5) > 0 {
			p.AvgRating = float64(30+rng.Intn(21)) / 10
			p.TotalReviews = 1 + rng.Intn(80)
		}
		ds.Professionals = append(ds.Professionals, p)
	}

	pricing := []models.PricingType{models.PricingHourly, models.PricingFixed, models.PricingDaily, models.PricingPerUnit}
	var nextService int64 = 1
	for _, p := range ds.Professionals {
		for _, catID := range p.CategoryIDs {
			for n := 0; n < 1+rng.Intn(2); n++ {
				base := 40 + rng.Intn(160)
				ds.Services = append(ds.Services, models.Service{
					ID:             nextService,
					ProfessionalID: p.ID,
					CategoryID:     catID,
					Title:          fmt.Sprintf("%s by %s", demoCategories[catID-1], p.Name),
					PricingType:    pricing[rng.Intn(len(pricing))],
					PricePerUnit:   decimal.New(int64(base*100+rng.Intn(100)), -2),
					Active:         rng.Intn(12) > 0,
				})
				nextService++
			}
		}
	}

	statuses := []models.BookingStatus{
		models.StatusCompleted, models.StatusCompleted, models.StatusCompleted, models.StatusCompleted,
		models.StatusCancelled, models.StatusPending, models.StatusAccepted, models.StatusRejected,
		models.StatusInProgress,
	}
	parties := []models.Party{models.PartyCustomer, models.PartyCustomer, models.PartyProfessional, models.PartyAdmin}
	// Popular hours weight the scheduled time of day.
	hours := []int{8, 9, 9, 10, 10, 10, 11, 13, 14, 14, 15, 16, 17, 17, 18}

	for i := 0; i < numBookings; i++ {
		cust := ds.Customers[rng.Intn(len(ds.Customers))]
		svc := ds.Services[rng.Intn(len(ds.Services))]
		created := now.Add(-time.Duration(rng.Intn(historyDays*24)) * time.Hour)
		lead := time.Duration(1+rng.Intn(21*24)) * time.Hour
		scheduled := created.Add(lead).Truncate(24 * time.Hour).Add(time.Duration(hours[rng.Intn(len(hours))]) * time.Hour)

		b := models.Booking{
			ID:             int64(i + 1),
			CustomerID:     cust.ID,
			ProfessionalID: svc.ProfessionalID,
			ServiceID:      svc.ID,
			CategoryID:     svc.CategoryID,
			Status:         statuses[rng.Intn(len(statuses))],
			City:           cust.City,
			ScheduledAt:    scheduled,
			CreatedAt:      created,
		}
		if rng.Intn(8) > 0 {
			factor := decimal.New(int64(80+rng.Intn(50)), -2)
			b.EstimatedPrice = decimal.NewNullDecimal(svc.PricePerUnit.Mul(factor).Round(2))
		}
		if b.Status == models.StatusCancelled {
			b.CancelledBy = parties[rng.Intn(len(parties))]
		}
		ds.Bookings = append(ds.Bookings, b)
	}

	return ds
}

// SeedDemoData imports DemoDataset when the store holds no bookings.
// It returns false when existing data was left untouched.
func (db *DB) SeedDemoData(ctx context.Context, now time.Time) (bool, error) {
	counts, err := db.RecordCounts(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: count records: %w", err)
	}
	if counts["bookings"] > 0 || counts["professionals"] > 0 {
		logging.Info().Int("bookings", counts["bookings"]).Msg("Store already has data, skipping demo seed")
		return false, nil
	}

	logging.Info().Msg("Seeding store with demo marketplace data...")
	if err := db.ImportDataset(ctx, DemoDataset(now)); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	return true, nil
}
