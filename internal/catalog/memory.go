// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/servicebridge/internal/models"
)

// Memory is a Reader over an in-memory Dataset. It is safe for concurrent
// use; Replace swaps the whole dataset atomically.
type Memory struct {
	mu            sync.RWMutex
	categories    []models.Category
	customers     map[int64]*models.Customer
	professionals map[int64]*models.Professional
	services      map[int64]*models.Service
	bookings      map[int64]*models.Booking

	sortedProfessionals []int64
	sortedServices      []int64
	sortedBookings      []int64
}

// NewMemory builds a Memory reader from ds. The dataset is copied.
func NewMemory(ds *Dataset) *Memory {
	m := &Memory{}
	m.Replace(ds)
	return m
}

// ImportDataset validates ds and swaps it in. It gives the memory backend the
// same import contract as the DuckDB store.
func (m *Memory) ImportDataset(ctx context.Context, ds *Dataset) error {
	if ds == nil {
		return fmt.Errorf("import: nil dataset")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	m.Replace(ds)
	return nil
}

// Ping always succeeds; the data lives in process memory.
func (m *Memory) Ping(context.Context) error { return nil }

// Replace swaps the dataset served by m.
func (m *Memory) Replace(ds *Dataset) {
	if ds == nil {
		ds = &Dataset{}
	}

	categories := append([]models.Category(nil), ds.Categories...)
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })

	customers := make(map[int64]*models.Customer, len(ds.Customers))
	for i := range ds.Customers {
		c := ds.Customers[i]
		customers[c.ID] = &c
	}

	professionals := make(map[int64]*models.Professional, len(ds.Professionals))
	for i := range ds.Professionals {
		p := ds.Professionals[i]
		p.CategoryIDs = append([]int64(nil), p.CategoryIDs...)
		professionals[p.ID] = &p
	}

	services := make(map[int64]*models.Service, len(ds.Services))
	for i := range ds.Services {
		s := ds.Services[i]
		services[s.ID] = &s
	}

	bookings := make(map[int64]*models.Booking, len(ds.Bookings))
	for i := range ds.Bookings {
		b := ds.Bookings[i]
		bookings[b.ID] = &b
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = categories
	m.customers = customers
	m.professionals = professionals
	m.services = services
	m.bookings = bookings
	m.sortedProfessionals = sortedKeys(professionals)
	m.sortedServices = sortedKeys(services)
	m.sortedBookings = sortedKeys(bookings)
}

func sortedKeys[T any](in map[int64]*T) []int64 {
	keys := make([]int64, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Customer implements Reader.
func (m *Memory) Customer(ctx context.Context, id int64) (*models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	out := *c
	return &out, nil
}

// Professional implements Reader.
func (m *Memory) Professional(ctx context.Context, id int64) (*models.Professional, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.professionals[id]
	if !ok {
		return nil, fmt.Errorf("professional %d: %w", id, ErrNotFound)
	}
	out := *p
	return &out, nil
}

// Service implements Reader.
func (m *Memory) Service(ctx context.Context, id int64) (*models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.services[id]
	if !ok {
		return nil, fmt.Errorf("service %d: %w", id, ErrNotFound)
	}
	out := *s
	return &out, nil
}

// Booking implements Reader.
func (m *Memory) Booking(ctx context.Context, id int64) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	out := *b
	return &out, nil
}

// Categories implements Reader.
func (m *Memory) Categories(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Category(nil), m.categories...), nil
}

// Services implements Reader.
func (m *Memory) Services(ctx context.Context, q ServiceQuery) ([]models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := toSet(q.IDs)
	categories := toSet(q.CategoryIDs)
	owners := toSet(q.ProfessionalIDs)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Service, 0)
	for _, id := range m.sortedServices {
		s := m.services[id]
		if !matches(ids, s.ID) || !matches(categories, s.CategoryID) || !matches(owners, s.ProfessionalID) {
			continue
		}
		if q.ActiveOnly && !s.Active {
			continue
		}
		if q.EligibleOnly {
			p, ok := m.professionals[s.ProfessionalID]
			if !ok || !p.Eligible() {
				continue
			}
		}
		out = append(out, *s)
	}
	return out, nil
}

// Professionals implements Reader.
func (m *Memory) Professionals(ctx context.Context, q ProfessionalQuery) ([]models.Professional, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := toSet(q.IDs)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Professional, 0)
	for _, id := range m.sortedProfessionals {
		p := m.professionals[id]
		if !matches(ids, p.ID) {
			continue
		}
		if q.EligibleOnly && !p.Eligible() {
			continue
		}
		if len(q.CategoryIDs) > 0 && !offersAny(p, q.CategoryIDs) {
			continue
		}
		if q.Within != nil && (p.Location == nil || !q.Within.Contains(p.Location.Lat, p.Location.Lon)) {
			continue
		}
		cp := *p
		cp.CategoryIDs = append([]int64(nil), p.CategoryIDs...)
		out = append(out, cp)
	}
	return out, nil
}

// Bookings implements Reader.
func (m *Memory) Bookings(ctx context.Context, q BookingQuery) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	customers := toSet(q.CustomerIDs)
	professionals := toSet(q.ProfessionalIDs)
	services := toSet(q.ServiceIDs)
	categories := toSet(q.CategoryIDs)
	excludedCategories := toSet(q.ExcludeCategoryIDs)
	statuses := make(map[models.BookingStatus]struct{}, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses[s] = struct{}{}
	}
	city := strings.ToLower(q.City)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Booking, 0)
	for _, id := range m.sortedBookings {
		b := m.bookings[id]
		switch {
		case !matches(customers, b.CustomerID),
			q.ExcludeCustomerID != 0 && b.CustomerID == q.ExcludeCustomerID,
			!matches(professionals, b.ProfessionalID),
			!matches(services, b.ServiceID),
			!matches(categories, b.CategoryID):
			continue
		}
		if _, excluded := excludedCategories[b.CategoryID]; excluded {
			continue
		}
		if len(statuses) > 0 {
			if _, ok := statuses[b.Status]; !ok {
				continue
			}
		}
		if !q.CreatedFrom.IsZero() && b.CreatedAt.Before(q.CreatedFrom) {
			continue
		}
		if !q.CreatedTo.IsZero() && !b.CreatedAt.Before(q.CreatedTo) {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(b.City), city) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func toSet(ids []int64) map[int64]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// matches treats a nil set as "no filter".
func matches(set map[int64]struct{}, id int64) bool {
	if set == nil {
		return true
	}
	_, ok := set[id]
	return ok
}

func offersAny(p *models.Professional, categoryIDs []int64) bool {
	for _, c := range categoryIDs {
		if p.OffersCategory(c) {
			return true
		}
	}
	return false
}
