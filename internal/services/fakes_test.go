package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"sira/internal/models"
)

// in-memory fakes backing the service tests

type fakeVerificationRepo struct {
	records     []*models.PhoneVerification
	markUsedErr error
}

func (f *fakeVerificationRepo) Create(_ context.Context, v *models.PhoneVerification) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	cp := *v
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeVerificationRepo) FindMatch(_ context.Context, phone, code string) (*models.PhoneVerification, error) {
	var best *models.PhoneVerification
	now := time.Now()
	for _, rec := range f.records {
		if rec.PhoneNumber != phone || rec.Code != code {
			continue
		}
		if rec.Used || !rec.ExpiresAt.After(now) {
			continue
		}
		if best == nil || rec.CreatedAt.After(best.CreatedAt) {
			best = rec
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakeVerificationRepo) MarkUsed(_ context.Context, id string) error {
	if f.markUsedErr != nil {
		return f.markUsedErr
	}
	for _, rec := range f.records {
		if rec.ID == id {
			rec.Used = true
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeVerificationRepo) CountRecentSends(_ context.Context, phone string, since time.Time) (int, error) {
	n := 0
	for _, rec := range f.records {
		if rec.PhoneNumber == phone && rec.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeVerificationRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var kept []*models.PhoneVerification
	var removed int64
	for _, rec := range f.records {
		if rec.ExpiresAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	f.records = kept
	return removed, nil
}

type fakePendingStore struct {
	byPhone map[string]*models.PendingRegistration
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{byPhone: make(map[string]*models.PendingRegistration)}
}

func (f *fakePendingStore) Put(_ context.Context, reg *models.PendingRegistration, _ time.Duration) error {
	cp := *reg
	f.byPhone[reg.Phone] = &cp
	return nil
}

func (f *fakePendingStore) Take(_ context.Context, phone string) (*models.PendingRegistration, error) {
	reg, ok := f.byPhone[phone]
	if !ok {
		return nil, nil
	}
	delete(f.byPhone, phone)
	return reg, nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.LastActive = now
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) GetByPhone(_ context.Context, phone string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	if _, ok := f.profiles[p.ID]; !ok {
		return errors.New("not found")
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) ListTaskers(_ context.Context, _, _ int) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		if p.Role == models.RoleTasker || p.Role == models.RoleBoth {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) SearchTaskers(_ context.Context, query string, _, _ int) ([]*models.Profile, error) {
	query = strings.ToLower(query)
	var out []*models.Profile
	for _, p := range f.profiles {
		if p.Role != models.RoleTasker && p.Role != models.RoleBoth {
			continue
		}
		match := strings.Contains(strings.ToLower(p.FullName), query)
		for _, skill := range p.Skills {
			if strings.Contains(strings.ToLower(skill), query) {
				match = true
			}
		}
		if match {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) UpdateRole(_ context.Context, id string, role models.Role) error {
	p, ok := f.profiles[id]
	if !ok {
		return errors.New("not found")
	}
	p.Role = role
	return nil
}

func (f *fakeProfileRepo) UpdateRating(_ context.Context, id string, average float64, count int) error {
	p, ok := f.profiles[id]
	if !ok {
		return errors.New("not found")
	}
	p.RatingAverage = average
	p.RatingCount = count
	return nil
}

func (f *fakeProfileRepo) IncrementCompletedTasks(_ context.Context, id string) error {
	p, ok := f.profiles[id]
	if !ok {
		return errors.New("not found")
	}
	p.CompletedTasks++
	return nil
}

func (f *fakeProfileRepo) TouchLastActive(_ context.Context, id string) error {
	p, ok := f.profiles[id]
	if !ok {
		return errors.New("not found")
	}
	p.LastActive = time.Now()
	return nil
}

func (f *fakeProfileRepo) UpdateRefresh(_ context.Context, id, token string, expiresAt time.Time) error {
	p, ok := f.profiles[id]
	if !ok {
		return errors.New("not found")
	}
	p.RefreshToken = &token
	p.RefreshExpiresAt = &expiresAt
	p.RefreshRevoked = false
	return nil
}

func (f *fakeProfileRepo) RotateRefresh(_ context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.RefreshToken != nil && *p.RefreshToken == oldToken && !p.RefreshRevoked {
			p.RefreshToken = &newToken
			p.RefreshExpiresAt = &newExpiresAt
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) ClearRefresh(_ context.Context, id string) error {
	p, ok := f.profiles[id]
	if !ok {
		return errors.New("not found")
	}
	p.RefreshToken = nil
	p.RefreshExpiresAt = nil
	p.RefreshRevoked = true
	return nil
}

func (f *fakeProfileRepo) GetByRefreshToken(_ context.Context, token string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.RefreshToken != nil && *p.RefreshToken == token {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
