package usecase

import (
	"context"
	"errors"
	"path"
	"sort"
	"sync"
	"testing"
	"time"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/data/repository"
	"facility-rental/internal/dto/request"
	"facility-rental/internal/engine/calendar"
	"facility-rental/pkg/cache"
	"facility-rental/pkg/database"
	"facility-rental/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errNoRows = errors.New("no rows in result set")

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// memDB backs every fake repository. Reads return copies, like rows would.
type memDB struct {
	mu        sync.Mutex
	rentals   []*entity.RentalRequest
	blocks    []*entity.Block
	schedules []*entity.ClassSchedule
}

func cloneRental(r *entity.RentalRequest) *entity.RentalRequest {
	c := *r
	c.Equipment = append([]string{}, r.Equipment...)
	return &c
}

type memRooms struct{}

func (memRooms) FindAll(context.Context) ([]*entity.Room, error) { return DefaultRooms(), nil }

func (memRooms) FindByID(_ context.Context, id string) (*entity.Room, error) {
	for _, r := range DefaultRooms() {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

type memRentals struct{ db *memDB }

func (m memRentals) Create(_ context.Context, rental *entity.RentalRequest) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.rentals = append(m.db.rentals, cloneRental(rental))
	return nil
}

func (m memRentals) CreateBatch(ctx context.Context, rentals []*entity.RentalRequest) error {
	for _, r := range rentals {
		if err := m.Create(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m memRentals) find(id uuid.UUID) *entity.RentalRequest {
	for _, r := range m.db.rentals {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m memRentals) FindByID(_ context.Context, id uuid.UUID) (*entity.RentalRequest, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if r := m.find(id); r != nil {
		return cloneRental(r), nil
	}
	return nil, nil
}

func (m memRentals) FindByBatchID(_ context.Context, batchID uuid.UUID) ([]*entity.RentalRequest, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []*entity.RentalRequest
	for _, r := range m.db.rentals {
		if r.BatchID != nil && *r.BatchID == batchID {
			out = append(out, cloneRental(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BatchSeq < out[j].BatchSeq })
	return out, nil
}

func (m memRentals) FindAll(_ context.Context, f repository.RentalFilter) ([]*entity.RentalRequest, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []*entity.RentalRequest
	for i := len(m.db.rentals) - 1; i >= 0; i-- {
		r := m.db.rentals[i]
		switch {
		case f.RoomID != "" && r.RoomID != f.RoomID,
			f.From != "" && r.Date < f.From,
			f.To != "" && r.Date > f.To,
			f.Phone != "" && r.ApplicantPhone != f.Phone:
			continue
		}
		out = append(out, cloneRental(r))
	}
	return out, nil
}

func (m memRentals) FindForRoom(_ context.Context, roomID, from, to string) ([]*entity.RentalRequest, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []*entity.RentalRequest
	for _, r := range m.db.rentals {
		if r.RoomID != roomID {
			continue
		}
		if r.SpansGalleryPeriod() || (r.Date >= from && r.Date <= to) {
			out = append(out, cloneRental(r))
		}
	}
	return out, nil
}

func (m memRentals) UpdateStatus(_ context.Context, id uuid.UUID, status entity.RequestStatus, reason string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r := m.find(id)
	if r == nil {
		return errNoRows
	}
	r.Status, r.RejectReason = status, reason
	return nil
}

func (m memRentals) UpdateDiscount(_ context.Context, id uuid.UUID, mode string, rate float64, amount int64, reason string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r := m.find(id)
	if r == nil {
		return errNoRows
	}
	r.DiscountMode = mode
	r.DiscountRate, r.DiscountAmount, r.DiscountReason = rate, amount, reason
	return nil
}

type memBlocks struct{ db *memDB }

func (m memBlocks) Create(_ context.Context, b *entity.Block) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c := *b
	m.db.blocks = append(m.db.blocks, &c)
	return nil
}

func (m memBlocks) FindByID(_ context.Context, id uuid.UUID) (*entity.Block, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, b := range m.db.blocks {
		if b.ID == id {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

func (m memBlocks) FindAll(context.Context) ([]*entity.Block, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := make([]*entity.Block, len(m.db.blocks))
	for i, b := range m.db.blocks {
		c := *b
		out[i] = &c
	}
	return out, nil
}

// FindAffecting returns everything; the engines filter by scope and date.
func (m memBlocks) FindAffecting(ctx context.Context, _, _, _ string) ([]*entity.Block, error) {
	return m.FindAll(ctx)
}

func (m memBlocks) Delete(_ context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for i, b := range m.db.blocks {
		if b.ID == id {
			m.db.blocks = append(m.db.blocks[:i], m.db.blocks[i+1:]...)
			return nil
		}
	}
	return errNoRows
}

type memSchedules struct{ db *memDB }

func (m memSchedules) Create(_ context.Context, s *entity.ClassSchedule) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c := *s
	m.db.schedules = append(m.db.schedules, &c)
	return nil
}

func (m memSchedules) FindByID(_ context.Context, id uuid.UUID) (*entity.ClassSchedule, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.schedules {
		if s.ID == id {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (m memSchedules) FindAll(context.Context) ([]*entity.ClassSchedule, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := make([]*entity.ClassSchedule, len(m.db.schedules))
	for i, s := range m.db.schedules {
		c := *s
		out[i] = &c
	}
	return out, nil
}

func (m memSchedules) FindForRoom(ctx context.Context, _ string) ([]*entity.ClassSchedule, error) {
	return m.FindAll(ctx)
}

func (m memSchedules) Delete(_ context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for i, s := range m.db.schedules {
		if s.ID == id {
			m.db.schedules = append(m.db.schedules[:i], m.db.schedules[i+1:]...)
			return nil
		}
	}
	return errNoRows
}

// memTx records the locks each write asked for and runs writes one at a
// time, standing in for the advisory locks.
type memTx struct {
	repo   *repository.Repository
	serial sync.Mutex
	mu     sync.Mutex
	locks  [][]database.Lock
}

func (t *memTx) WithinLock(_ context.Context, locks []database.Lock, fn func(tx *repository.Repository) error) error {
	t.mu.Lock()
	t.locks = append(t.locks, locks)
	t.mu.Unlock()

	t.serial.Lock()
	defer t.serial.Unlock()
	return fn(t.repo)
}

func (t *memTx) last() []database.Lock {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.locks) == 0 {
		return nil
	}
	return t.locks[len(t.locks)-1]
}

type published struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: key, payload: payload})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.key
	}
	return out
}

type stubLimiter struct{ deny bool }

func (l *stubLimiter) Allow(string) bool { return !l.deny }

const (
	staffUser     = "staff"
	staffPassword = "correct horse"
	applicantPin  = "1234"
)

// memCache keeps encoded values like Redis would and records the TTL limit
// of each write.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	limits  map[string]time.Duration
	deletes []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, limits: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, limit time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	c.limits[key] = limit
	return nil
}

func (c *memCache) DeleteMatch(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, pattern)
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memCache) Close() error { return nil }

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *memCache) limit(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limits[key]
}

func (c *memCache) deleted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.deletes...)
}

type harness struct {
	db      *memDB
	repo    *repository.Repository
	tx      *memTx
	clock   fixedClock
	engines *Engines
	pub     *recordingPublisher
	limiter *stubLimiter
	tokens  *utils.TokenManager
	svc     *Service
}

// newHarness wires the services over in-memory storage with today fixed
// to Tuesday 2026-02-10.
func newHarness(t *testing.T) *harness {
	t.Helper()

	db := &memDB{}
	repo := &repository.Repository{
		Room:     memRooms{},
		Rental:   memRentals{db: db},
		Block:    memBlocks{db: db},
		Schedule: memSchedules{db: db},
	}
	tx := &memTx{repo: repo}
	repo.Tx = tx

	hash, err := utils.HashPassword(staffPassword)
	require.NoError(t, err)
	config := &utils.Config{Staff: utils.StaffConfig{Username: staffUser, PasswordHash: hash}}

	clock := fixedClock{t: time.Date(2026, 2, 10, 9, 0, 0, 0, calendar.OperatingZone)}
	engines := NewEngines(NewRoomCatalog(DefaultRooms()), clock, 60)

	h := &harness{
		db:      db,
		repo:    repo,
		tx:      tx,
		clock:   clock,
		engines: engines,
		pub:     &recordingPublisher{},
		limiter: &stubLimiter{},
		tokens:  utils.NewTokenManager(utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1}),
	}
	infra := Infra{
		Cache:     cache.Nop{},
		Publisher: h.pub,
		Limiter:   h.limiter,
		Tokens:    h.tokens,
		Clock:     clock,
	}
	h.svc = NewService(repo, engines, infra, config, zap.NewNop())
	return h
}

func applicant() request.Applicant {
	return request.Applicant{
		ApplicantName:  "Kim Minji",
		ApplicantPhone: "010-1234-5678",
		ApplicantEmail: "minji@example.com",
		Purpose:        "Study group",
		Headcount:      12,
		Pin:            applicantPin,
	}
}

func lectureRequest(room, date, start, end string, equipment ...string) *request.CreateRentalRequest {
	return &request.CreateRentalRequest{
		RoomID:    room,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Equipment: equipment,
		Applicant: applicant(),
	}
}

func galleryRequest(start, end string) *request.CreateGalleryRentalRequest {
	return &request.CreateGalleryRentalRequest{
		StartDate: start,
		EndDate:   end,
		Applicant: applicant(),
	}
}

func (h *harness) status(t *testing.T, id uuid.UUID) entity.RequestStatus {
	t.Helper()
	h.db.mu.Lock()
	defer h.db.mu.Unlock()
	for _, r := range h.db.rentals {
		if r.ID == id {
			return r.Status
		}
	}
	t.Fatalf("rental %s not stored", id)
	return ""
}
