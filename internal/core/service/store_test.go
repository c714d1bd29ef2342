package service

import (
	"context"
	"sort"
	"sync"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// memStore backs every repository stub. WithinTransaction serialises
// transactions and restores a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	identities map[string]domain.Identity
	doctors    map[string]domain.DoctorProfile
	categories map[int64]domain.Category
	patients   map[int64]domain.Patient
	nextCatID  int64

	// failOn makes the named operation return the mapped error.
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		identities: make(map[string]domain.Identity),
		doctors:    make(map[string]domain.DoctorProfile),
		categories: make(map[int64]domain.Category),
		patients:   make(map[int64]domain.Patient),
		failOn:     make(map[string]error),
	}
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	identities map[string]domain.Identity
	doctors    map[string]domain.DoctorProfile
	categories map[int64]domain.Category
	patients   map[int64]domain.Patient
	nextCatID  int64
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		identities: make(map[string]domain.Identity, len(s.identities)),
		doctors:    make(map[string]domain.DoctorProfile, len(s.doctors)),
		categories: make(map[int64]domain.Category, len(s.categories)),
		patients:   make(map[int64]domain.Patient, len(s.patients)),
		nextCatID:  s.nextCatID,
	}
	for k, v := range s.identities {
		snap.identities[k] = v
	}
	for k, v := range s.doctors {
		snap.doctors[k] = v
	}
	for k, v := range s.categories {
		snap.categories[k] = v
	}
	for k, v := range s.patients {
		v.CategoryIDs = append([]int64(nil), v.CategoryIDs...)
		snap.patients[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities = snap.identities
	s.doctors = snap.doctors
	s.categories = snap.categories
	s.patients = snap.patients
	s.nextCatID = snap.nextCatID
}

func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

type identityRepo struct{ *memStore }

func (r identityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("identities.Create"); err != nil {
		return err
	}
	if _, ok := r.identities[identity.LoginID]; ok {
		return domain.ErrConflict
	}
	r.identities[identity.LoginID] = *identity
	return nil
}

func (r identityRepo) FindByLoginID(_ context.Context, loginID string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[loginID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &identity, nil
}

func (r identityRepo) update(op, loginID string, fn func(*domain.Identity)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail(op); err != nil {
		return err
	}
	identity, ok := r.identities[loginID]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&identity)
	r.identities[loginID] = identity
	return nil
}

func (r identityRepo) SetPassword(_ context.Context, loginID, hash string) error {
	return r.update("identities.SetPassword", loginID, func(i *domain.Identity) { i.PasswordHash = hash })
}

func (r identityRepo) SetActive(_ context.Context, loginID string, active bool) error {
	return r.update("identities.SetActive", loginID, func(i *domain.Identity) { i.IsActive = active })
}

func (r identityRepo) UpdateEmail(_ context.Context, loginID, email string) error {
	return r.update("identities.UpdateEmail", loginID, func(i *domain.Identity) { i.Email = email })
}

func (r identityRepo) UpdateProfile(_ context.Context, loginID string, p domain.Profile) error {
	return r.update("identities.UpdateProfile", loginID, func(i *domain.Identity) {
		i.FirstName = p.FirstName
		i.LastName = p.LastName
		i.Email = p.Email
	})
}

type doctorRepo struct{ *memStore }

func (r doctorRepo) Create(_ context.Context, profile *domain.DoctorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("doctors.Create"); err != nil {
		return err
	}
	if _, ok := r.doctors[profile.EmployeeID]; ok {
		return domain.ErrConflict
	}
	r.doctors[profile.EmployeeID] = *profile
	return nil
}

func (r doctorRepo) FindByEmployeeID(_ context.Context, employeeID string) (*domain.DoctorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.doctors[employeeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &profile, nil
}

func (r doctorRepo) SetActive(_ context.Context, employeeID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("doctors.SetActive"); err != nil {
		return err
	}
	profile, ok := r.doctors[employeeID]
	if !ok {
		return domain.ErrNotFound
	}
	profile.IsActive = active
	r.doctors[employeeID] = profile
	return nil
}

func (r doctorRepo) UpdateSpecialization(_ context.Context, employeeID, specialization string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.doctors[employeeID]
	if !ok {
		return domain.ErrNotFound
	}
	profile.Specialization = specialization
	r.doctors[employeeID] = profile
	return nil
}

func (r doctorRepo) List(_ context.Context) ([]domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Doctor, 0, len(r.doctors))
	for id, profile := range r.doctors {
		out = append(out, domain.Doctor{Profile: profile, Identity: r.identities[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Profile.EmployeeID < out[j].Profile.EmployeeID })
	return out, nil
}

func (r doctorRepo) Stats(_ context.Context) (domain.DoctorStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("doctors.Stats"); err != nil {
		return domain.DoctorStats{}, err
	}
	var stats domain.DoctorStats
	specs := map[string]struct{}{}
	for _, p := range r.doctors {
		stats.Total++
		if p.IsActive {
			stats.Active++
		} else {
			stats.Pending++
		}
		if p.Specialization != "" {
			specs[p.Specialization] = struct{}{}
		}
	}
	stats.Specializations = int64(len(specs))
	return stats, nil
}

type categoryRepo struct{ *memStore }

func (r categoryRepo) Create(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return domain.ErrConflict
		}
	}
	r.nextCatID++
	c.ID = r.nextCatID
	r.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r categoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedCategories(nil, true), nil
}

// sortedCategories must be called with mu held.
func (s *memStore) sortedCategories(filter []int64, all bool) []domain.Category {
	out := []domain.Category{}
	if all {
		for _, c := range s.categories {
			out = append(out, c)
		}
	} else {
		for _, id := range filter {
			if c, ok := s.categories[id]; ok {
				out = append(out, c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r categoryRepo) Update(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.categories {
		if id != c.ID && existing.Name == c.Name {
			return domain.ErrConflict
		}
	}
	r.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("categories.Delete"); err != nil {
		return err
	}
	if _, ok := r.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r categoryRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []int64{}
	for _, id := range ids {
		if _, ok := r.categories[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

type patientRepo struct{ *memStore }

func (r patientRepo) Create(_ context.Context, p *domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[p.PatientNumber]; ok {
		return domain.ErrConflict
	}
	stored := *p
	stored.CategoryIDs = append([]int64(nil), p.CategoryIDs...)
	stored.Categories = nil
	r.patients[p.PatientNumber] = stored
	return nil
}

func (r patientRepo) hydrate(p domain.Patient) domain.Patient {
	p.CategoryIDs = append([]int64(nil), p.CategoryIDs...)
	p.Categories = r.sortedCategories(p.CategoryIDs, false)
	return p
}

func (r patientRepo) FindByNumber(_ context.Context, n int64) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[n]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = r.hydrate(p)
	return &p, nil
}

func (r patientRepo) List(_ context.Context) ([]domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, r.hydrate(p))
	}
	return out, nil
}

func (r patientRepo) UpdateDetails(_ context.Context, p *domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("patients.UpdateDetails"); err != nil {
		return err
	}
	stored, ok := r.patients[p.PatientNumber]
	if !ok {
		return domain.ErrNotFound
	}
	stored.FirstName = p.FirstName
	stored.MiddleName = p.MiddleName
	stored.LastName = p.LastName
	stored.DateOfBirth = p.DateOfBirth
	stored.City = p.City
	stored.Age = p.Age
	r.patients[p.PatientNumber] = stored
	return nil
}

func (r patientRepo) SetCategories(_ context.Context, n int64, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("patients.SetCategories"); err != nil {
		return err
	}
	stored, ok := r.patients[n]
	if !ok {
		return domain.ErrNotFound
	}
	stored.CategoryIDs = append([]int64(nil), ids...)
	r.patients[n] = stored
	return nil
}

func (r patientRepo) DetachCategory(_ context.Context, categoryID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for n, p := range r.patients {
		kept := p.CategoryIDs[:0:0]
		for _, id := range p.CategoryIDs {
			if id != categoryID {
				kept = append(kept, id)
			}
		}
		p.CategoryIDs = kept
		r.patients[n] = p
	}
	return nil
}

type sentMessage struct {
	to, subject, body string
}

type stubNotifier struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (n *stubNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{to: to, subject: subject, body: body})
	return n.err
}

func (n *stubNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type stubStatsCache struct {
	mu          sync.Mutex
	stats       *domain.DoctorStats
	getErr      error
	sets        int
	invalidated int
}

func (c *stubStatsCache) Get(context.Context) (domain.DoctorStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return domain.DoctorStats{}, false, c.getErr
	}
	if c.stats == nil {
		return domain.DoctorStats{}, false, nil
	}
	return *c.stats, true, nil
}

func (c *stubStatsCache) Set(_ context.Context, stats domain.DoctorStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.stats = &stats
	return nil
}

func (c *stubStatsCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.stats = nil
	return nil
}
