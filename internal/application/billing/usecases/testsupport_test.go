package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
	vo "github.com/fibrelink-inc/fibrelink/internal/domain/billing/valueobjects"
	"github.com/fibrelink-inc/fibrelink/internal/domain/shared/events"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// fakeSubscriptionRepo is an in-memory store with the same optimistic
// locking semantics as the real repository. staleReads serves the first
// N FindBySID calls from a frozen snapshot so tests can force a version
// conflict deterministically.
type fakeSubscriptionRepo struct {
	mu         sync.Mutex
	subs       map[string]*billing.Subscription
	nextID     uint
	staleReads int
	stale      map[string]*billing.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		subs:   make(map[string]*billing.Subscription),
		stale:  make(map[string]*billing.Subscription),
		nextID: 1,
	}
}

func cloneSubscription(sub *billing.Subscription) *billing.Subscription {
	clone, err := billing.ReconstructSubscription(billing.ReconstructSubscriptionParams{
		ID:               sub.ID(),
		SID:              sub.SID(),
		PlanID:           sub.PlanID(),
		PlanStartDate:    sub.PlanStartDate(),
		PlanExpiryDate:   copyDate(sub.PlanExpiryDate()),
		PaymentStatus:    sub.PaymentStatus(),
		OldPendingAmount: sub.OldPendingAmount(),
		PaymentDueDate:   copyDate(sub.PaymentDueDate()),
		AccountStatus:    sub.AccountStatus(),
		Version:          sub.Version(),
		CreatedAt:        sub.CreatedAt(),
		UpdatedAt:        sub.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return clone
}

func (r *fakeSubscriptionRepo) seed(sub *billing.Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.SID()] = cloneSubscription(sub)
}

// freezeStaleReads snapshots current state and serves the next n reads
// from it.
func (r *fakeSubscriptionRepo) freezeStaleReads(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staleReads = n
	for sid, sub := range r.subs {
		r.stale[sid] = cloneSubscription(sub)
	}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *billing.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID() == 0 {
		if err := sub.SetID(r.nextID); err != nil {
			return err
		}
		r.nextID++
	}
	r.subs[sub.SID()] = cloneSubscription(sub)
	return nil
}

func (r *fakeSubscriptionRepo) FindBySID(ctx context.Context, sid string) (*billing.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.staleReads > 0 {
		r.staleReads--
		if sub, ok := r.stale[sid]; ok {
			return cloneSubscription(sub), nil
		}
	}

	sub, ok := r.subs[sid]
	if !ok {
		return nil, billing.ErrSubscriptionNotFound
	}
	return cloneSubscription(sub), nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *billing.Subscription, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.subs[sub.SID()]
	if !ok {
		return billing.ErrSubscriptionNotFound
	}
	if current.Version() != expectedVersion {
		return billing.ErrVersionConflict
	}
	r.subs[sub.SID()] = cloneSubscription(sub)
	return nil
}

func (r *fakeSubscriptionRepo) FindActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]*billing.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*billing.Subscription
	for _, sub := range r.subs {
		if sub.AccountStatus() != vo.AccountStatusActive {
			continue
		}
		if expiry := sub.PlanExpiryDate(); expiry != nil && expiry.Before(cutoff) {
			out = append(out, cloneSubscription(sub))
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]*billing.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*billing.Subscription
	for _, sub := range r.subs {
		if sub.AccountStatus() != vo.AccountStatusActive {
			continue
		}
		expiry := sub.PlanExpiryDate()
		if expiry == nil {
			continue
		}
		if !expiry.Before(from) && !expiry.After(to) {
			out = append(out, cloneSubscription(sub))
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) FindWithPaymentDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*billing.Subscription
	for _, sub := range r.subs {
		if due := sub.PaymentDueDate(); due != nil && !due.After(cutoff) {
			out = append(out, cloneSubscription(sub))
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) List(ctx context.Context, offset, limit int) ([]*billing.Subscription, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*billing.Subscription
	for _, sub := range r.subs {
		out = append(out, cloneSubscription(sub))
	}
	return out, int64(len(r.subs)), nil
}

func (r *fakeSubscriptionRepo) ExistsBySID(ctx context.Context, sid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[sid]
	return ok, nil
}

func (r *fakeSubscriptionRepo) get(sid string) *billing.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSubscription(r.subs[sid])
}

// fakeLedgerRepo is an in-memory append-only ledger.
type fakeLedgerRepo struct {
	mu      sync.Mutex
	records []*billing.BillingChangeRecord
	nextID  uint
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{nextID: 1}
}

func (r *fakeLedgerRepo) Append(ctx context.Context, record *billing.BillingChangeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID() == 0 {
		if err := record.SetID(r.nextID); err != nil {
			return err
		}
		r.nextID++
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeLedgerRepo) ListBySubscriber(ctx context.Context, sid string) ([]*billing.BillingChangeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*billing.BillingChangeRecord
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].SubscriberSID() == sid {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) FindByID(ctx context.Context, id uint) (*billing.BillingChangeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.ID() == id {
			return record, nil
		}
	}
	return nil, billing.ErrLedgerEntryNotFound
}

func (r *fakeLedgerRepo) Update(ctx context.Context, record *billing.BillingChangeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.ID() == record.ID() {
			r.records[i] = record
			return nil
		}
	}
	return billing.ErrLedgerEntryNotFound
}

func (r *fakeLedgerRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, record := range r.records {
		if record.ID() == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return billing.ErrLedgerEntryNotFound
}

func (r *fakeLedgerRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// fakePlanRepo is an in-memory plan catalog.
type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[string]*billing.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[string]*billing.Plan)}
}

func (r *fakePlanRepo) seed(plan *billing.Plan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.SID()] = plan
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *billing.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.SID()] = plan
	return nil
}

func (r *fakePlanRepo) FindBySID(ctx context.Context, sid string) (*billing.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[sid]
	if !ok {
		return nil, billing.ErrPlanNotFound
	}
	return plan, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *billing.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.SID()] = plan
	return nil
}

func (r *fakePlanRepo) List(ctx context.Context) ([]*billing.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.Plan
	for _, plan := range r.plans {
		out = append(out, plan)
	}
	return out, nil
}

// fakeTransactor runs the function directly; the fakes are not
// transactional, the atomicity contract is exercised against the real
// repository implementations.
type fakeTransactor struct{}

func (fakeTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// capturingPublisher records published events.
type capturingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *capturingPublisher) Publish(event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) PublishAll(evts []events.DomainEvent) error {
	for _, e := range evts {
		if err := p.Publish(e); err != nil {
			return err
		}
	}
	return nil
}

func (p *capturingPublisher) byType(eventType string) []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.DomainEvent
	for _, e := range p.events {
		if e.GetEventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}
