package quota

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeService struct {
	remaining   int64
	err         error
	checks      int
	decreased   chan int64
	decreaseErr error
}

func (f *fakeService) Remaining(ctx context.Context, token string) (int64, error) {
	f.checks++
	return f.remaining, f.err
}

func (f *fakeService) Decrease(ctx context.Context, token string, by int64) error {
	if f.decreased != nil {
		f.decreased <- by
	}
	return f.decreaseErr
}

func TestCheck_Allowed(t *testing.T) {
	g := NewGate(&fakeService{remaining: 500})
	remaining, err := g.Check(context.Background(), "tok")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if remaining != 500 {
		t.Errorf("expected 500, got %d", remaining)
	}
}

func TestCheck_ZeroBalanceIsInsufficient(t *testing.T) {
	g := NewGate(&fakeService{remaining: 0})
	_, err := g.Check(context.Background(), "tok")
	if !errors.Is(err, ErrInsufficientQuota) {
		t.Errorf("expected ErrInsufficientQuota, got %v", err)
	}
}

func TestCheck_ServiceFailureIsNotInsufficient(t *testing.T) {
	g := NewGate(&fakeService{err: errors.New("connection refused")})
	_, err := g.Check(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrInsufficientQuota) {
		t.Error("service failure must not look like an exhausted balance")
	}
}

func TestCheck_PositiveResultIsCached(t *testing.T) {
	svc := &fakeService{remaining: 100}
	g := NewGate(svc)
	g.Check(context.Background(), "tok")
	g.Check(context.Background(), "tok")
	if svc.checks != 1 {
		t.Errorf("expected 1 service call, got %d", svc.checks)
	}
}

func TestCheck_ZeroResultIsNotCached(t *testing.T) {
	svc := &fakeService{remaining: 0}
	g := NewGate(svc)
	g.Check(context.Background(), "tok")
	g.Check(context.Background(), "tok")
	if svc.checks != 2 {
		t.Errorf("expected 2 service calls, got %d", svc.checks)
	}
}

func TestConsume_DecrementsAndInvalidates(t *testing.T) {
	svc := &fakeService{remaining: 100, decreased: make(chan int64, 1)}
	g := NewGate(svc)
	g.Check(context.Background(), "tok")

	g.Consume("tok", 42)
	select {
	case by := <-svc.decreased:
		if by != 42 {
			t.Errorf("expected decrement of 42, got %d", by)
		}
	case <-time.After(time.Second):
		t.Fatal("decrement never issued")
	}

	g.Check(context.Background(), "tok")
	if svc.checks != 2 {
		t.Errorf("expected cache invalidation to force a refetch, got %d calls", svc.checks)
	}
}

func TestConsume_ZeroUsageIsNoop(t *testing.T) {
	svc := &fakeService{decreased: make(chan int64, 1)}
	g := NewGate(svc)
	g.Consume("tok", 0)
	select {
	case <-svc.decreased:
		t.Error("no decrement expected for zero usage")
	case <-time.After(50 * time.Millisecond):
	}
}
