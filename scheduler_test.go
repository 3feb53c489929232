package jido

import "testing"

func TestSchedulerUpsertReplacesByName(t *testing.T) {
	s := NewScheduler(nil)
	defer s.Stop()

	fired1 := make(chan struct{}, 1)
	fired2 := make(chan struct{}, 1)

	if err := s.UpsertJob("job", "* * * * *", "", func() { fired1 <- struct{}{} }); err != nil {
		t.Fatalf("first UpsertJob: %v", err)
	}
	if !s.Has("job") {
		t.Fatal("expected job to be registered")
	}
	if err := s.UpsertJob("job", "*/1 * * * *", "", func() { fired2 <- struct{}{} }); err != nil {
		t.Fatalf("second UpsertJob: %v", err)
	}
	if !s.Has("job") {
		t.Fatal("expected job to still be registered after replacement")
	}
}

func TestSchedulerInvalidExpression(t *testing.T) {
	s := NewScheduler(nil)
	defer s.Stop()

	err := s.UpsertJob("bad", "not a cron expression", "", func() {})
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Has("bad") {
		t.Fatal("an invalid expression must not register a job")
	}
}

func TestSchedulerDeleteUnknownIsNoop(t *testing.T) {
	s := NewScheduler(nil)
	defer s.Stop()
	s.DeleteJob("never-registered")
}
