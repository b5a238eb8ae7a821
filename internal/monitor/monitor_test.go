package monitor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func countingCheck(doneAfter int) (CheckFunc, *int) {
	calls := 0
	return func(ctx context.Context) (bool, error) {
		calls++
		return doneAfter > 0 && calls >= doneAfter, nil
	}, &calls
}

func TestWaitFor_Immediate(t *testing.T) {
	check, calls := countingCheck(1)
	var attempts []Attempt

	err := WaitFor(context.Background(), check,
		WithInterval(time.Hour),
		WithAttemptHook(func(a Attempt) { attempts = append(attempts, a) }),
	)
	if err != nil {
		t.Fatalf("WaitFor error: %v", err)
	}
	if *calls != 1 {
		t.Errorf("check called %d times, want 1", *calls)
	}
	if len(attempts) != 0 {
		t.Errorf("got %d attempts, want 0", len(attempts))
	}
}

func TestWaitFor_Polls(t *testing.T) {
	check, calls := countingCheck(3)
	var attempts []Attempt

	err := WaitFor(context.Background(), check,
		WithInterval(time.Millisecond),
		WithAttemptHook(func(a Attempt) { attempts = append(attempts, a) }),
	)
	if err != nil {
		t.Fatalf("WaitFor error: %v", err)
	}
	if *calls != 3 {
		t.Errorf("check called %d times, want 3", *calls)
	}
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	if attempts[0].N != 1 || attempts[1].N != 2 {
		t.Errorf("attempt numbers = %d, %d", attempts[0].N, attempts[1].N)
	}
	if attempts[1].Elapsed < attempts[0].Elapsed {
		t.Errorf("elapsed should not decrease: %v then %v", attempts[0].Elapsed, attempts[1].Elapsed)
	}
}

func TestWaitFor_Timeout(t *testing.T) {
	check, _ := countingCheck(0)

	err := WaitFor(context.Background(), check,
		WithInterval(5*time.Millisecond),
		WithTimeout(30*time.Millisecond),
	)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}

func TestWaitFor_ContextCancelled(t *testing.T) {
	check, _ := countingCheck(0)
	ctx, cancel := context.WithCancel(context.Background())

	err := WaitFor(ctx, check,
		WithInterval(time.Millisecond),
		WithAttemptHook(func(a Attempt) {
			if a.N == 2 {
				cancel()
			}
		}),
	)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWaitFor_CheckErrorKeepsPolling(t *testing.T) {
	calls := 0
	check := func(ctx context.Context) (bool, error) {
		calls++
		if calls == 1 {
			return false, errors.New("logs unavailable")
		}
		return true, nil
	}

	var gotErr error
	err := WaitFor(context.Background(), check,
		WithInterval(time.Millisecond),
		WithAttemptHook(func(a Attempt) { gotErr = a.Err }),
	)
	if err != nil {
		t.Fatalf("WaitFor error: %v", err)
	}
	if gotErr == nil {
		t.Error("attempt hook should receive the check error")
	}
	if calls != 2 {
		t.Errorf("check called %d times, want 2", calls)
	}
}

func TestWaitFor_ZeroTimeoutWaitsForContext(t *testing.T) {
	check, calls := countingCheck(0)
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	err := WaitFor(ctx, check, WithInterval(5*time.Millisecond), WithTimeout(0))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if *calls < 2 {
		t.Errorf("check called %d times, want several", *calls)
	}
}
