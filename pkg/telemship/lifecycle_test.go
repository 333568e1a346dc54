package telemship

import (
	"errors"
	"testing"

	"github.com/bft-labs/telemship/internal/domain"
	"github.com/bft-labs/telemship/pkg/log"
)

func TestLifecycleHappyPath(t *testing.T) {
	l := newLifecycle(log.NewNoopLogger(), nil)

	steps := []State{StateStarting, StateRunning, StateStopping, StateStopped}
	for _, s := range steps {
		if err := l.TransitionTo(s, "test"); err != nil {
			t.Fatalf("TransitionTo(%v) error = %v", s, err)
		}
		if l.State() != s {
			t.Fatalf("State() = %v, want %v", l.State(), s)
		}
	}
}

func TestLifecycleRejectsInvalidTransitions(t *testing.T) {
	l := newLifecycle(log.NewNoopLogger(), nil)

	if err := l.TransitionTo(StateRunning, "test"); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("Stopped -> Running error = %v, want ErrNotRunning", err)
	}
	if err := l.TransitionTo(StateStopping, "test"); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("Stopped -> Stopping error = %v, want ErrNotRunning", err)
	}
}

func TestLifecycleCrashRecovery(t *testing.T) {
	l := newLifecycle(log.NewNoopLogger(), nil)

	if err := l.TransitionTo(StateStarting, "test"); err != nil {
		t.Fatal(err)
	}
	if err := l.TransitionTo(StateCrashed, "boom"); err != nil {
		t.Fatal(err)
	}
	if err := l.TransitionTo(StateStarting, "restart"); err != nil {
		t.Errorf("Crashed -> Starting error = %v, want nil", err)
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		StateStopped:  "Stopped",
		StateStarting: "Starting",
		StateRunning:  "Running",
		StateStopping: "Stopping",
		StateCrashed:  "Crashed",
		State(42):     "Unknown",
	}
	for s, want := range names {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
