package domain

import "testing"

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		to     Status
		expect bool
	}{
		// From todo
		{"todo -> in-progress", StatusTodo, StatusInProgress, true},
		{"todo -> cancelled", StatusTodo, StatusCancelled, true},
		{"todo -> completed", StatusTodo, StatusCompleted, false},
		{"todo -> todo", StatusTodo, StatusTodo, false},

		// From in-progress
		{"in-progress -> completed", StatusInProgress, StatusCompleted, true},
		{"in-progress -> cancelled", StatusInProgress, StatusCancelled, true},
		{"in-progress -> todo", StatusInProgress, StatusTodo, false},

		// Terminal
		{"completed -> cancelled", StatusCompleted, StatusCancelled, false},
		{"completed -> todo", StatusCompleted, StatusTodo, false},
		{"cancelled -> todo", StatusCancelled, StatusTodo, false},
		{"cancelled -> in-progress", StatusCancelled, StatusInProgress, false},

		// Unknown
		{"unknown -> todo", Status("bogus"), StatusTodo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.CanTransitionTo(tt.to)
			if got != tt.expect {
				t.Errorf("CanTransitionTo(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.expect)
			}
		})
	}
}

func TestStatus_Next(t *testing.T) {
	next, ok := StatusTodo.Next()
	if !ok || next != StatusInProgress {
		t.Errorf("todo.Next() = %q, %v", next, ok)
	}
	next, ok = StatusInProgress.Next()
	if !ok || next != StatusCompleted {
		t.Errorf("in-progress.Next() = %q, %v", next, ok)
	}
	if _, ok := StatusCompleted.Next(); ok {
		t.Error("completed should have no successor")
	}
	if _, ok := StatusCancelled.Next(); ok {
		t.Error("cancelled should have no successor")
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range AllStatuses() {
		want := s == StatusCompleted || s == StatusCancelled
		if got := s.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, want)
		}
	}
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("in_progress").IsValid() {
		t.Error("underscore spelling should be invalid")
	}
}

func TestStatus_Display(t *testing.T) {
	if got := StatusInProgress.Display(); got != "In Progress" {
		t.Errorf("Display() = %q", got)
	}
	if got := Status("x").Display(); got != "x" {
		t.Errorf("Display() of unknown = %q", got)
	}
}
