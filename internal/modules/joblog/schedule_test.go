package joblog

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTomorrowSlot(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	nine15 := "09:15"
	bad := "9am"
	short := "9:15"

	tests := []struct {
		name     string
		now      time.Time
		loc      *time.Location
		current  Slot
		wantDate string
		wantTime string
	}{
		{
			name:     "keeps existing time",
			now:      time.Date(2025, 4, 10, 14, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			current:  Slot{LogDate: strPtr("2025-04-10"), LogTime: &nine15},
			wantDate: "2025-04-11",
			wantTime: "09:15",
		},
		{
			name:     "falls back to default time",
			now:      time.Date(2025, 4, 10, 14, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			current:  Slot{},
			wantDate: "2025-04-11",
			wantTime: "08:30",
		},
		{
			name:     "malformed time uses default",
			now:      time.Date(2025, 4, 10, 14, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			current:  Slot{LogTime: &bad},
			wantDate: "2025-04-11",
			wantTime: "08:30",
		},
		{
			name:     "single-digit hour uses default",
			now:      time.Date(2025, 4, 10, 14, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			current:  Slot{LogTime: &short},
			wantDate: "2025-04-11",
			wantTime: "08:30",
		},
		{
			name:     "today is taken in the configured zone",
			now:      time.Date(2025, 4, 10, 23, 30, 0, 0, time.UTC), // 00:30 on the 11th in London
			loc:      london,
			current:  Slot{LogTime: &nine15},
			wantDate: "2025-04-12",
			wantTime: "09:15",
		},
		{
			name:     "month rollover",
			now:      time.Date(2025, 4, 30, 10, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			current:  Slot{LogTime: &nine15},
			wantDate: "2025-05-01",
			wantTime: "09:15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TomorrowSlot(tt.now, tt.loc, tt.current, "08:30")
			if got.LogDate == nil || *got.LogDate != tt.wantDate {
				t.Errorf("date = %v, want %s", got.LogDate, tt.wantDate)
			}
			if got.LogTime == nil || *got.LogTime != tt.wantTime {
				t.Errorf("time = %v, want %s", got.LogTime, tt.wantTime)
			}
		})
	}
}

func TestTomorrowSlot_EmptyDefaultUsesPackageDefault(t *testing.T) {
	got := TomorrowSlot(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), nil, Slot{}, "")
	if *got.LogTime != DefaultMoveTime {
		t.Errorf("time = %s, want %s", *got.LogTime, DefaultMoveTime)
	}
}

func TestDedupeMentions(t *testing.T) {
	got, err := dedupeMentions([]int64{4, 2, 4, 9, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{4, 2, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := dedupeMentions([]int64{3, 0}); !errors.Is(err, ErrInvalid) {
		t.Errorf("zero id should be invalid, got %v", err)
	}
	if got, _ := dedupeMentions(nil); got == nil {
		t.Error("nil input should yield an empty, non-nil slice")
	}
}

func TestPatchRequest_AbsentVersusNull(t *testing.T) {
	var p PatchRequest
	if err := json.Unmarshal([]byte(`{"logTime": null}`), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.LogDate.Set {
		t.Error("absent logDate must stay unset")
	}
	if !p.LogTime.Set || p.LogTime.Value != nil {
		t.Error("explicit null must be set with a nil value")
	}

	current := NewSlot("2025-04-10", "09:15")
	next := p.Apply(current)
	if next.LogDate == nil || *next.LogDate != "2025-04-10" {
		t.Errorf("date should be unchanged, got %v", next.LogDate)
	}
	if next.LogTime != nil {
		t.Errorf("time should be cleared, got %v", *next.LogTime)
	}

	var empty PatchRequest
	if err := json.Unmarshal([]byte(`{}`), &empty); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !empty.Empty() {
		t.Error("{} should be an empty patch")
	}

	body, err := json.Marshal(PatchRequest{LogDate: Some("2025-04-11")})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(body) != `{"logDate":"2025-04-11"}` {
		t.Errorf("encoded = %s", body)
	}
}

func TestSlotValidate(t *testing.T) {
	if err := NewSlot("2025-04-11", "09:15").Validate(); err != nil {
		t.Errorf("valid slot rejected: %v", err)
	}
	if err := (Slot{}).Validate(); err != nil {
		t.Errorf("cleared slot rejected: %v", err)
	}
	if err := NewSlot("11/04/2025", "09:15").Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("bad date: got %v", err)
	}
	for _, slot := range []Slot{
		NewSlot("2025-04-11", "25:00"),
		NewSlot("2025-04-11", "9:15"),
		NewSlot("2025-04-11", "09:15:00"),
		NewSlot("2025-4-11", "09:15"),
		NewSlot("2025-04-31", "09:15"),
		NewSlot(" 2025-04-11", "09:15"),
	} {
		if err := slot.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s %s: got %v", *slot.LogDate, *slot.LogTime, err)
		}
	}
}

func TestJobClone_SharesNothing(t *testing.T) {
	j := &Job{ID: 1, LogDate: strPtr("2025-04-10"), LogTime: strPtr("09:15"), Attachments: []string{"a"}}
	c := j.Clone()
	*c.LogDate = "2030-01-01"
	c.Attachments[0] = "b"
	if *j.LogDate != "2025-04-10" || j.Attachments[0] != "a" {
		t.Error("clone mutation leaked into original")
	}
}

func strPtr(s string) *string { return &s }
