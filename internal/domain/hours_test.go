package domain

import (
	"testing"
	"time"
)

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		name string
		day  string
		want string
	}{
		{
			name: "canonical key passes through",
			day:  "monday",
			want: "monday",
		},
		{
			name: "russian full name",
			day:  "понедельник",
			want: "monday",
		},
		{
			name: "russian abbreviation",
			day:  "пн",
			want: "monday",
		},
		{
			name: "case and spaces ignored",
			day:  "  СБ ",
			want: "saturday",
		},
		{
			name: "partial match",
			day:  "понед",
			want: "monday",
		},
		{
			name: "garbage not recognized",
			day:  "праздник",
			want: "",
		},
		{
			name: "empty string",
			day:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDay(tt.day); got != tt.want {
				t.Errorf("NormalizeDay(%q) = %q, want %q", tt.day, got, tt.want)
			}
		})
	}
}

func TestNormalizeHours(t *testing.T) {
	tests := []struct {
		name  string
		hours string
		want  string
	}{
		{
			name:  "canonical range passes through",
			hours: "09:00-21:00",
			want:  "09:00-21:00",
		},
		{
			name:  "en dash range",
			hours: "9:00 – 21:00",
			want:  "09:00-21:00",
		},
		{
			name:  "hours only",
			hours: "9-21",
			want:  "09:00-21:00",
		},
		{
			name:  "words format",
			hours: "с 9 до 21",
			want:  "09:00-21:00",
		},
		{
			name:  "closed keyword",
			hours: "выходной",
			want:  DayClosed,
		},
		{
			name:  "closed keyword wins over time",
			hours: "закрыто (обычно 09:00-18:00)",
			want:  DayClosed,
		},
		{
			name:  "round the clock",
			hours: "круглосуточно",
			want:  DayRoundClock,
		},
		{
			name:  "24/7",
			hours: "24/7",
			want:  DayRoundClock,
		},
		{
			name:  "invalid hour passes through raw",
			hours: "25:00-26:00",
			want:  "25:00-26:00",
		},
		{
			name:  "unparseable text passes through",
			hours: "по записи",
			want:  "по записи",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeHours(tt.hours); got != tt.want {
				t.Errorf("NormalizeHours(%q) = %q, want %q", tt.hours, got, tt.want)
			}
		})
	}
}

func TestNormalizeHours_Idempotent(t *testing.T) {
	inputs := []string{"9-21", "с 10:30 до 19:00", "выходной", "24/7", "по записи"}
	for _, in := range inputs {
		once := NormalizeHours(in)
		twice := NormalizeHours(once)
		if once != twice {
			t.Errorf("NormalizeHours not idempotent on %q: %q -> %q", in, once, twice)
		}
	}
}

func TestWorkingHours_Validate(t *testing.T) {
	w := WorkingHours{
		CurrentStatus: "  Открыто   до 21:00 ",
		Schedule: map[string]string{
			"Пн":       "9:00 - 21:00",
			"вторник":  "выходной",
			"праздник": "10:00-16:00",
			"сб":       "",
		},
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if w.CurrentStatus != "Открыто до 21:00" {
		t.Errorf("CurrentStatus = %q", w.CurrentStatus)
	}
	if len(w.Schedule) != 2 {
		t.Fatalf("Schedule has %d entries, want 2: %v", len(w.Schedule), w.Schedule)
	}
	if w.Schedule["monday"] != "09:00-21:00" {
		t.Errorf("monday = %q", w.Schedule["monday"])
	}
	if w.Schedule["tuesday"] != DayClosed {
		t.Errorf("tuesday = %q", w.Schedule["tuesday"])
	}
}

func TestWorkingHours_IsOpenNow(t *testing.T) {
	sched := WorkingHours{Schedule: map[string]string{
		"monday":  "09:00-21:00",
		"tuesday": DayClosed,
		"friday":  DayRoundClock,
		"sunday":  "22:00-06:00",
	}}

	// 2026-08-31 - понедельник
	monday := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		at    time.Time
		open  bool
		known bool
	}{
		{
			name:  "monday midday open",
			at:    monday,
			open:  true,
			known: true,
		},
		{
			name:  "monday before opening",
			at:    time.Date(2026, 8, 31, 8, 59, 0, 0, time.UTC),
			open:  false,
			known: true,
		},
		{
			name:  "tuesday closed",
			at:    monday.AddDate(0, 0, 1),
			open:  false,
			known: true,
		},
		{
			name:  "friday round the clock",
			at:    monday.AddDate(0, 0, 4),
			open:  true,
			known: true,
		},
		{
			name:  "no schedule for wednesday",
			at:    monday.AddDate(0, 0, 2),
			open:  false,
			known: false,
		},
		{
			name:  "overnight interval after midnight",
			at:    time.Date(2026, 9, 6, 2, 0, 0, 0, time.UTC), // воскресенье
			open:  true,
			known: true,
		},
		{
			name:  "overnight interval gap",
			at:    time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC),
			open:  false,
			known: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, known := sched.IsOpenNow(tt.at)
			if open != tt.open || known != tt.known {
				t.Errorf("IsOpenNow() = (%v, %v), want (%v, %v)", open, known, tt.open, tt.known)
			}
		})
	}
}

func TestWorkingHours_WorkingDaysCount(t *testing.T) {
	w := WorkingHours{Schedule: map[string]string{
		"monday":  "09:00-21:00",
		"tuesday": "09:00-21:00",
		"sunday":  DayClosed,
	}}
	if got := w.WorkingDaysCount(); got != 2 {
		t.Errorf("WorkingDaysCount() = %d, want 2", got)
	}
}

func TestWorkingHours_FormatSchedule(t *testing.T) {
	w := WorkingHours{Schedule: map[string]string{
		"sunday": DayClosed,
		"monday": "09:00-21:00",
	}}
	got := w.FormatSchedule()
	if len(got) != 2 {
		t.Fatalf("got %d lines", len(got))
	}
	// порядок дней недели, не порядок карты
	if got[0] != "Понедельник: 09:00-21:00" || got[1] != "Воскресенье: Выходной" {
		t.Errorf("FormatSchedule() = %v", got)
	}
}

func TestNormalizeDay_AmbiguousPrefixDeterministic(t *testing.T) {
	// "п" - префикс сразу нескольких алиасов; побеждать должен
	// всегда первый по порядку недели
	for i := 0; i < 100; i++ {
		if got := NormalizeDay("п"); got != "monday" {
			t.Fatalf("NormalizeDay(%q) = %q на итерации %d, ожидалось monday", "п", got, i)
		}
		if got := NormalizeDay("с"); got != "wednesday" {
			t.Fatalf("NormalizeDay(%q) = %q на итерации %d, ожидалось wednesday", "с", got, i)
		}
	}
}
