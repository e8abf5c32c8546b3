package domain

import (
	"errors"
	"testing"
)

func TestService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		service Service
		wantErr error
	}{
		{
			name:    "plain service",
			service: Service{Name: "Маникюр с покрытием", Price: "2800 ₽"},
			wantErr: nil,
		},
		{
			name:    "range prices",
			service: Service{Name: "Стрижка", PriceFrom: "1000", PriceTo: "2000"},
			wantErr: nil,
		},
		{
			name:    "price with words",
			service: Service{Name: "Массаж", PriceFrom: "от 1500 руб"},
			wantErr: nil,
		},
		{
			name:    "empty name rejected",
			service: Service{Name: "  ", Price: "100"},
			wantErr: ErrEmptyServiceName,
		},
		{
			name:    "letters in price rejected",
			service: Service{Name: "Стрижка", Price: "дорого"},
			wantErr: ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.service.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Warnings(t *testing.T) {
	tests := []struct {
		name    string
		service Service
		count   int
	}{
		{
			name:    "sane prices no warnings",
			service: Service{Name: "Маникюр", PriceFrom: "1000", PriceTo: "2000"},
			count:   0,
		},
		{
			name:    "inverted range",
			service: Service{Name: "Маникюр", PriceFrom: "2000", PriceTo: "1000"},
			count:   1,
		},
		{
			name:    "too wide range",
			service: Service{Name: "Маникюр", PriceFrom: "100", PriceTo: "5000"},
			count:   1,
		},
		{
			name:    "implausibly high price",
			service: Service{Name: "Маникюр", Price: "2000000"},
			count:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.service.Warnings(); len(got) != tt.count {
				t.Errorf("Warnings() = %v, want %d items", got, tt.count)
			}
		})
	}
}

func TestService_WarningsWithin(t *testing.T) {
	tests := []struct {
		name     string
		service  Service
		min, max float64
		count    int
	}{
		{
			name:    "within custom bounds",
			service: Service{Name: "Маникюр", Price: "2800"},
			min:     100, max: 10000,
			count: 0,
		},
		{
			name:    "below custom minimum",
			service: Service{Name: "Маникюр", Price: "50"},
			min:     100, max: 10000,
			count: 1,
		},
		{
			name:    "above custom maximum",
			service: Service{Name: "Маникюр", Price: "2800"},
			min:     1, max: 100,
			count: 1,
		},
		{
			name:    "default bounds keep it clean",
			service: Service{Name: "Маникюр", Price: "2800"},
			min:     DefaultPriceMin, max: DefaultPriceMax,
			count: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.service.WarningsWithin(tt.min, tt.max); len(got) != tt.count {
				t.Errorf("WarningsWithin(%v, %v) = %v, want %d items", tt.min, tt.max, got, tt.count)
			}
		})
	}
}

func TestService_PriceNumeric(t *testing.T) {
	tests := []struct {
		name    string
		service Service
		want    float64
		ok      bool
	}{
		{
			name:    "plain price",
			service: Service{Name: "X", Price: "2800 ₽"},
			want:    2800,
			ok:      true,
		},
		{
			name:    "falls back to price_from",
			service: Service{Name: "X", PriceFrom: "1500"},
			want:    1500,
			ok:      true,
		},
		{
			name:    "decimal comma",
			service: Service{Name: "X", Price: "99,90"},
			want:    99.9,
			ok:      true,
		},
		{
			name:    "no price",
			service: Service{Name: "X"},
			want:    0,
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.service.PriceNumeric()
			if got != tt.want || ok != tt.ok {
				t.Errorf("PriceNumeric() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestService_DisplayPrice(t *testing.T) {
	tests := []struct {
		name    string
		service Service
		want    string
	}{
		{
			name:    "range",
			service: Service{Name: "X", PriceFrom: "1000", PriceTo: "2000"},
			want:    "от 1000 до 2000",
		},
		{
			name:    "plain",
			service: Service{Name: "X", Price: "2800 ₽"},
			want:    "2800 ₽",
		},
		{
			name:    "from only",
			service: Service{Name: "X", PriceFrom: "1500"},
			want:    "от 1500",
		},
		{
			name:    "nothing",
			service: Service{Name: "X"},
			want:    "Цена не указана",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.service.DisplayPrice(); got != tt.want {
				t.Errorf("DisplayPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestService_Category(t *testing.T) {
	tests := []struct {
		name    string
		service string
		want    string
	}{
		{
			name:    "manicure is beauty",
			service: "Маникюр с покрытием",
			want:    "beauty",
		},
		{
			name:    "massage",
			service: "Классический массаж спины",
			want:    "massage",
		},
		{
			name:    "consultation is medical",
			service: "Консультация врача",
			want:    "medical",
		},
		{
			name:    "unknown",
			service: "Аренда зала",
			want:    "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Service{Name: tt.service}
			if got := s.Category(); got != tt.want {
				t.Errorf("Category() = %q, want %q", got, tt.want)
			}
		})
	}
}
