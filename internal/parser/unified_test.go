package parser

import (
	"testing"

	"go.uber.org/zap"
)

func TestUnifiedParser(t *testing.T) {
	p := New(zap.NewNop())

	services := p.ParseServices("Маникюр 2800 руб, 60 минут")
	if !services.Success || len(services.Services) != 1 {
		t.Errorf("ParseServices: success=%v, услуг %d", services.Success, len(services.Services))
	}

	schedule := p.ParseSchedule("Пн-Пт: 09:00-18:00")
	if !schedule.Success {
		t.Errorf("ParseSchedule: success=false, confidence=%v", schedule.Confidence)
	}

	contacts := p.ParseContacts(RawContacts{Phone: "8 (999) 123-45-67"})
	if contacts.Contacts.Phone != "+7 (999) 123-45-67" {
		t.Errorf("ParseContacts: phone = %q", contacts.Contacts.Phone)
	}

	if got := p.ParsePhone("8 999 123 45 67"); got != "+7 (999) 123-45-67" {
		t.Errorf("ParsePhone = %q", got)
	}

	price := p.ParsePrice("от 1500 руб")
	if price.Price != "от 1500" {
		t.Errorf("ParsePrice = %q", price.Price)
	}
}
