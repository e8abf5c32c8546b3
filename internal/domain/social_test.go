package domain

import "testing"

func TestSocialNetworks_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   SocialNetworks
		want SocialNetworks
	}{
		{
			name: "full urls pass through",
			in: SocialNetworks{
				Telegram: "https://t.me/salon",
				WhatsApp: "https://wa.me/79991234567",
				VK:       "https://vk.com/salon",
			},
			want: SocialNetworks{
				Telegram: "https://t.me/salon",
				WhatsApp: "https://wa.me/79991234567",
				VK:       "https://vk.com/salon",
			},
		},
		{
			name: "telegram username expanded",
			in:   SocialNetworks{Telegram: "@salon_beauty"},
			want: SocialNetworks{Telegram: "https://t.me/salon_beauty"},
		},
		{
			name: "telegram bare domain gets scheme",
			in:   SocialNetworks{Telegram: "t.me/salon"},
			want: SocialNetworks{Telegram: "https://t.me/salon"},
		},
		{
			name: "whatsapp phone becomes link",
			in:   SocialNetworks{WhatsApp: "+79991234567"},
			want: SocialNetworks{WhatsApp: "https://wa.me/79991234567"},
		},
		{
			name: "vk username expanded",
			in:   SocialNetworks{VK: "salon.msk"},
			want: SocialNetworks{VK: "https://vk.com/salon.msk"},
		},
		{
			name: "empty stays empty",
			in:   SocialNetworks{},
			want: SocialNetworks{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sn := tt.in
			if err := sn.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if sn != tt.want {
				t.Errorf("got %+v, want %+v", sn, tt.want)
			}
		})
	}
}

func TestSocialNetworks_Active(t *testing.T) {
	sn := SocialNetworks{Telegram: "https://t.me/salon", VK: "https://vk.com/salon"}
	active := sn.Active()
	if len(active) != 2 {
		t.Fatalf("Active() has %d entries, want 2", len(active))
	}
	if active["telegram"] != "https://t.me/salon" {
		t.Errorf("telegram = %q", active["telegram"])
	}
	if !sn.HasAny() || sn.Count() != 2 {
		t.Errorf("HasAny() = %v, Count() = %d", sn.HasAny(), sn.Count())
	}
}

func TestSocialNetworks_Usernames(t *testing.T) {
	sn := SocialNetworks{
		Telegram: "https://t.me/salon_beauty",
		WhatsApp: "https://wa.me/79991234567",
	}
	got := sn.Usernames()
	if got["telegram"] != "salon_beauty" {
		t.Errorf("telegram username = %q", got["telegram"])
	}
	if got["whatsapp"] != "79991234567" {
		t.Errorf("whatsapp username = %q", got["whatsapp"])
	}
}
