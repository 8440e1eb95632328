package site

import (
	"testing"
)

func TestIsHTTPS(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com", false},
		{"example.com", false},
		{"HTTPS://example.com", false},
	}
	for _, tc := range tests {
		if got := IsHTTPS(tc.in); got != tc.want {
			t.Errorf("IsHTTPS(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com", "example.com"},
		{"http://example.com", "example.com"},
		{"example.com", "example.com"},
		{"https://example.com/path/x", "example.com"},
		{"https://example.com?q=1", "example.com"},
		{"https://example.com.", "example.com"},
	}
	for _, tc := range tests {
		if got := Host(tc.in); got != tc.want {
			t.Errorf("Host(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"simple", "https://example.com", "example.com", false},
		{"subdomain", "https://foo.example.com", "example.com", false},
		{"multi_label_suffix", "https://foo.example.co.uk", "example.co.uk", false},
		{"no_scheme", "example.com", "example.com", false},
		{"bare_suffix", "https://com", "", true},
		{"unknown_tld", "https://example.zzzznotreal", "", true},
		{"empty_host", "https://", "", true},
		{"invalid_characters", "https://exa mple.com", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RegistrableDomain(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("RegistrableDomain(%q) = %q, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("RegistrableDomain(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("RegistrableDomain(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSplitAlias(t *testing.T) {
	tests := []struct {
		in         string
		label, tld string
		ok         bool
	}{
		{"https://example.com", "example", "com", true},
		{"https://example.co.uk", "example", "co.uk", true},
		{"https://localhost", "localhost", "", false},
	}
	for _, tc := range tests {
		label, tld, ok := SplitAlias(tc.in)
		if label != tc.label || tld != tc.tld || ok != tc.ok {
			t.Errorf("SplitAlias(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, label, tld, ok, tc.label, tc.tld, tc.ok)
		}
	}
}

func TestTLDLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com", "com"},
		{"https://example.co.uk", "uk"},
		{"https://localhost", "localhost"},
	}
	for _, tc := range tests {
		if got := TLDLabel(tc.in); got != tc.want {
			t.Errorf("TLDLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSort(t *testing.T) {
	got := []string{"https://c.example", "https://a.example", "https://b.example"}
	Sort(got)
	want := []string{"https://a.example", "https://b.example", "https://c.example"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sort = %v, want %v", got, want)
		}
	}
	if Compare("https://a.example", "https://a.example") != 0 {
		t.Error("Compare of equal sites is not 0")
	}
}
