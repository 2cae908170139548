package columns

import (
	"testing"

	"rnacolumns/pkg/domain"
)

func TestNormalizeConfigName(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"Default", "Default", true},
		{"time course 2", "time_course_2", true},
		{"  padded ", "padded", true},
		{"", "", false},
		{"bad/name", "", false},
		{"semi;colon", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeConfigName(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("NormalizeConfigName(%q) = %q, %v", tc.in, got, err)
			}
			continue
		}
		if !domain.IsUserError(err) {
			t.Fatalf("NormalizeConfigName(%q): expected config error, got %v", tc.in, err)
		}
	}
}

func TestConfigKeys(t *testing.T) {
	if ConfigKey("") != "Columns.Default" || ConfigKey("x") != "Columns.x" {
		t.Fatalf("unexpected keys")
	}
	if name, ok := ConfigNameFromKey("Columns.time_course"); !ok || name != "time_course" {
		t.Fatalf("unexpected name %q", name)
	}
	for _, key := range []string{"Columns.", "Other.x", "x"} {
		if _, ok := ConfigNameFromKey(key); ok {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}
