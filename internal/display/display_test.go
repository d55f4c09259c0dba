package display

import "testing"

func TestPrettyName(t *testing.T) {
	tests := []struct {
		namespace string
		want      string
	}{
		{"webapp:app", "Webapp"},
		{"angular-fullstack:app", "Angular Fullstack"},
		{"node_module:all", "Node Module"},
		{"reactNative:app", "React Native"},
		{"plain", "Plain"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			if got := PrettyName(tt.namespace); got != tt.want {
				t.Errorf("PrettyName(%q) = %q, want %q", tt.namespace, got, tt.want)
			}
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fooBar-Baz_Faz", "foo bar baz faz"},
		{"  spaced--out  ", "spaced out"},
		{"myAppGenerator", "my app generator"},
	}

	for _, tt := range tests {
		if got := Humanize(tt.in); got != tt.want {
			t.Errorf("Humanize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNamespaceToName(t *testing.T) {
	if got := NamespaceToName("@acme/api:app"); got != "@acme/api" {
		t.Errorf("NamespaceToName() = %q, want @acme/api", got)
	}
}
