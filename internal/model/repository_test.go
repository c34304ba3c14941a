package model

import (
	"errors"
	"testing"
)

func TestParseRepositoryRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RepositoryRef
		wantErr bool
	}{
		{"valid", "acme/widgets", RepositoryRef{Owner: "acme", Name: "widgets"}, false},
		{"valid with dots and dashes", "my-org/repo.js", RepositoryRef{Owner: "my-org", Name: "repo.js"}, false},
		{"missing slash", "acmewidgets", RepositoryRef{}, true},
		{"empty owner", "/widgets", RepositoryRef{}, true},
		{"empty name", "acme/", RepositoryRef{}, true},
		{"too many segments", "acme/widgets/extra", RepositoryRef{}, true},
		{"empty string", "", RepositoryRef{}, true},
		{"lone slash", "/", RepositoryRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepositoryRef(tt.input)
			if tt.wantErr {
				var malformed *MalformedRepoError
				if !errors.As(err, &malformed) {
					t.Fatalf("ParseRepositoryRef(%q) error = %v, want MalformedRepoError", tt.input, err)
				}
				if malformed.Input != tt.input {
					t.Errorf("error Input = %q, want %q", malformed.Input, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepositoryRef(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRepositoryRef(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepositoryRefString(t *testing.T) {
	ref := RepositoryRef{Owner: "acme", Name: "widgets"}
	if got := ref.String(); got != "acme/widgets" {
		t.Errorf("String() = %q, want acme/widgets", got)
	}
}
