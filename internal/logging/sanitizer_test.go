package logging

import (
	"reflect"
	"strings"
	"testing"
)

func TestSanitizer_Sanitize(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name       string
		input      string
		mustHide   []string
		mustRemain []string
	}{
		{
			name:       "password flag",
			input:      "running dht_crawler --password hunter2 --metadata abc",
			mustHide:   []string{"hunter2"},
			mustRemain: []string{"--password", "--metadata abc"},
		},
		{
			name:     "user and database flags",
			input:    "--user alice --database crawler_db",
			mustHide: []string{"alice", "crawler_db"},
		},
		{
			name:     "flag with equals sign",
			input:    "--password=topsecret",
			mustHide: []string{"topsecret"},
		},
		{
			name:       "mysql dsn",
			input:      "dsn crawler:s3cr3t@tcp(127.0.0.1:3306)/meta",
			mustHide:   []string{"s3cr3t"},
			mustRemain: []string{"crawler:", "@tcp("},
		},
		{
			name:     "free-form password",
			input:    `config: password: "swordfish1"`,
			mustHide: []string{"swordfish1"},
		},
		{
			name:       "clean line unchanged",
			input:      "DHT Bootstrap completed",
			mustRemain: []string{"DHT Bootstrap completed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			for _, secret := range tt.mustHide {
				if strings.Contains(got, secret) {
					t.Errorf("Sanitize(%q) = %q, still contains %q", tt.input, got, secret)
				}
			}
			for _, keep := range tt.mustRemain {
				if !strings.Contains(got, keep) {
					t.Errorf("Sanitize(%q) = %q, lost %q", tt.input, got, keep)
				}
			}
		})
	}
}

func TestSanitizer_SanitizeArgs(t *testing.T) {
	s := NewSanitizer()

	args := []string{
		"./dht_crawler",
		"--user", "alice",
		"--password", "hunter2",
		"--database", "crawler_db",
		"--metadata", "00009643dee7016aa207644c782918db9fe39f86",
		"--debug",
	}
	got := s.SanitizeArgs(args)

	want := []string{
		"./dht_crawler",
		"--user", "[REDACTED]",
		"--password", "[REDACTED]",
		"--database", "[REDACTED]",
		"--metadata", "00009643dee7016aa207644c782918db9fe39f86",
		"--debug",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeArgs() = %v, want %v", got, want)
	}

	// The input slice must not be mutated.
	if args[4] != "hunter2" {
		t.Error("SanitizeArgs mutated its input")
	}
}

func TestSanitizer_SanitizeArgsTrailingFlag(t *testing.T) {
	s := NewSanitizer()
	// A secret flag with no following value must not panic.
	got := s.SanitizeArgs([]string{"--password"})
	if !reflect.DeepEqual(got, []string{"--password"}) {
		t.Errorf("SanitizeArgs() = %v", got)
	}
}

func TestSanitizer_AddPattern(t *testing.T) {
	s := NewSanitizer()
	if err := s.AddPattern(`(secret=)\S+`); err != nil {
		t.Fatalf("AddPattern() error = %v", err)
	}
	if got := s.Sanitize("secret=xyz"); strings.Contains(got, "xyz") {
		t.Errorf("Sanitize() = %q, custom pattern not applied", got)
	}

	if err := s.AddPattern(`(unclosed`); err == nil {
		t.Error("AddPattern() accepted an invalid pattern")
	}
}
