package compose

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCompose(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadServiceEnvMappingForm(t *testing.T) {
	path := writeCompose(t, `
services:
  azursmartmix_engine:
    image: chourmovs/azursmartmix:latest
    environment:
      ICECAST_HOST: web
      ICECAST_PORT: 8000
      EMPTY_KEY:
  azursmartmix_scheduler:
    image: chourmovs/azursmartmix-scheduler:latest
`)

	res := ReadServiceEnv(path, "azursmartmix_engine")
	if !res.Present || !res.Found {
		t.Fatalf("present=%v found=%v error=%q", res.Present, res.Found, res.Error)
	}
	if res.Environment["ICECAST_HOST"] != "web" {
		t.Errorf("ICECAST_HOST = %q", res.Environment["ICECAST_HOST"])
	}
	if res.Environment["ICECAST_PORT"] != "8000" {
		t.Errorf("ICECAST_PORT = %q, numeric values must stringify", res.Environment["ICECAST_PORT"])
	}
	if v, ok := res.Environment["EMPTY_KEY"]; !ok || v != "" {
		t.Errorf("EMPTY_KEY = %q present=%v, want empty string", v, ok)
	}
	if len(res.AvailableServices) != 2 {
		t.Errorf("available = %v", res.AvailableServices)
	}
}

func TestReadServiceEnvListForm(t *testing.T) {
	path := writeCompose(t, `
services:
  engine:
    environment:
      - A=1
      - B=with=equals
      - INHERITED
`)

	res := ReadServiceEnv(path, "engine")
	if !res.Found {
		t.Fatalf("not found: %q", res.Error)
	}
	if res.Environment["A"] != "1" {
		t.Errorf("A = %q", res.Environment["A"])
	}
	if res.Environment["B"] != "with=equals" {
		t.Errorf("B = %q, split must stop at the first '='", res.Environment["B"])
	}
	if v, ok := res.Environment["INHERITED"]; !ok || v != "" {
		t.Errorf("INHERITED = %q present=%v", v, ok)
	}
}

func TestReadServiceEnvUnknownService(t *testing.T) {
	path := writeCompose(t, "services:\n  engine: {}\n")
	res := ReadServiceEnv(path, "nope")
	if !res.Present || res.Found {
		t.Errorf("present=%v found=%v", res.Present, res.Found)
	}
	if len(res.AvailableServices) != 1 || res.AvailableServices[0] != "engine" {
		t.Errorf("available = %v", res.AvailableServices)
	}
}

func TestReadServiceEnvMissingFile(t *testing.T) {
	res := ReadServiceEnv(filepath.Join(t.TempDir(), "absent.yml"), "engine")
	if res.Present {
		t.Error("missing file must report present=false")
	}
	if res.Error != "compose file not found" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestReadServiceEnvBadYAML(t *testing.T) {
	path := writeCompose(t, "services: [not: a: mapping\n")
	res := ReadServiceEnv(path, "engine")
	if !res.Present || res.Error == "" {
		t.Errorf("present=%v error=%q, want parse failure surfaced", res.Present, res.Error)
	}
}
