package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadServer_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"addr": ":7000", "vault": "/srv/vault", "workers": 8}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	opts := ServerOptions{Addr: DefaultAddr, Vault: "./", Workers: DefaultWorkers}
	if err := LoadServer(path, &opts); err != nil {
		t.Fatalf("LoadServer failed: %v", err)
	}

	if opts.Addr != ":7000" {
		t.Errorf("Addr = %q; want %q", opts.Addr, ":7000")
	}
	if opts.Vault != "/srv/vault" {
		t.Errorf("Vault = %q; want %q", opts.Vault, "/srv/vault")
	}
	if opts.Workers != 8 {
		t.Errorf("Workers = %d; want 8", opts.Workers)
	}
}

func TestLoadServer_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"addr": ":7000"}`), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("PASSSECURE_ADDR", ":9000")
	t.Setenv("PASSSECURE_WORKERS", "3")

	opts := ServerOptions{Addr: DefaultAddr, Workers: DefaultWorkers}
	if err := LoadServer(path, &opts); err != nil {
		t.Fatalf("LoadServer failed: %v", err)
	}

	if opts.Addr != ":9000" {
		t.Errorf("Addr = %q; want env override %q", opts.Addr, ":9000")
	}
	if opts.Workers != 3 {
		t.Errorf("Workers = %d; want env override 3", opts.Workers)
	}
}

func TestLoadServer_MissingFileIsNotAnError(t *testing.T) {
	opts := ServerOptions{Addr: DefaultAddr}
	if err := LoadServer(filepath.Join(t.TempDir(), "nope.json"), &opts); err != nil {
		t.Fatalf("LoadServer with missing file = %v; want nil", err)
	}
	if opts.Addr != DefaultAddr {
		t.Errorf("Addr = %q; want untouched default", opts.Addr)
	}
}

func TestLoadServer_BadWorkersEnv(t *testing.T) {
	t.Setenv("PASSSECURE_WORKERS", "many")

	opts := ServerOptions{}
	if err := LoadServer("", &opts); err == nil {
		t.Error("LoadServer accepted a non-numeric PASSSECURE_WORKERS")
	}
}

func TestLoadClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"addr": "vault.internal:6433"}`), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	opts := ClientOptions{Addr: "localhost:6433"}
	if err := LoadClient(path, &opts); err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if opts.Addr != "vault.internal:6433" {
		t.Errorf("Addr = %q; want %q", opts.Addr, "vault.internal:6433")
	}
}

func TestDecodeSalt(t *testing.T) {
	salt, err := DecodeSalt("c93678")
	if err != nil {
		t.Fatalf("DecodeSalt failed: %v", err)
	}
	if len(salt) != 3 || salt[0] != 0xc9 {
		t.Errorf("DecodeSalt = %x; want c93678", salt)
	}

	if salt, err := DecodeSalt(""); err != nil || salt != nil {
		t.Errorf("DecodeSalt(\"\") = %x, %v; want nil, nil", salt, err)
	}

	if _, err := DecodeSalt("zz"); err == nil {
		t.Error("DecodeSalt accepted non-hex input")
	}
}
