package command

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/snipkit-go/internal/core/domain"
)

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t)

	r := env.runRaw("", "--config", env.configPath, "config", "init")
	mustSucceed(t, r)
	body := readFile(t, env.configPath)
	for _, w := range []string{"storage:", "backend: json", "theme: monokai"} {
		if !strings.Contains(body, w) {
			t.Errorf("config file missing %q:\n%s", w, body)
		}
	}

	r = env.runRaw("", "--config", env.configPath, "config", "init")
	if !errors.Is(r.err, domain.ErrInvalidArgument) {
		t.Errorf("second init err = %v, want ErrInvalidArgument", r.err)
	}

	mustSucceed(t, env.runRaw("", "--config", env.configPath, "config", "init", "--force"))
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig("backup:\n  passphrase: super-secret-value\neditor:\n  tab_size: 4\n")

	r := env.run("", "config", "show")
	mustSucceed(t, r)
	if strings.Contains(r.stdout, "super-secret-value") {
		t.Errorf("config show leaked the passphrase:\n%s", r.stdout)
	}
	for _, w := range []string{"# " + env.configPath, "tab_size: 4", "path: " + env.docPath} {
		if !strings.Contains(r.stdout, w) {
			t.Errorf("stdout missing %q:\n%s", w, r.stdout)
		}
	}
}

func TestConfigShow_EnvOverride(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("SNIPKIT_EDITOR__THEME", "dracula")

	r := env.run("", "-o", "json", "config", "show")
	mustSucceed(t, r)
	if !strings.Contains(r.stdout, `"dracula"`) {
		t.Errorf("stdout = %s, want env theme", r.stdout)
	}
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("", "config", "path")
	mustSucceed(t, r)
	if got := strings.TrimSpace(r.stdout); got != env.configPath {
		t.Errorf("config path = %q, want %q", got, env.configPath)
	}

	// Without --config the default lives under $HOME.
	r = env.runRaw("", "config", "path")
	mustSucceed(t, r)
	if want := filepath.Join(env.home, ".snipkit", "config.yaml"); strings.TrimSpace(r.stdout) != want {
		t.Errorf("default config path = %q, want %q", strings.TrimSpace(r.stdout), want)
	}
}

func TestConfigValidate(t *testing.T) {
	env := newTestEnv(t)

	good := filepath.Join(t.TempDir(), "good.yaml")
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeTestFile(t, good, "editor:\n  tab_size: 8\n")
	writeTestFile(t, bad, "editor:\n  tab_size: 99\n")

	r := env.run("", "config", "validate", good)
	mustSucceed(t, r)
	if !strings.Contains(r.stdout, "valid") {
		t.Errorf("stdout = %q", r.stdout)
	}

	r = env.run("", "config", "validate", bad)
	if !errors.Is(r.err, domain.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", r.err)
	}

	r = env.run("", "config", "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(r.err, domain.ErrInvalidArgument) {
		t.Errorf("missing file err = %v, want ErrInvalidArgument", r.err)
	}
}

func TestConfigThemes(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("", "config", "themes")
	mustSucceed(t, r)
	if !strings.Contains(r.stdout, "* monokai") {
		t.Errorf("stdout does not mark the current theme:\n%s", r.stdout)
	}
}
