package bindx

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-sourced/sourced"
)

type appConfig struct {
	Name    string                       `koanf:"name"`
	Port    sourced.Value[int]           `koanf:"port"`
	Host    sourced.Value[string]        `koanf:"host"`
	Timeout sourced.Value[time.Duration] `koanf:"timeout"`
}

func TestBuildDecodesSourcedFields(t *testing.T) {
	runTestCases(t, []testCase{
		{
			name: "literal and descriptor fields",
			run: func(t *testing.T) {
				input := map[string]any{
					"name": "api",
					"port": 8080,
					"host": map[string]any{"env": "MY_ENV_VAR_FOR_HOST"},
				}
				cfg, err := Build[appConfig](input)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg.Name != "api" {
					t.Fatalf("unexpected name %q", cfg.Name)
				}
				if got, _ := cfg.Port.LiteralValue(); got != 8080 {
					t.Fatalf("unexpected port literal %v", got)
				}
				if name, _ := cfg.Host.EnvVar(); name != "MY_ENV_VAR_FOR_HOST" {
					t.Fatalf("unexpected host descriptor %q", name)
				}
				if cfg.Timeout.IsSet() {
					t.Fatal("absent field should stay unset")
				}
			},
		},
		{
			name: "pointer target",
			run: func(t *testing.T) {
				input := map[string]any{"port": 9090}
				cfg, err := Build[*appConfig](input)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg == nil {
					t.Fatal("expected non-nil pointer result")
				}
				if got, _ := cfg.Port.LiteralValue(); got != 9090 {
					t.Fatalf("unexpected port literal %v", got)
				}
			},
		},
		{
			name: "resolution stays explicit and deferred",
			run: func(t *testing.T) {
				t.Setenv("BINDX_TEST_PORT", "6000")
				input := map[string]any{
					"port": map[string]any{"env": "BINDX_TEST_PORT"},
				}
				cfg, err := Build[appConfig](input)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got, err := cfg.Port.Resolve()
				if err != nil {
					t.Fatalf("unexpected resolve error: %v", err)
				}
				if got != 6000 {
					t.Fatalf("expected 6000, got %d", got)
				}
			},
		},
	})
}

func TestBuildDefaults(t *testing.T) {
	runTestCases(t, []testCase{
		{
			name: "defaults are cloned and overlaid",
			run: func(t *testing.T) {
				defaults := appConfig{
					Name: "fallback",
					Port: sourced.Literal(3000),
				}
				input := map[string]any{"name": "api"}

				cfg, err := Build[appConfig](input, WithDefaults(defaults))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg.Name != "api" {
					t.Fatalf("expected override, got %q", cfg.Name)
				}
				if got, _ := cfg.Port.LiteralValue(); got != 3000 {
					t.Fatalf("expected default port literal 3000, got %v", got)
				}
				if defaults.Name != "fallback" {
					t.Fatal("defaults template should not be mutated")
				}
			},
		},
		{
			name: "default func failure maps to defaults stage",
			run: func(t *testing.T) {
				_, err := Build[appConfig](map[string]any{},
					WithDefaultFunc(func() (appConfig, error) {
						return appConfig{}, fmt.Errorf("boom")
					}),
				)
				if !errors.Is(err, ErrDefaults) {
					t.Fatalf("expected ErrDefaults, got %v", err)
				}
			},
		},
	})
}

func TestBuildStageErrors(t *testing.T) {
	runTestCases(t, []testCase{
		{
			name: "decode failure",
			run: func(t *testing.T) {
				input := map[string]any{
					"port": map[string]any{"from_env": "PORT"},
				}
				_, err := Build[appConfig](input)
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("expected ErrDecode, got %v", err)
				}
				var stage *StageError
				if !errors.As(err, &stage) {
					t.Fatalf("expected StageError, got %T", err)
				}
				if stage.Stage != "decode" {
					t.Fatalf("unexpected stage %q", stage.Stage)
				}
			},
		},
		{
			name: "validate failure",
			run: func(t *testing.T) {
				input := map[string]any{"name": ""}
				_, err := Build[appConfig](input,
					WithValidatorFunc(func(cfg appConfig) error {
						if cfg.Name == "" {
							return fmt.Errorf("name is required")
						}
						return nil
					}),
				)
				if !errors.Is(err, ErrValidate) {
					t.Fatalf("expected ErrValidate, got %v", err)
				}
			},
		},
		{
			name: "duplicate validator",
			run: func(t *testing.T) {
				noop := func(*appConfig) error { return nil }
				_, err := Build[appConfig](map[string]any{},
					WithValidator(noop),
					WithValidator(noop),
				)
				if !errors.Is(err, ErrOption) {
					t.Fatalf("expected ErrOption, got %v", err)
				}
			},
		},
		{
			name: "strict keys reject unknown fields",
			run: func(t *testing.T) {
				input := map[string]any{"name": "api", "unknown": true}
				_, err := Build[appConfig](input, WithStrictKeys[appConfig]())
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("expected ErrDecode, got %v", err)
				}
			},
		},
	})
}

func TestBuildTagName(t *testing.T) {
	type tagged struct {
		Addr sourced.Value[string] `conf:"addr"`
	}

	input := map[string]any{
		"addr": map[string]any{"env": "ADDR"},
	}
	cfg, err := Build[tagged](input, WithTagName[tagged]("conf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name, _ := cfg.Addr.EnvVar(); name != "ADDR" {
		t.Fatalf("unexpected descriptor %q", name)
	}
}
