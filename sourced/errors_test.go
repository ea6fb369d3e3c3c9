package sourced

import (
	goerrors "errors"
	"strings"
	"testing"

	"github.com/goliatone/go-errors"
)

func TestErrorPredicates(t *testing.T) {
	t.Run("disjoint kinds", func(t *testing.T) {
		missing := missingEnvError("HOST")
		if !IsMissingEnvVar(missing) || IsParseFailure(missing) || IsNoSource(missing) {
			t.Error("missing env error should only match IsMissingEnvVar")
		}

		noSource := noSourceError()
		if !IsNoSource(noSource) || IsMissingEnvVar(noSource) {
			t.Error("no-source error should only match IsNoSource")
		}

		invalid := invalidDescriptorError([]string{"other"})
		if !IsDeserialization(invalid) || IsMissingEnvVar(invalid) {
			t.Error("descriptor error should only match IsDeserialization")
		}
	})

	t.Run("plain errors never match", func(t *testing.T) {
		err := goerrors.New("boom")
		if IsMissingEnvVar(err) || IsParseFailure(err) || IsNoSource(err) || IsDeserialization(err) {
			t.Error("stdlib errors should not match any predicate")
		}
	})

	t.Run("nil never matches", func(t *testing.T) {
		if IsMissingEnvVar(nil) || IsNoSource(nil) {
			t.Error("nil should not match any predicate")
		}
	})
}

func TestResolutionErrorMetadata(t *testing.T) {
	t.Setenv("SOURCED_TEST_BAD_INT", "abc")
	_, err := Env[int]("SOURCED_TEST_BAD_INT").Resolve()
	if err == nil {
		t.Fatal("expected parse failure")
	}

	var rich *errors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error, got %T", err)
	}
	if rich.TextCode != TextCodeEnvParse {
		t.Errorf("expected %s, got %s", TextCodeEnvParse, rich.TextCode)
	}
	if rich.Metadata["env_var"] != "SOURCED_TEST_BAD_INT" {
		t.Errorf("expected env_var metadata, got %v", rich.Metadata["env_var"])
	}
	if rich.Metadata["raw_value"] != "abc" {
		t.Errorf("expected raw_value metadata, got %v", rich.Metadata["raw_value"])
	}
	if !strings.Contains(rich.Metadata["target_type"].(string), "int") {
		t.Errorf("expected target_type metadata, got %v", rich.Metadata["target_type"])
	}
}
