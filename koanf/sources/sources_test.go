package sources

import (
	"testing"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTree(t *testing.T, values map[string]any) *koanf.Koanf {
	t.Helper()
	k := koanf.New(".")
	require.NoError(t, k.Load(confmap.Provider(values, "."), nil))
	return k
}

func TestScan(t *testing.T) {
	k := loadTree(t, map[string]any{
		"name": "api",
		"port": 8080,
		"database": map[string]any{
			"dsn":  map[string]any{"env": "DATABASE_URL"},
			"pool": 10,
		},
		"labels": []any{"cache", "primary"},
	})

	declared := Scan(k)

	assert.Equal(t, []Declared{
		{Key: "database.dsn", Origin: OriginEnv, EnvVar: "DATABASE_URL"},
		{Key: "database.pool", Origin: OriginLiteral},
		{Key: "labels", Origin: OriginLiteral},
		{Key: "name", Origin: OriginLiteral},
		{Key: "port", Origin: OriginLiteral},
	}, declared)
}

func TestScan_DescriptorShapeOnly(t *testing.T) {
	k := loadTree(t, map[string]any{
		// env key plus extra keys is a plain mapping, not a descriptor
		"broken": map[string]any{"env": "X", "other": 1},
	})

	declared := Scan(k)

	assert.Equal(t, []Declared{
		{Key: "broken.env", Origin: OriginLiteral},
		{Key: "broken.other", Origin: OriginLiteral},
	}, declared)
}

func TestScan_NilAndEmpty(t *testing.T) {
	assert.Nil(t, Scan(nil))
	assert.Empty(t, Scan(loadTree(t, map[string]any{})))
}

func TestUnresolvable(t *testing.T) {
	k := loadTree(t, map[string]any{
		"host":    map[string]any{"env": "PRESENT_VAR"},
		"secret":  map[string]any{"env": "ABSENT_VAR"},
		"port":    8080,
		"another": map[string]any{"env": "ALSO_ABSENT"},
	})

	table := map[string]string{"PRESENT_VAR": "db.internal"}
	lookup := func(name string) (string, bool) {
		val, ok := table[name]
		return val, ok
	}

	missing := Unresolvable(k, lookup)

	assert.Equal(t, []Declared{
		{Key: "another", Origin: OriginEnv, EnvVar: "ALSO_ABSENT"},
		{Key: "secret", Origin: OriginEnv, EnvVar: "ABSENT_VAR"},
	}, missing)
}

func TestUnresolvable_DefaultLookup(t *testing.T) {
	t.Setenv("SOURCES_TEST_PRESENT", "1")

	k := loadTree(t, map[string]any{
		"present": map[string]any{"env": "SOURCES_TEST_PRESENT"},
	})

	assert.Empty(t, Unresolvable(k, nil))
}
