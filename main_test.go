package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestFallbackToEnv(t *testing.T) {
	t.Setenv("GEOTOPICS_INPUT", "/data/corpus.txt")

	v := ""
	fallbackToEnv(&v, "GEOTOPICS_INPUT")
	assert.Equal(t, "/data/corpus.txt", v)

	// a value given on the command line wins over the environment
	v = "explicit"
	fallbackToEnv(&v, "GEOTOPICS_INPUT")
	assert.Equal(t, "explicit", v)

	v = ""
	fallbackToEnv(&v, "GEOTOPICS_UNSET")
	assert.Equal(t, "", v)
}

// a value sourced from a .env file must reach a flag that was left at
// its empty default, which requires the fallback to run after both
// godotenv.Load and flag.Parse
func TestEnvFileDefaults(t *testing.T) {
	fn := filepath.Join(t.TempDir(), ".env")
	assert.NoError(t, os.WriteFile(fn, []byte("GEOTOPICS_GAZETTEER=/data/places.db\n"), 0644))

	t.Setenv("GEOTOPICS_GAZETTEER", "")
	os.Unsetenv("GEOTOPICS_GAZETTEER")

	assert.NoError(t, godotenv.Load(fn))

	v := ""
	fallbackToEnv(&v, "GEOTOPICS_GAZETTEER")
	assert.Equal(t, "/data/places.db", v)
}
