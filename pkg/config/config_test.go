package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Set test environment variables
	os.Setenv("MONGO_URI", "mongodb://testhost:27017")
	os.Setenv("MONGO_DB", "testdb")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("NEWS_API_KEY", "pub_test")
	os.Setenv("NEWS_LOCALE", "en")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.NotNil(t, cfg)
	assert.Equal(t, "mongodb://testhost:27017", cfg.MongoURI)
	assert.Equal(t, "testdb", cfg.MongoDB)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "pub_test", cfg.NewsAPIKey)
	assert.Equal(t, "en", cfg.NewsLocale)

	// Cleanup
	os.Unsetenv("MONGO_URI")
	os.Unsetenv("MONGO_DB")
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("REDIS_PORT")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("NEWS_API_KEY")
	os.Unsetenv("NEWS_LOCALE")
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("MONGO_URI")
	os.Unsetenv("MONGO_DB")
	os.Unsetenv("NEWS_LOCALE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.NotNil(t, cfg)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "codeshareforum", cfg.MongoDB)
	assert.Equal(t, "he", cfg.NewsLocale)
	assert.Equal(t, "https://newsdata.io/api/1/news", cfg.NewsBaseURL)
}

func TestLoadConfig_RedisDBParse(t *testing.T) {
	os.Setenv("REDIS_DB", "3")
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 3, cfg.RedisDB)

	os.Setenv("REDIS_DB", "not-a-number")
	cfg, err = Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, cfg.RedisDB)

	os.Unsetenv("REDIS_DB")
}
