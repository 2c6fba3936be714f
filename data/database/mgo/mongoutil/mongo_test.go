package mongoutil

import (
	"strings"
	"testing"
)

func TestValidateAndSetDefaultsBuildsURIWithoutCredentials(t *testing.T) {
	c := &Config{Address: []string{"localhost:27017"}, Database: "socialApp"}
	if err := c.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if strings.Contains(c.Uri, "@") {
		t.Fatalf("credential-less uri must not carry a userinfo segment: %q", c.Uri)
	}
	if !strings.HasPrefix(c.Uri, "mongodb://localhost:27017/socialApp") {
		t.Fatalf("uri = %q", c.Uri)
	}
	if c.MaxPoolSize != defaultMaxPoolSize || c.MaxRetry != defaultMaxRetry {
		t.Fatalf("defaults not applied: pool=%d retry=%d", c.MaxPoolSize, c.MaxRetry)
	}
}

func TestValidateAndSetDefaultsBuildsURIWithCredentials(t *testing.T) {
	c := &Config{
		Address:  []string{"mongo-a:27017", "mongo-b:27017"},
		Database: "socialApp",
		Username: "root",
		Password: "p@ss/word",
	}
	if err := c.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	// 凭证要转义，authSource 缺省落到库名
	if !strings.Contains(c.Uri, "root:p%40ss%2Fword@mongo-a:27017,mongo-b:27017") {
		t.Fatalf("uri = %q", c.Uri)
	}
	if !strings.Contains(c.Uri, "authSource=socialApp") {
		t.Fatalf("uri = %q", c.Uri)
	}
}

func TestValidateRequiresDatabase(t *testing.T) {
	c := &Config{Address: []string{"localhost:27017"}}
	if err := c.ValidateAndSetDefaults(); err == nil {
		t.Fatal("expected error for missing database")
	}
}
