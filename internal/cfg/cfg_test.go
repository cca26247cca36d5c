package cfg

import (
	"net/url"
	"testing"
	"time"

	"github.com/DRSN-tech/product-catalog/pkg/logger"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BLOB_CONNECTION_STRING", "DefaultEndpointsProtocol=https;AccountName=acc;AccountKey=a2V5;EndpointSuffix=core.windows.net")
	t.Setenv("BLOB_CONTAINER_NAME", "produtos")
	t.Setenv("BLOB_ACCOUNT_NAME", "acc")
	t.Setenv("SQL_DATABASE", "catalog")
	t.Setenv("SQL_USER", "catalog")
	t.Setenv("SQL_PASSWORD", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")

	c, err := Load(logger.Discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Storage.Backend != StorageAzure {
		t.Errorf("backend = %q, want %q", c.Storage.Backend, StorageAzure)
	}
	if c.Storage.Azure.StorageDomain != "blob.core.windows.net" {
		t.Errorf("storage domain = %q", c.Storage.Azure.StorageDomain)
	}
	if c.Db.Host != "localhost" || c.Db.Port != "5432" || c.Db.SSLMode != "disable" {
		t.Errorf("unexpected db defaults: %+v", c.Db)
	}
	if c.Http.Port != "8080" || c.Http.IdleTimeout != 60*time.Second {
		t.Errorf("unexpected http defaults: %+v", c.Http)
	}
	if c.Redis.Enabled {
		t.Error("redis should be disabled without REDIS_ADDR")
	}
	if c.Kafka.Enabled {
		t.Error("kafka should be disabled without KAFKA_BROKERS")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"blob connection string", "BLOB_CONNECTION_STRING"},
		{"blob container", "BLOB_CONTAINER_NAME"},
		{"blob account", "BLOB_ACCOUNT_NAME"},
		{"sql database", "SQL_DATABASE"},
		{"sql user", "SQL_USER"},
		{"sql password", "SQL_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			if _, err := Load(logger.Discard()); err == nil {
				t.Fatalf("expected error when %s is empty", tt.unset)
			}
		})
	}
}

func TestLoadMinioBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("BUCKET_NAME", "products")
	t.Setenv("MINIO_USE_SSL", "true")

	c, err := Load(logger.Discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Storage.Minio == nil || c.Storage.Minio.BucketName != "products" || !c.Storage.Minio.MinioUseSSL {
		t.Fatalf("unexpected minio cfg: %+v", c.Storage.Minio)
	}
	if c.Storage.Azure != nil {
		t.Error("azure cfg must be nil for the minio backend")
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "ftp")

	if _, err := Load(logger.Discard()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadOptionalServices(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PRODUCTS_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	c, err := Load(logger.Discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Redis.Enabled || c.Redis.ProductsTTL != 30*time.Second {
		t.Errorf("unexpected redis cfg: %+v", c.Redis)
	}
	if !c.Kafka.Enabled || len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("unexpected kafka cfg: %+v", c.Kafka)
	}
	if c.Kafka.Topic != "products.created" {
		t.Errorf("topic = %q", c.Kafka.Topic)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	if _, err := Load(logger.Discard()); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestDSNEscapesValues(t *testing.T) {
	c := &PGDBCfg{
		Host:     "db.internal",
		Port:     "5432",
		User:     "catalog",
		Password: "p@ss word/'x",
		DBName:   "catalog",
		SSLMode:  "require",
	}

	u, err := url.Parse(c.DSN())
	if err != nil {
		t.Fatalf("DSN is not a valid url: %v", err)
	}

	if pass, _ := u.User.Password(); pass != c.Password {
		t.Errorf("password = %q, want %q", pass, c.Password)
	}
	if u.User.Username() != "catalog" || u.Host != "db.internal:5432" || u.Path != "/catalog" {
		t.Errorf("unexpected dsn parts: %s", c.DSN())
	}
	if got := u.Query().Get("sslmode"); got != "require" {
		t.Errorf("sslmode = %q", got)
	}
}
