package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

const (
	StorageAzure = "azure"
	StorageMinio = "minio"
)

type Config struct {
	Storage *StorageCfg
	Http    *HTTPConfig
	Db      *PGDBCfg
	Redis   *RedisCfg
	Kafka   *KafkaCfg
}

type StorageCfg struct {
	Backend string
	Azure   *AzureBlobCfg
	Minio   *MinIOCfg
}

type AzureBlobCfg struct {
	ConnectionString string // Строка подключения к аккаунту хранилища
	ContainerName    string
	AccountName      string
	StorageDomain    string // blob.core.windows.net
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN собирает строку подключения в формате URL. Значения экранируются,
// поэтому пароль может содержать пробелы, @ и другие спецсимволы.
func (c *PGDBCfg) DSN() string {
	query := url.Values{}
	if c.SSLMode != "" {
		query.Set("sslmode", c.SSLMode)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: query.Encode(),
	}

	return u.String()
}

type RedisCfg struct {
	Enabled     bool
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ProductsTTL time.Duration
}

type KafkaCfg struct {
	Enabled bool
	Topic   string
	Brokers []string
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Значения из .env (если файл есть) не перекрывают уже заданные переменные окружения.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storage, err := loadStorageCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Storage: storage,
		Http:    http,
		Db:      db,
		Redis:   redis,
		Kafka:   kafka,
	}, nil
}

func loadStorageCfg(log logger.Logger) (*StorageCfg, error) {
	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageAzure))

	switch backend {
	case StorageAzure:
		azure, err := loadAzureBlobCfg(log)
		if err != nil {
			return nil, err
		}
		return &StorageCfg{Backend: backend, Azure: azure}, nil
	case StorageMinio:
		minio, err := loadMinIOCfg(log)
		if err != nil {
			return nil, err
		}
		return &StorageCfg{Backend: backend, Minio: minio}, nil
	default:
		err := fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
		log.Errorf(err, "invalid STORAGE_BACKEND")
		return nil, err
	}
}

func loadAzureBlobCfg(log logger.Logger) (*AzureBlobCfg, error) {
	const defaultStorageDomain = "blob.core.windows.net"

	required := []string{"BLOB_CONNECTION_STRING", "BLOB_CONTAINER_NAME", "BLOB_ACCOUNT_NAME"}
	for _, key := range required {
		if getEnv(key) == "" {
			err := fmt.Errorf("%s is required", key)
			log.Errorf(err, "missing %s", key)
			return nil, err
		}
	}

	return &AzureBlobCfg{
		ConnectionString: getEnv("BLOB_CONNECTION_STRING"),
		ContainerName:    getEnv("BLOB_CONTAINER_NAME"),
		AccountName:      getEnv("BLOB_ACCOUNT_NAME"),
		StorageDomain:    getEnvOrDefault("BLOB_STORAGE_DOMAIN", defaultStorageDomain),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := parseBoolEnv("MINIO_USE_SSL", defaultUseSSL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	bucket := getEnv("BUCKET_NAME")
	if bucket == "" {
		err := fmt.Errorf("BUCKET_NAME is required")
		log.Errorf(err, "missing BUCKET_NAME")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        bucket,
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 15 * time.Second
		defaultWriteTimeout = 60 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	for _, key := range []string{"SQL_DATABASE", "SQL_USER", "SQL_PASSWORD"} {
		if getEnv(key) == "" {
			err := fmt.Errorf("%s is required", key)
			log.Errorf(err, "missing %s", key)
			return nil, err
		}
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("SQL_SERVER", defaultHost),
		Port:     getEnvOrDefault("SQL_PORT", defaultPort),
		User:     getEnv("SQL_USER"),
		Password: getEnv("SQL_PASSWORD"),
		DBName:   getEnv("SQL_DATABASE"),
		SSLMode:  getEnvOrDefault("SQL_SSL_MODE", defaultSSLMode),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultDB          = 0
		defaultMaxRetries  = 3
		defaultDialTimeout = 5 * time.Second
		defaultTimeout     = 3 * time.Second
		defaultProductsTTL = time.Minute
	)

	addr := getEnv("REDIS_ADDR")
	if addr == "" {
		return &RedisCfg{Enabled: false}, nil
	}

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("REDIS_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid REDIS_MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DIAL_TIMEOUT")
		return nil, err
	}

	timeout, err := parseDurationEnv("REDIS_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_TIMEOUT")
		return nil, err
	}

	productsTTL, err := parseDurationEnv("PRODUCTS_TTL", defaultProductsTTL)
	if err != nil {
		log.Errorf(err, "invalid PRODUCTS_TTL")
		return nil, err
	}

	return &RedisCfg{
		Enabled:     true,
		Addr:        addr,
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ProductsTTL: productsTTL,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const defaultTopic = "products.created"

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return &KafkaCfg{Enabled: false}, nil
	}

	brokers := make([]string, 0)
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS has no valid addresses")
	}

	return &KafkaCfg{
		Enabled: true,
		Brokers: brokers,
		Topic:   getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	boolValue, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return boolValue, nil
}
