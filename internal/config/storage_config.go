package config

type Storage struct{}

var _ StorageConfig = Storage{}

// GetDatabaseDriver is "sqlite" or "postgres"
func (Storage) GetDatabaseDriver() string {
	return GetEnv("DATABASE_DRIVER", "sqlite")
}

func (Storage) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}

func (Storage) GetDataFolder() string {
	return GetEnv("FOLDER", "./data")
}

// GetStateStore is "cookie" or "redis"
func (Storage) GetStateStore() string {
	return GetEnv("STATE_STORE", "cookie")
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Storage) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}
