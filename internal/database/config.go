package database

type Config struct {
	// Path to the bbolt database file
	FilePath string `envconfig:"IMPOSTOR_DB_FILE_PATH" default:"impostor.db"`
}
