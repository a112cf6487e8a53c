package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	DB        DBConfig
	Redis     RedisConfig
	Firestore FirestoreConfig
	Search    SearchConfig
}

type DBConfig struct {
	User     string
	Password string
	DBName   string
	SSLMode  string
	Host     string
	Port     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirestoreConfig struct {
	ProjectID string
}

type SearchConfig struct {
	// Backend selects the document store: "postgres", "redis" or
	// "firestore".
	Backend string
	// Collection is the table, keyspace or collection holding places.
	Collection string
	// GeoField is the dotted path to the stored GeoData on each document.
	GeoField string
}

var Cfg *Config

func InitConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("search.backend", "postgres")
	viper.SetDefault("search.collection", "places")
	viper.SetDefault("search.geofield", "location")

	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	err = viper.Unmarshal(&Cfg)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
