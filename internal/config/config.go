package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type ConfigStruct struct {
	Host string
	Port int

	// Room eviction tuning, both in seconds.
	RoomCleanupInterval int
	RoomIdleTimeout     int
}

var Config *ConfigStruct

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	toInt := func(envVar string, defaultVal int) int {
		valStr := os.Getenv(envVar)
		if valStr == "" {
			return defaultVal
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			log.Printf("Invalid value for %s: %v\n", envVar, err)
			return defaultVal
		}
		return val
	}

	Config = &ConfigStruct{
		Host: os.Getenv("HOST"),
		Port: toInt("PORT", 8080),

		RoomCleanupInterval: toInt("ROOM_CLEANUP_INTERVAL", 10),
		RoomIdleTimeout:     toInt("ROOM_IDLE_TIMEOUT", 60),
	}
}
