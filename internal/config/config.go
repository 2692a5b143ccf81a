package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load charge le fichier .env (ignoré s'il est absent, ex: en production)
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aucun fichier .env trouvé, utilisation des variables d'environnement")
	}
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("⚠️ Valeur invalide pour %s, fallback %.2f", key, fallback)
	}
	return fallback
}
