package config

import (
	"os"
	"strconv"
)

type HTTPConfig struct {
	Port        int
	MetricsPort int
}

func NewHTTPConfig() *HTTPConfig {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}
	metricsPort, err := strconv.Atoi(os.Getenv("METRICS_PORT"))
	if err != nil {
		metricsPort = 9090
	}
	return &HTTPConfig{
		Port:        port,
		MetricsPort: metricsPort,
	}
}
