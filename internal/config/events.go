package config

import "os"

type EventsConfig struct {
	AmqpURL string
	Queue   string
}

func NewEventsConfig() *EventsConfig {
	return &EventsConfig{
		AmqpURL: os.Getenv("AMQP_URL"),
		Queue:   getEnv("VERDICT_QUEUE", "submission_verdicts"),
	}
}
