package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"

	appkafka "github.com/Bakar31/ai-task-manager/internal/kafka"
)

func initConfig() {
	viper.SetEnvPrefix("TASKMAN")
	viper.AutomaticEnv()
}

func main() {
	initConfig()

	broker := viper.GetString("KAFKA_BROKER")
	topic := viper.GetString("KAFKA_TOPIC")
	logFile := viper.GetString("KAFKA_LOG_FILE")

	if broker == "" || topic == "" || logFile == "" {
		log.Fatal("KAFKA_BROKER, KAFKA_TOPIC or KAFKA_LOG_FILE is not configured")
	}

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer file.Close()

	logger := log.New(file, "", log.LstdFlags)
	logger.Println("Task event logger started")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: "taskman-event-logger",
	})

	for {
		m, err := r.ReadMessage(context.Background())
		if err != nil {
			logger.Printf("error reading message: %v\n", err)
			continue
		}

		var event appkafka.TaskEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			logger.Printf("[%s] unparsable event: %s\n", time.Now().Format(time.RFC3339), string(m.Value))
			continue
		}

		logger.Printf("[%s] %s task=%s title=%q status=%s\n",
			event.At.Format(time.RFC3339), event.Action, event.Task.ID, event.Task.Title, event.Task.Status)
	}
}
