package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/Bakar31/ai-task-manager/internal/app/commands"
	"github.com/Bakar31/ai-task-manager/internal/app/dispatch"
	"github.com/Bakar31/ai-task-manager/internal/app/models"
	"github.com/Bakar31/ai-task-manager/internal/app/repositories"
	"github.com/Bakar31/ai-task-manager/internal/app/services"
	"github.com/Bakar31/ai-task-manager/internal/kafka"
)

func initConfig() {
	viper.SetEnvPrefix("TASKMAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("report.periods", "daily,weekly,monthly,all")
	viper.SetDefault("default.priority", string(models.PriorityMedium))
	viper.SetDefault("default.status", string(models.StatusTodo))
}

func contractsFromConfig() commands.Contracts {
	contracts := commands.DefaultContracts()

	if periods := viper.GetString("report.periods"); periods != "" {
		contracts.Periods = strings.Split(periods, ",")
		for i := range contracts.Periods {
			contracts.Periods[i] = strings.TrimSpace(contracts.Periods[i])
		}
	}
	if p, ok := models.ParsePriority(viper.GetString("default.priority")); ok {
		contracts.DefaultPriority = p
	}
	if s, ok := models.ParseStatus(viper.GetString("default.status")); ok {
		contracts.DefaultStatus = s
	}

	return contracts
}

func main() {
	initConfig()

	dsn := viper.GetString("postgres.dsn")
	port := viper.GetString("api.port")

	if dsn == "" || port == "" {
		log.Fatal("postgres.dsn or api.port is not configured")
	}

	repo, err := repositories.NewPostgresTaskRepo(dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	var cache repositories.TaskCache
	if addr := viper.GetString("redis.addr"); addr != "" {
		cache = repositories.NewRedisTaskCache(redis.NewClient(&redis.Options{Addr: addr}))
	}

	var events services.EventPublisher
	if broker := viper.GetString("kafka.broker"); broker != "" {
		topic := viper.GetString("kafka.topic")
		if topic == "" {
			log.Fatal("kafka.broker is set but kafka.topic is not")
		}
		producer := kafka.NewProducer(broker, topic)
		defer producer.Close()
		events = producer
	}

	service := services.NewTaskService(repo, cache, events)
	dispatcher := dispatch.New(contractsFromConfig(), service)

	r := setupRouter(dispatcher)

	log.Printf("API started on :%s", port)
	log.Fatal(r.Run(":" + port))
}

func setupRouter(d *dispatch.Dispatcher) *gin.Engine {
	r := gin.Default()

	// Generic entry point: a raw (command, args) pair as the LLM
	// collaborator emits it.
	r.POST("/command", func(c *gin.Context) {
		var req struct {
			Command string         `json:"command"`
			Args    map[string]any `json:"args"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, d.Dispatch(c.Request.Context(), req.Command, req.Args))
	})

	r.POST("/tasks", func(c *gin.Context) {
		var args map[string]any
		if err := c.BindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, d.Dispatch(c.Request.Context(), commands.NameAddTask, args))
	})

	r.GET("/tasks", func(c *gin.Context) {
		if status, ok := c.GetQuery("status"); ok {
			respond(c, d.Dispatch(c.Request.Context(), commands.NameGetTasksByStatus, map[string]any{"status": status}))
			return
		}
		respond(c, d.Dispatch(c.Request.Context(), commands.NameGetAllTasks, nil))
	})

	r.PUT("/tasks/status", func(c *gin.Context) {
		var args map[string]any
		if err := c.BindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, d.Dispatch(c.Request.Context(), commands.NameUpdateTaskStatus, args))
	})

	r.GET("/report", func(c *gin.Context) {
		respond(c, d.Dispatch(c.Request.Context(), commands.NameGenerateTaskReport,
			map[string]any{"period": c.Query("period")}))
	})

	return r
}

func respond(c *gin.Context, out dispatch.Outcome) {
	c.JSON(httpStatus(out), out)
}

func httpStatus(out dispatch.Outcome) int {
	if out.OK {
		return http.StatusOK
	}
	switch out.Error.Kind {
	case dispatch.KindValidation:
		return http.StatusBadRequest
	case dispatch.KindNotFound:
		return http.StatusNotFound
	case dispatch.KindAmbiguous:
		return http.StatusConflict
	case dispatch.KindTimedOut:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
