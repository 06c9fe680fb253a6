package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"attempt-service/internal/db"
	"attempt-service/internal/event"
	"attempt-service/internal/handlers"
	"attempt-service/internal/repository"
	"attempt-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.Publisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, attempt events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database("attempt_service")

	// Questions
	questionRepo := repository.NewQuestionRepository(database)
	questionService := service.NewQuestionService(questionRepo)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Exams
	examRepo := repository.NewExamRepository(database)
	examService := service.NewExamService(examRepo)
	examHandler := handlers.NewExamHandler(examService)

	// Attempts
	attemptRepo := repository.NewAttemptRepository(database)
	attemptService := service.NewAttemptService(attemptRepo, examRepo, questionRepo)

	// Interaction events
	interactionRepo := repository.NewInteractionRepository(database)
	interactionService := service.NewInteractionService(interactionRepo)

	// Reports
	resultRepo := repository.NewResultRepository(database)
	resultService := service.NewResultService(resultRepo, examRepo, interactionRepo)
	resultHandler := handlers.NewResultHandler(resultService, attemptService)

	// An interface holding a nil *event.Publisher is not itself nil, so the
	// handler only gets the publisher when one was actually connected.
	var emitter handlers.EventPublisher
	if publisher != nil {
		emitter = publisher
	}
	attemptHandler := handlers.NewAttemptHandler(attemptService, resultService, interactionService, emitter)

	// Public routes - Exams
	publicExam := r.Group("/public/exam")
	{
		publicExam.GET("/", examHandler.ListExams)
		publicExam.GET("/:id", examHandler.GetExam)
	}

	publicQuestion := r.Group("/public/question")
	{
		publicQuestion.GET("/", questionHandler.ListQuestions)
		publicQuestion.GET("/:id", questionHandler.GetQuestion)
	}

	// Protected routes - content management
	protectedQuestion := r.Group("/protected/question")
	{
		protectedQuestion.POST("/", questionHandler.CreateQuestion)
		protectedQuestion.POST("/bulk", questionHandler.BulkImport)
		protectedQuestion.PUT("/:id", questionHandler.UpdateQuestion)
		protectedQuestion.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	protectedExam := r.Group("/protected/exam")
	{
		protectedExam.POST("/", examHandler.CreateExam)
		protectedExam.PUT("/:id", examHandler.UpdateExam)
	}

	publicUser := r.Group("/public/user")
	{
		publicUser.GET("/:id/attempts", attemptHandler.ListByUser)
		publicUser.GET("/:id/reports", resultHandler.ListByUser)
	}

	setupAttemptRoutes(r, attemptHandler, resultHandler, publisher)

	r.Run(":6660")
}

func setupAttemptRoutes(r *gin.Engine, attemptHandler *handlers.AttemptHandler, resultHandler *handlers.ResultHandler, publisher *event.Publisher) {
	protectedAttempt := r.Group("/protected/attempt")

	protectedAttempt.Use(func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	})

	{
		// === LIFECYCLE ===

		protectedAttempt.POST("/", func(c *gin.Context) {
			attemptHandler.CreateAttempt(c)
			if publisher != nil {
				publisher.Publish(event.AttemptCreated, gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedAttempt.POST("/:id/start", func(c *gin.Context) {
			attemptHandler.StartAttempt(c)
			if publisher != nil {
				publisher.Publish(event.AttemptStarted, gin.H{
					"attempt_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
					"timestamp":  time.Now(),
				})
			}
		})

		protectedAttempt.POST("/:id/submit", func(c *gin.Context) {
			attemptHandler.Submit(c)
			if publisher != nil {
				publisher.Publish(event.AttemptSubmitted, gin.H{
					"attempt_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
					"timestamp":  time.Now(),
				})
			}
		})

		// === IN-ATTEMPT INTERACTION ===

		protectedAttempt.POST("/:id/navigate", attemptHandler.Navigate)
		protectedAttempt.POST("/:id/answer", func(c *gin.Context) {
			attemptHandler.RecordAnswer(c)
			if publisher != nil {
				publisher.Publish(event.AttemptAnswerRecorded, gin.H{
					"attempt_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
					"timestamp":  time.Now(),
				})
			}
		})
		protectedAttempt.POST("/:id/mark", attemptHandler.ToggleMark)
		protectedAttempt.POST("/:id/tick", attemptHandler.Tick)
		protectedAttempt.POST("/:id/events", attemptHandler.IngestEvents)

		// === STATE AND REVIEW ===

		protectedAttempt.GET("/:id", attemptHandler.GetAttempt)
		protectedAttempt.GET("/:id/review", attemptHandler.Review)
		protectedAttempt.GET("/:id/report", func(c *gin.Context) {
			resultHandler.GetReport(c)
			if publisher != nil {
				publisher.Publish(event.ReportRequested, gin.H{
					"attempt_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
					"timestamp":  time.Now(),
				})
			}
		})
		protectedAttempt.GET("/:id/snapshot", resultHandler.Snapshot)
	}
}
