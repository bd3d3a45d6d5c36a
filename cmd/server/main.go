package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kyiku/aggpack/internal/config"
	"github.com/kyiku/aggpack/internal/handler"
	"github.com/kyiku/aggpack/internal/job"
	"github.com/kyiku/aggpack/internal/middleware"
	"github.com/kyiku/aggpack/internal/storage"
)

// S3Adapter adapts AWS S3 client to our interface
type S3Adapter struct {
	client *s3.Client
	bucket string
}

func (a *S3Adapter) GetObject(key string) ([]byte, error) {
	output, err := a.client.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()
	return io.ReadAll(output.Body)
}

func (a *S3Adapter) PutObject(key string, data []byte) error {
	_, err := a.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	return err
}

func (a *S3Adapter) ListObjects(prefix string) ([]string, error) {
	output, err := a.client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: &a.bucket,
		Prefix: &prefix,
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(output.Contents))
	for _, obj := range output.Contents {
		keys = append(keys, *obj.Key)
	}
	return keys, nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	e := echo.New()

	// Middleware
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			e.Logger.Infof("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(middleware.CORSMiddleware(cfg.AllowedOrigin))

	// Initialize dependencies
	jobStore := job.NewStore(cfg.JobTTL)
	jobQueue := job.NewQueue(cfg.MaxQueue)
	worker := job.NewWorker(jobStore, jobQueue)
	go worker.Run(context.Background())

	// S3 artifact storage (optional)
	var artifacts *storage.ArtifactStore
	awsCfg, awsErr := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.AWSRegion))
	if awsErr != nil {
		log.Printf("Warning: Failed to load AWS config: %v (artifact publishing disabled)", awsErr)
	} else if cfg.S3Bucket != "" {
		s3Client := s3.NewFromConfig(awsCfg)
		artifacts = storage.NewArtifactStore(&S3Adapter{client: s3Client, bucket: cfg.S3Bucket}, cfg.CloudfrontDomain)
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler()
	aggregateHandler := handler.NewAggregateHandler(jobStore, jobQueue)
	artifactHandler := handler.NewArtifactHandler(jobStore, artifacts)
	wsHandler := handler.NewWebSocketHandler(jobStore)

	// Optional scenario preset for requests with an empty body
	if cfg.ScenarioPath != "" {
		preset, loadErr := config.LoadScenario(cfg.ScenarioPath)
		if loadErr != nil {
			log.Fatalf("Failed to load scenario preset: %v", loadErr)
		}
		aggregateHandler.SetPreset(preset)
	}

	// Health check (root level for ALB)
	e.GET("/health", healthHandler.Check)

	// WebSocket progress stream
	e.GET("/ws", wsHandler.Connect)

	// API routes
	api := e.Group("/api")
	api.GET("/health", healthHandler.Check)

	// Queue status (debug)
	api.GET("/queue/status", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"queue_length": jobQueue.Len(),
			"job_count":    jobStore.Len(),
		})
	})

	// Generation endpoints
	createLimit := middleware.RateLimitMiddleware(30, time.Minute)
	api.POST("/aggregates", aggregateHandler.Create, createLimit)
	api.GET("/aggregates/:id", aggregateHandler.Get)
	api.POST("/aggregates/:id/cancel", aggregateHandler.Cancel)
	api.POST("/aggregates/:id/partition", aggregateHandler.Partition)

	// Artifact endpoints
	api.GET("/aggregates/:id/render", artifactHandler.Render)
	api.GET("/aggregates/:id/export", artifactHandler.Export)
	api.POST("/aggregates/:id/publish", artifactHandler.Publish)
	api.GET("/aggregates/:id/artifacts", artifactHandler.List)
	api.GET("/aggregates/:id/artifacts/render", artifactHandler.PublishedRender)

	// Log registered endpoints
	log.Println("Registered endpoints:")
	log.Println("  GET  /health")
	log.Println("  GET  /ws")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/queue/status")
	log.Println("  POST /api/aggregates")
	log.Println("  GET  /api/aggregates/:id")
	log.Println("  POST /api/aggregates/:id/cancel")
	log.Println("  POST /api/aggregates/:id/partition")
	log.Println("  GET  /api/aggregates/:id/render")
	log.Println("  GET  /api/aggregates/:id/export")
	log.Println("  POST /api/aggregates/:id/publish")
	log.Println("  GET  /api/aggregates/:id/artifacts")
	log.Println("  GET  /api/aggregates/:id/artifacts/render")

	// Start server
	log.Printf("Starting server on :%s", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
