package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/taskmaster/modules/api"
	"github.com/example/taskmaster/modules/auth"
	"github.com/example/taskmaster/modules/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== TaskMaster ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule()) // Provides auth services
	app.Register(task.NewModule()) // Provides task services
	app.Register(api.NewModule())  // Depends on auth and task modules

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/register  - Register a new user")
	log.Println("  POST   /api/auth/login     - Login and get tokens")
	log.Println("  POST   /api/auth/refresh   - Refresh access token")
	log.Println("  GET    /health             - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /api/tasks                               - Create a task")
	log.Println("  GET    /api/tasks                               - List tasks (filter/sort/paginate)")
	log.Println("  GET    /api/tasks/search                        - Search tasks by text")
	log.Println("  GET    /api/tasks/:id                           - Get a task")
	log.Println("  PUT    /api/tasks/:id                           - Update a task")
	log.Println("  DELETE /api/tasks/:id                           - Delete a task")
	log.Println("  POST   /api/tasks/:taskId/subtasks              - Add a sub-task")
	log.Println("  GET    /api/tasks/:taskId/subtasks/:subTaskId   - Get a sub-task")
	log.Println("  PUT    /api/tasks/:taskId/subtasks/:subTaskId   - Update a sub-task")
	log.Println("  DELETE /api/tasks/:taskId/subtasks/:subTaskId   - Delete a sub-task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
