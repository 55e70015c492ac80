package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"cloudtask/tasks-service/handlers"
	"cloudtask/tasks-service/logging"
	"cloudtask/tasks-service/repositories"
	"cloudtask/tasks-service/services"
	"cloudtask/tasks-service/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Role, X-User-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tasks Service...")
	err := godotenv.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	mongoCollectionName := os.Getenv("MONGO_COLLECTION")
	projectsServiceURL := os.Getenv("PROJECTS_SERVICE_URL")
	if projectsServiceURL == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: PROJECTS_SERVICE_URL is not set in the environment variables.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tasksClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer tasksClient.Disconnect(ctx)

	if err := tasksClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	tasksCollection := tasksClient.Database(mongoDBName).Collection(mongoCollectionName)
	logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB collection: %s/%s", mongoDBName, mongoCollectionName)

	httpClient := utils.NewHTTPClient()

	projectsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ProjectsServiceCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	taskRepository := repositories.NewTaskRepository(tasksCollection)
	projectsClient := services.NewProjectsClient(projectsServiceURL, httpClient, projectsBreaker)

	taskService := services.NewTaskService(taskRepository, projectsClient)
	assignmentService := services.NewAssignmentService(taskRepository, projectsClient)
	bulkService := services.NewBulkService(assignmentService)

	taskHandler := handlers.NewTaskHandler(taskService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, bulkService)

	r := mux.NewRouter()

	// Lifecycle
	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/project/{projectID}", taskHandler.GetTasksByProjectID).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPatch)

	// Assignment
	r.HandleFunc("/api/tasks/{taskID}/assign", assignmentHandler.AssignTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{taskID}/unassign", assignmentHandler.UnassignTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{taskID}/reassign", assignmentHandler.ReassignTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{taskID}/assignees", assignmentHandler.AssignMultipleUsers).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/bulk/assign", assignmentHandler.BulkAssign).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/bulk/unassign", assignmentHandler.BulkUnassign).Methods(http.MethodPost)

	// Assignment queries
	r.HandleFunc("/api/tasks/assignee/{userID}", assignmentHandler.GetTasksByAssignee).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/assignee/{userID}/status/{status}", assignmentHandler.GetTasksByAssigneeAndStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/assignee/{userID}/status/{status}/count", assignmentHandler.GetAssignedTaskCountByStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/project/{projectID}/assignee/{userID}", assignmentHandler.GetTasksByProjectAndAssignee).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/project/{projectID}/assignee/{userID}/count", assignmentHandler.GetAssignedTaskCount).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/project/{projectID}/assignee/{userID}/has-assigned", assignmentHandler.HasAssignedTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/project/{projectID}/unassigned", assignmentHandler.GetUnassignedTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/project/{projectID}/assigned", assignmentHandler.GetAssignedTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/assigned-by/{userID}", assignmentHandler.GetTasksAssignedBy).Methods(http.MethodGet)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
