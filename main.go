package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quasydwekat2/task-management-system/clients"
	"github.com/quasydwekat2/task-management-system/handlers"
	"github.com/quasydwekat2/task-management-system/logging"
	"github.com/quasydwekat2/task-management-system/middleware"
	"github.com/quasydwekat2/task-management-system/repositories"
	"github.com/quasydwekat2/task-management-system/services"
	"github.com/quasydwekat2/task-management-system/utils"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting task management service...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: JWT_SECRET is not set in the environment variables.")
	}
	utils.SetSecret(jwtSecret)

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: MONGO_URI and MONGO_DB_NAME must be set in the environment variables.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	userRepo := repositories.NewMongoUserRepository(db.Collection("users"))
	projectRepo := repositories.NewMongoProjectRepository(db.Collection("projects"))
	taskRepo := repositories.NewMongoTaskRepository(db.Collection("tasks"))

	messageRepo, err := repositories.NewCassandraMessageRepository(os.Getenv("CASS_DB"))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Cassandra connection for chat failed: %v", err)
	}
	defer messageRepo.CloseSession()

	var blackList map[string]bool
	if path := os.Getenv("PASSWORD_BLACKLIST"); path != "" {
		blackList, err = services.LoadBlackList(path)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: Failed to load password blacklist from %s: %v", path, err)
		}
	}

	notifier := clients.NewNotifierClient(os.Getenv("NOTIFIER_URL"))

	engine := services.NewProgressEngine(taskRepo, projectRepo)
	userService := services.NewUserService(userRepo, blackList)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, engine)
	messageService := services.NewMessageService(messageRepo, notifier)
	dashboardService := services.NewDashboardService(projectRepo, taskRepo, userRepo)

	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	messageHandler := handlers.NewMessageHandler(messageService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", userHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/users/me", userHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/users/students", userHandler.GetStudents).Methods(http.MethodGet)
	api.HandleFunc("/users/admin", userHandler.GetAdmin).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userHandler.GetUserByID).Methods(http.MethodGet)

	api.HandleFunc("/projects", projectHandler.GetAllProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/student/{studentId}", projectHandler.GetProjectsByStudent).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.GetProjectByID).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/progress", projectHandler.PatchProgress).Methods(http.MethodPatch)

	api.HandleFunc("/tasks", taskHandler.GetAllTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/project/{projectId}", taskHandler.GetTasksByProject).Methods(http.MethodGet)
	api.HandleFunc("/tasks/student/{studentId}", taskHandler.GetTasksByStudent).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPatch)

	api.HandleFunc("/messages", messageHandler.SendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages/read/{userId}", messageHandler.MarkRead).Methods(http.MethodPatch)
	api.HandleFunc("/messages/{userId}", messageHandler.GetConversation).Methods(http.MethodGet)

	api.HandleFunc("/dashboard/stats", dashboardHandler.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/stats/student/{studentId}", dashboardHandler.GetStudentStats).Methods(http.MethodGet)

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
