package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/handlers"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/logging"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/repositories"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/services"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", os.Getenv("CORS_ORIGIN"))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Role")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting workflow core service...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var itemRepo repositories.WorkItemRepository
	var memberRepo repositories.MemberRepository

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
		}
		defer client.Disconnect(context.Background())

		if err := client.Ping(ctx, nil); err != nil {
			logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
		}
		logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

		dbName := os.Getenv("MONGO_DB_NAME")
		if dbName == "" {
			dbName = "workflow_db"
		}
		db := client.Database(dbName)
		itemRepo = repositories.NewMongoWorkItemRepository(db)
		memberRepo = repositories.NewMongoMemberRepository(db)
	} else {
		logging.Logger.Warn("Event ID: DB_FALLBACK, Description: MONGO_URI not set, using in-memory store")
		memory := repositories.NewInMemoryRepository()
		itemRepo = memory
		memberRepo = memory
	}

	var mirror repositories.GraphMirror = repositories.NopGraphMirror{}
	if neo4jURI := os.Getenv("NEO4J_URI"); neo4jURI != "" {
		driver, err := neo4j.NewDriverWithContext(neo4jURI, neo4j.BasicAuth(os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_PASSWORD"), ""))
		if err != nil {
			logging.Logger.Fatalf("Event ID: NEO4J_CONNECTION_FAILED, Description: Failed to create Neo4j driver: %v", err)
		}
		defer driver.Close(context.Background())
		mirror = repositories.NewNeo4jGraphMirror(driver)
		logging.Logger.Infof("Event ID: NEO4J_CONNECTED, Description: Graph mirror enabled at %s.", neo4jURI)
	}

	var notifier services.Notifier = services.NopNotifier{}
	if notifierURL := os.Getenv("NOTIFIER_URL"); notifierURL != "" {
		notifier = services.NewHTTPNotifier(notifierURL)
		logging.Logger.Infof("Event ID: NOTIFIER_CONFIGURED, Description: Publishing change events to %s.", notifierURL)
	}

	var skillMatrix models.SkillMatrix
	if path := os.Getenv("SKILL_MATRIX_PATH"); path != "" {
		matrix, err := services.LoadSkillMatrix(path)
		if err != nil {
			logging.Logger.Fatalf("Event ID: SKILL_MATRIX_LOAD_FAILED, Description: %v", err)
		}
		skillMatrix = matrix
	}

	workflowService := services.NewWorkflowService(itemRepo, mirror)
	lifecycleService := services.NewLifecycleService(itemRepo, notifier)
	capacityEngine := services.NewCapacityEngine(services.DefaultCapacityConfig(), skillMatrix)

	workflowHandler := handlers.NewWorkflowHandler(workflowService)
	kanbanHandler := handlers.NewKanbanHandler(workflowService, lifecycleService)
	itemHandler := handlers.NewItemHandler(lifecycleService)
	capacityHandler := handlers.NewCapacityHandler(capacityEngine, itemRepo, memberRepo)

	router := mux.NewRouter()
	router.HandleFunc("/api/workflow/project/{projectId}", workflowHandler.GetProjectWorkflow).Methods(http.MethodGet)
	router.HandleFunc("/api/workflow/dependencies/{itemId}", workflowHandler.UpdateDependencies).Methods(http.MethodPut)
	router.HandleFunc("/api/kanban/{projectId}", kanbanHandler.GetBoard).Methods(http.MethodGet)
	router.HandleFunc("/api/kanban/item/{id}", kanbanHandler.MoveItem).Methods(http.MethodPut)
	router.HandleFunc("/api/items", itemHandler.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/api/items/{id}", itemHandler.UpdateItem).Methods(http.MethodPut)
	router.HandleFunc("/api/items/{id}", itemHandler.DeleteItem).Methods(http.MethodDelete)
	router.HandleFunc("/api/items/{id}/start", itemHandler.StartItem).Methods(http.MethodPost)
	router.HandleFunc("/api/items/{id}/complete", itemHandler.CompleteItem).Methods(http.MethodPost)
	router.HandleFunc("/api/items/{id}/time-tracking", itemHandler.UpdateTimeTracking).Methods(http.MethodPost)
	router.HandleFunc("/api/capacity/team", capacityHandler.GetTeamCapacity).Methods(http.MethodGet)
	router.HandleFunc("/api/capacity/alerts", capacityHandler.GetCapacityAlerts).Methods(http.MethodGet)
	router.HandleFunc("/api/capacity/member/{userId}", capacityHandler.GetMemberCapacity).Methods(http.MethodGet)
	router.HandleFunc("/api/capacity/member/{userId}/skill-gaps", capacityHandler.GetSkillGaps).Methods(http.MethodGet)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8006"
	}

	srv := &http.Server{
		Handler:      enableCORS(router),
		Addr:         port,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Workflow core service running on %s", port)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
