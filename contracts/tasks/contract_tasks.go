package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"forems-backend/config"
	contract_services "forems-backend/contracts/services"
	"forems-backend/db/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TypeContractGenerate = "contract:generate"

type ContractGeneratePayload struct {
	ApplicationID uuid.UUID `json:"application_id"`
}

// ContractEnqueuer queues contract generation jobs after a successful
// contract payment. It satisfies the reconciliation service's dispatcher.
type ContractEnqueuer struct {
	client *asynq.Client
}

func NewContractEnqueuer(client *asynq.Client) *ContractEnqueuer {
	return &ContractEnqueuer{client: client}
}

func (e *ContractEnqueuer) EnqueueContractGeneration(applicationID uuid.UUID) error {
	payload, err := json.Marshal(ContractGeneratePayload{ApplicationID: applicationID})
	if err != nil {
		return fmt.Errorf("failed to marshal contract task payload: %w", err)
	}

	task := asynq.NewTask(TypeContractGenerate, payload)
	info, err := e.client.Enqueue(task,
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue contract generation: %w", err)
	}

	config.Logger.Info("Contract generation enqueued",
		zap.String("applicationID", applicationID.String()),
		zap.String("taskID", info.ID))
	return nil
}

// ContractTaskHandler processes queued contract generation jobs.
type ContractTaskHandler struct {
	db       *gorm.DB
	contract *contract_services.ContractService
}

func NewContractTaskHandler(db *gorm.DB, contract *contract_services.ContractService) *ContractTaskHandler {
	return &ContractTaskHandler{db: db, contract: contract}
}

func (h *ContractTaskHandler) HandleContractGenerate(ctx context.Context, t *asynq.Task) error {
	var payload ContractGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal contract task payload: %v: %w", err, asynq.SkipRetry)
	}

	var application models.Application
	err := h.db.WithContext(ctx).
		Preload("Property").
		Preload("Property.Landlord").
		Preload("Tenant").
		First(&application, "id = ?", payload.ApplicationID).Error
	if err != nil {
		return fmt.Errorf("failed to load application %s: %w", payload.ApplicationID, err)
	}

	// The payment may have been disputed between enqueue and processing.
	if application.ContractPayment.Status != models.SuccessfulContractPayment {
		config.Logger.Warn("Skipping contract generation for unsettled payment",
			zap.String("applicationID", application.ID.String()),
			zap.String("status", string(application.ContractPayment.Status)))
		return nil
	}

	contractPath, err := h.contract.GenerateTenancyContract(application)
	if err != nil {
		return err
	}

	if err := h.contract.DeliverContract(application, contractPath); err != nil {
		// The PDF exists; delivery retries should not regenerate it forever.
		config.Logger.Error("Contract generated but delivery failed",
			zap.String("applicationID", application.ID.String()),
			zap.Error(err))
		return err
	}

	return nil
}

// NewWorkerServer builds the asynq server and mux for contract jobs.
func NewWorkerServer(redisOpt asynq.RedisClientOpt, handler *ContractTaskHandler) (*asynq.Server, *asynq.ServeMux) {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeContractGenerate, handler.HandleContractGenerate)

	return server, mux
}
