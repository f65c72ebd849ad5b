package controllers

import (
	json "github.com/goccy/go-json"
	"net/http"
	"nsxd/internal/providers"
	"nsxd/internal/services"
)

const maxRequestBodySize = 1 << 16 // 64 KB, push payloads are tiny

type PushController struct {
	logger  providers.Logger
	service services.NotificationServiceInterface
}

func NewPushController(logger providers.Logger, service services.NotificationServiceInterface) *PushController {
	return &PushController{
		logger:  logger,
		service: service,
	}
}

// ReceivePush runs one invocation to completion and responds with the final
// notification content. The response is always 200 once the payload parses:
// degraded content is still content.
func (pc *PushController) ReceivePush(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload map[string]interface{}
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	content := pc.service.HandlePush(payload)

	gson, err := json.Marshal(&content)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (pc *PushController) Expire(w http.ResponseWriter, r *http.Request) {
	pc.service.Expire()
	w.WriteHeader(http.StatusNoContent)
}
